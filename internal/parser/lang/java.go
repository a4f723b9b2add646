package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type javaAdapter struct{ p *sitter.Parser }

// NewJava returns the Java adapter. Declarations bearing `public` are
// exports; record/annotation types map to class/interface.
func NewJava() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &javaAdapter{p: p}
}

func (a *javaAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	root := tree.RootNode()
	for _, child := range children(root) {
		switch child.Type() {
		case "import_declaration":
			if imp := javaImport(child, src); imp != nil {
				res.Imports = append(res.Imports, *imp)
			}
		default:
			javaWalkType(child, src, &res)
		}
	}
	return res, nil
}

func javaImport(n *sitter.Node, src []byte) *contract.ParsedImport {
	isStatic := false
	var pathNode *sitter.Node
	for _, c := range children(n) {
		switch {
		case c.Type() == "static":
			isStatic = true
		case c.Type() == "scoped_identifier" || c.Type() == "identifier":
			pathNode = c
		case c.Type() == "asterisk":
			if pathNode != nil {
				return &contract.ParsedImport{Source: text(pathNode, src) + ".*", IsNamespace: true}
			}
		}
	}
	if pathNode == nil {
		return nil
	}
	source := text(pathNode, src)
	return &contract.ParsedImport{Source: source, Names: []string{javaLastSegment(source)}, IsDefault: isStatic}
}

func javaLastSegment(path string) string {
	parts := strings.Split(path, ".")
	return parts[len(parts)-1]
}

func javaWalkType(n *sitter.Node, src []byte, res *contract.Result) {
	kind, ok := map[string]string{
		"class_declaration":           "class",
		"interface_declaration":       "interface",
		"enum_declaration":            "enum",
		"record_declaration":          "class",
		"annotation_type_declaration": "interface",
	}[n.Type()]
	if !ok {
		return
	}
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	className := text(nameNode, src)
	startLine, startCol, endLine, endCol := span(n)
	sym := contract.ParsedSymbol{
		Kind: kind, Name: className,
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
	if superclass := n.ChildByFieldName("superclass"); superclass != nil {
		if t := superclass.NamedChild(0); t != nil {
			sym.Extends = javaStripGenerics(text(t, src))
		}
	}
	if interfaces := n.ChildByFieldName("interfaces"); interfaces != nil {
		walk(interfaces, func(w *sitter.Node) bool {
			if w.Type() == "type_identifier" || w.Type() == "generic_type" {
				sym.Implements = append(sym.Implements, javaStripGenerics(text(w, src)))
				return false
			}
			return true
		})
	}
	res.Symbols = append(res.Symbols, sym)
	if javaIsPublic(n) {
		res.Exports = append(res.Exports, contract.ParsedExport{Name: className})
	}

	body := n.ChildByFieldName("body")
	for _, member := range children(body) {
		javaMember(member, src, className, res)
	}
}

func javaMember(n *sitter.Node, src []byte, owner string, res *contract.Result) {
	switch n.Type() {
	case "method_declaration", "constructor_declaration":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		kind := "method"
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: kind, Name: owner + "." + text(nameNode, src),
			Signature: javaMethodSignature(n, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
	case "field_declaration":
		for _, declarator := range children(n) {
			if declarator.Type() != "variable_declarator" {
				continue
			}
			nameNode := declarator.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			startLine, startCol, endLine, endCol := span(declarator)
			res.Symbols = append(res.Symbols, contract.ParsedSymbol{
				Kind: "property", Name: owner + "." + text(nameNode, src),
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
		}
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration", "annotation_type_declaration":
		javaWalkType(n, src, res)
	}
}

func javaMethodSignature(n *sitter.Node, src []byte) string {
	var b strings.Builder
	if t := n.ChildByFieldName("type"); t != nil {
		b.WriteString(text(t, src))
		b.WriteString(" ")
	}
	if name := n.ChildByFieldName("name"); name != nil {
		b.WriteString(text(name, src))
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.WriteString(text(params, src))
	}
	return firstLine(b.String(), 200)
}

func javaIsPublic(n *sitter.Node) bool {
	mods := firstChildOfType(n, "modifiers")
	if mods == nil {
		return false
	}
	for _, m := range children(mods) {
		if m.Type() == "public" {
			return true
		}
	}
	return false
}

func javaStripGenerics(s string) string {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		return s[:i]
	}
	return s
}
