package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type csharpAdapter struct{ p *sitter.Parser }

// NewCSharp returns the C# adapter. `public` declarations export; records
// and record-structs map to class; generic base-list types are stripped
// of type arguments.
func NewCSharp() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &csharpAdapter{p: p}
}

func (a *csharpAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	root := tree.RootNode()
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "using_directive":
			if imp := csUsingDirective(n, src); imp != nil {
				res.Imports = append(res.Imports, *imp)
			}
			return false
		case "namespace_declaration", "file_scoped_namespace_declaration", "compilation_unit":
			return true
		case "class_declaration", "interface_declaration", "struct_declaration",
			"record_declaration", "record_struct_declaration", "enum_declaration":
			csTypeDeclaration(n, src, &res)
			return false
		}
		return true
	})
	return res, nil
}

func csUsingDirective(n *sitter.Node, src []byte) *contract.ParsedImport {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	raw := text(n, src)
	isStaticUsing := strings.Contains(raw, "using static")
	aliasNode := n.ChildByFieldName("alias")

	source := text(nameNode, src)
	imp := &contract.ParsedImport{Source: source, IsDefault: isStaticUsing}
	if aliasNode != nil {
		imp.Names = []string{text(aliasNode, src)}
	} else {
		imp.Names = []string{csLastSegment(source)}
	}
	return imp
}

func csLastSegment(path string) string {
	parts := strings.Split(path, ".")
	return parts[len(parts)-1]
}

func csTypeDeclaration(n *sitter.Node, src []byte, res *contract.Result) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := text(nameNode, src)
	kind := map[string]string{
		"class_declaration": "class", "interface_declaration": "interface",
		"struct_declaration": "class", "record_declaration": "class",
		"record_struct_declaration": "class", "enum_declaration": "enum",
	}[n.Type()]

	startLine, startCol, endLine, endCol := span(n)
	sym := contract.ParsedSymbol{
		Kind: kind, Name: name,
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
	if baseList := n.ChildByFieldName("bases"); baseList != nil {
		first := true
		for _, t := range children(baseList) {
			if !t.IsNamed() {
				continue
			}
			typeName := csStripGenerics(text(t, src))
			if first {
				sym.Extends = typeName
				first = false
			} else {
				sym.Implements = append(sym.Implements, typeName)
			}
		}
	}
	res.Symbols = append(res.Symbols, sym)
	if csIsPublic(n, src) {
		res.Exports = append(res.Exports, contract.ParsedExport{Name: name})
	}

	body := n.ChildByFieldName("body")
	for _, member := range children(body) {
		csMember(member, src, name, res)
	}
}

func csMember(n *sitter.Node, src []byte, owner string, res *contract.Result) {
	switch n.Type() {
	case "method_declaration", "constructor_declaration":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: "method", Name: owner + "." + text(nameNode, src),
			Signature: csMethodSignature(n, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
	case "property_declaration":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: "property", Name: owner + "." + text(nameNode, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
	case "field_declaration":
		for _, decl := range children(n) {
			if decl.Type() != "variable_declaration" {
				continue
			}
			for _, declarator := range children(decl) {
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
		}
	case "class_declaration", "interface_declaration", "struct_declaration",
		"record_declaration", "record_struct_declaration", "enum_declaration":
		csTypeDeclaration(n, src, res)
	}
}

func csMethodSignature(n *sitter.Node, src []byte) string {
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

func csIsPublic(n *sitter.Node, src []byte) bool {
	for _, c := range children(n) {
		if c.Type() != "modifier" {
			continue
		}
		switch text(c, src) {
		case "public":
			return true
		case "private", "internal", "protected":
			return false
		}
	}
	return false
}

func csStripGenerics(s string) string {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	return s
}
