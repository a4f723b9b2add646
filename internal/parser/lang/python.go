package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type pythonAdapter struct{ p *sitter.Parser }

// NewPython returns the Python adapter. Exports default to every
// non-underscore top-level name unless __all__ is present, in which case
// it is authoritative.
func NewPython() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &pythonAdapter{p: p}
}

func (a *pythonAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	var allNames []string
	hasAll := false
	root := tree.RootNode()

	for _, child := range children(root) {
		switch child.Type() {
		case "import_statement":
			res.Imports = append(res.Imports, pyImportStatement(child, src)...)
		case "import_from_statement":
			if imp := pyImportFrom(child, src); imp != nil {
				res.Imports = append(res.Imports, *imp)
			}
		case "function_definition":
			if sym := pyFunction(child, src); sym != nil {
				res.Symbols = append(res.Symbols, *sym)
			}
		case "class_definition":
			res.Symbols = append(res.Symbols, pyClass(child, src)...)
		case "expression_statement":
			if names, ok := pyDunderAll(child, src); ok {
				hasAll = true
				allNames = names
			}
		}
	}

	if hasAll {
		set := make(map[string]bool, len(allNames))
		for _, n := range allNames {
			set[n] = true
		}
		for _, sym := range res.Symbols {
			if !strings.Contains(sym.Name, ".") && set[sym.Name] {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
			}
		}
	} else {
		for _, sym := range res.Symbols {
			if !strings.Contains(sym.Name, ".") && !strings.HasPrefix(sym.Name, "_") {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
			}
		}
	}
	return res, nil
}

func pyImportStatement(n *sitter.Node, src []byte) []contract.ParsedImport {
	var out []contract.ParsedImport
	for _, c := range children(n) {
		switch c.Type() {
		case "dotted_name":
			source := text(c, src)
			out = append(out, contract.ParsedImport{Source: source, Names: []string{pyLastSegment(source)}})
		case "aliased_import":
			nameNode := c.ChildByFieldName("name")
			aliasNode := c.ChildByFieldName("alias")
			source := text(nameNode, src)
			alias := text(aliasNode, src)
			if alias == "" {
				alias = pyLastSegment(source)
			}
			out = append(out, contract.ParsedImport{Source: source, Names: []string{alias}})
		}
	}
	return out
}

func pyImportFrom(n *sitter.Node, src []byte) *contract.ParsedImport {
	moduleNode := n.ChildByFieldName("module_name")
	source := pyModuleSource(moduleNode, src)

	imp := &contract.ParsedImport{Source: source}
	seenImportKw := false
	for _, c := range children(n) {
		if c.Type() == "import" {
			seenImportKw = true
			continue
		}
		if !seenImportKw {
			continue
		}
		switch c.Type() {
		case "wildcard_import":
			imp.IsNamespace = true
		case "dotted_name":
			imp.Names = append(imp.Names, text(c, src))
		case "aliased_import":
			aliasNode := c.ChildByFieldName("alias")
			nameNode := c.ChildByFieldName("name")
			alias := text(aliasNode, src)
			if alias == "" {
				alias = text(nameNode, src)
			}
			imp.Names = append(imp.Names, alias)
		}
	}
	return imp
}

// pyModuleSource renders a module_name or relative_import node back to the
// specifier text Python source actually wrote, e.g. ".", "..", ".pkg".
func pyModuleSource(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	if n.Type() == "relative_import" {
		var b strings.Builder
		for _, c := range children(n) {
			b.WriteString(text(c, src))
		}
		return b.String()
	}
	return text(n, src)
}

func pyLastSegment(dotted string) string {
	parts := strings.Split(dotted, ".")
	return parts[len(parts)-1]
}

func pyFunction(n *sitter.Node, src []byte) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	startLine, startCol, endLine, endCol := span(n)
	return &contract.ParsedSymbol{
		Kind: "function", Name: text(nameNode, src),
		Signature: pySignature(n, src),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

func pySignature(n *sitter.Node, src []byte) string {
	var b strings.Builder
	b.WriteString("def ")
	if name := n.ChildByFieldName("name"); name != nil {
		b.WriteString(text(name, src))
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.WriteString(text(params, src))
	}
	return firstLine(b.String(), 200)
}

func pyClass(n *sitter.Node, src []byte) []contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	className := text(nameNode, src)
	startLine, startCol, endLine, endCol := span(n)
	cls := contract.ParsedSymbol{
		Kind: "class", Name: className,
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
	if superclasses := n.ChildByFieldName("superclasses"); superclasses != nil {
		bases := children(superclasses)
		for i, b := range bases {
			if !b.IsNamed() {
				continue
			}
			if i == 0 || cls.Extends == "" {
				cls.Extends = text(b, src)
			} else {
				cls.Implements = append(cls.Implements, text(b, src))
			}
		}
	}

	out := []contract.ParsedSymbol{cls}
	body := n.ChildByFieldName("body")
	for _, member := range children(body) {
		if member.Type() != "function_definition" {
			continue
		}
		nameN := member.ChildByFieldName("name")
		if nameN == nil {
			continue
		}
		mStart, mStartCol, mEnd, mEndCol := span(member)
		out = append(out, contract.ParsedSymbol{
			Kind: "method", Name: className + "." + text(nameN, src),
			Signature: pySignature(member, src),
			StartLine: mStart, StartCol: mStartCol, EndLine: mEnd, EndCol: mEndCol,
		})
	}
	return out
}

// pyDunderAll recognises `__all__ = [...]` / `__all__ = (...)` at module
// scope and extracts its string literal entries.
func pyDunderAll(stmt *sitter.Node, src []byte) ([]string, bool) {
	assign := firstChildOfType(stmt, "assignment")
	if assign == nil {
		return nil, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || text(left, src) != "__all__" {
		return nil, false
	}
	right := assign.ChildByFieldName("right")
	if right == nil {
		return nil, false
	}
	var names []string
	for _, el := range children(right) {
		if el.Type() == "string" {
			names = append(names, stripQuotes(text(el, src)))
		}
	}
	return names, true
}
