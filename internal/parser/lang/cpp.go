package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type cppAdapter struct{ p *sitter.Parser }

// NewCPP returns the C++ adapter: `#include` and C++20 `import`; all
// non-static top-level symbols export; methods named "Owner::name"; a
// base-class clause's first entry is extends, the rest implements;
// `extern "C" { … }` is unwrapped.
func NewCPP() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(cpp.GetLanguage())
	return &cppAdapter{p: p}
}

func (a *cppAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	for _, child := range children(tree.RootNode()) {
		cppTopLevel(child, src, &res)
	}
	return res, nil
}

func cppTopLevel(n *sitter.Node, src []byte, res *contract.Result) {
	switch n.Type() {
	case "preproc_include":
		pathNode := n.NamedChild(0)
		if pathNode == nil {
			return
		}
		res.Imports = append(res.Imports, contract.ParsedImport{Source: strings.Trim(text(pathNode, src), "\"<>")})

	case "import_declaration":
		// C++20 `import foo;` / `import <foo>;`
		if nameNode := n.NamedChild(0); nameNode != nil {
			res.Imports = append(res.Imports, contract.ParsedImport{Source: strings.Trim(text(nameNode, src), "\"<>")})
		}

	case "function_definition":
		name := cDeclaratorName(n.ChildByFieldName("declarator"), src)
		if name == "" {
			return
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: "function", Name: name,
			Signature: firstLine(text(n.ChildByFieldName("declarator"), src), 200),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
		if !cIsStatic(n, src) {
			res.Exports = append(res.Exports, contract.ParsedExport{Name: name})
		}

	case "declaration":
		if cIsStatic(n, src) {
			return
		}
		for _, d := range children(n) {
			name := cDeclaratorName(d, src)
			if name == "" {
				continue
			}
			startLine, startCol, endLine, endCol := span(n)
			res.Symbols = append(res.Symbols, contract.ParsedSymbol{
				Kind: "variable", Name: name,
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
			res.Exports = append(res.Exports, contract.ParsedExport{Name: name})
		}

	case "class_specifier", "struct_specifier":
		res.Symbols = append(res.Symbols, cppClass(n, src)...)
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
		}

	case "namespace_definition":
		if body := n.ChildByFieldName("body"); body != nil {
			for _, c := range children(body) {
				cppTopLevel(c, src, res)
			}
		}

	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			for _, c := range children(body) {
				cppTopLevel(c, src, res)
			}
		} else if decl := n.NamedChild(1); decl != nil {
			cppTopLevel(decl, src, res)
		}

	case "preproc_def":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			startLine, startCol, endLine, endCol := span(n)
			res.Symbols = append(res.Symbols, contract.ParsedSymbol{
				Kind: "constant", Name: text(nameNode, src),
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
			res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
		}
	}
}

func cppClass(n *sitter.Node, src []byte) []contract.ParsedSymbol {
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
	if baseList := firstChildOfType(n, "base_class_clause"); baseList != nil {
		bases := children(baseList)
		first := true
		for _, b := range bases {
			if !b.IsNamed() || b.Type() == "access_specifier" || b.Type() == "attribute_declaration" {
				continue
			}
			name := text(b, src)
			if first {
				cls.Extends = name
				first = false
			} else {
				cls.Implements = append(cls.Implements, name)
			}
		}
	}

	out := []contract.ParsedSymbol{cls}
	body := n.ChildByFieldName("body")
	for _, member := range children(body) {
		if member.Type() != "function_definition" && member.Type() != "field_declaration" {
			continue
		}
		if member.Type() == "function_definition" {
			name := cDeclaratorName(member.ChildByFieldName("declarator"), src)
			if name == "" {
				continue
			}
			startLine, startCol, endLine, endCol := span(member)
			out = append(out, contract.ParsedSymbol{
				Kind: "method", Name: className + "::" + name,
				Signature: firstLine(text(member.ChildByFieldName("declarator"), src), 200),
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
			continue
		}
		for _, d := range children(member) {
			name := cDeclaratorName(d, src)
			if name == "" {
				continue
			}
			startLine, startCol, endLine, endCol := span(member)
			out = append(out, contract.ParsedSymbol{
				Kind: "property", Name: className + "::" + name,
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
		}
	}
	return out
}
