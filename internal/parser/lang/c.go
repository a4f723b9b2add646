package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type cAdapter struct{ p *sitter.Parser }

// NewC returns the C adapter. Non-static top-level declarations are
// exports; `#define` becomes a constant, function-like `#define` a
// function.
func NewC() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return &cAdapter{p: p}
}

func (a *cAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	for _, child := range children(tree.RootNode()) {
		cTopLevel(child, src, &res)
	}
	return res, nil
}

func cTopLevel(n *sitter.Node, src []byte, res *contract.Result) {
	switch n.Type() {
	case "preproc_include":
		pathNode := n.NamedChild(0)
		if pathNode == nil {
			return
		}
		raw := text(pathNode, src)
		source := strings.Trim(raw, "\"<>")
		res.Imports = append(res.Imports, contract.ParsedImport{Source: source})

	case "function_definition":
		nameNode := cDeclaratorName(n.ChildByFieldName("declarator"), src)
		if nameNode == "" {
			return
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: "function", Name: nameNode,
			Signature: firstLine(text(n.ChildByFieldName("declarator"), src), 200),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
		if !cIsStatic(n, src) {
			res.Exports = append(res.Exports, contract.ParsedExport{Name: nameNode})
		}

	case "declaration":
		if cIsStatic(n, src) {
			return
		}
		for _, d := range children(n) {
			if d.Type() != "init_declarator" && d.Type() != "identifier" && d.Type() != "function_declarator" {
				continue
			}
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

	case "struct_specifier", "union_specifier", "enum_specifier":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		kind := "struct"
		if n.Type() == "enum_specifier" {
			kind = "enum"
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: kind, Name: text(nameNode, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
		res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})

	case "preproc_def":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: "constant", Name: text(nameNode, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
		res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})

	case "preproc_function_def":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		startLine, startCol, endLine, endCol := span(n)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: "function", Name: text(nameNode, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
		res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})

	case "linkage_specification":
		// extern "C" { ... }: unwrap the body. Harmless no-op for plain
		// C sources where this node type never appears.
		if body := n.ChildByFieldName("body"); body != nil {
			for _, c2 := range children(body) {
				cTopLevel(c2, src, res)
			}
		}
	}
}

func cDeclaratorName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier", "field_identifier":
		return text(n, src)
	case "pointer_declarator":
		return cDeclaratorName(n.ChildByFieldName("declarator"), src)
	case "function_declarator", "array_declarator", "init_declarator":
		return cDeclaratorName(n.ChildByFieldName("declarator"), src)
	}
	return ""
}

func cIsStatic(n *sitter.Node, src []byte) bool {
	for _, c := range children(n) {
		if c.Type() == "storage_class_specifier" && text(c, src) == "static" {
			return true
		}
	}
	return false
}
