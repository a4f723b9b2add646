package lang

import (
	"context"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type goAdapter struct{ p *sitter.Parser }

// NewGo returns the Go adapter. Exports are symbols whose name starts with
// an uppercase letter; methods are named "Receiver.Name" with the pointer
// stripped.
func NewGo() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &goAdapter{p: p}
}

func (a *goAdapter) Parse(src []byte) (contract.Result, error) {
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
			res.Imports = append(res.Imports, goImports(child, src)...)
		case "function_declaration":
			if sym := goFunction(child, src); sym != nil {
				res.Symbols = append(res.Symbols, *sym)
			}
		case "method_declaration":
			if sym := goMethod(child, src); sym != nil {
				res.Symbols = append(res.Symbols, *sym)
			}
		case "type_declaration":
			res.Symbols = append(res.Symbols, goTypeSpecs(child, src)...)
		case "const_declaration", "var_declaration":
			res.Symbols = append(res.Symbols, goValueSpecs(child, src)...)
		}
	}

	for _, sym := range res.Symbols {
		if goIsExported(sym.Name) {
			res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
		}
	}
	return res, nil
}

func goIsExported(name string) bool {
	baseName := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		baseName = name[i+1:]
	}
	r := []rune(baseName)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func goImports(n *sitter.Node, src []byte) []contract.ParsedImport {
	var out []contract.ParsedImport
	var specs []*sitter.Node
	for _, c := range children(n) {
		switch c.Type() {
		case "import_spec":
			specs = append(specs, c)
		case "import_spec_list":
			specs = append(specs, children(c)...)
		}
	}
	for _, spec := range specs {
		if spec.Type() != "import_spec" {
			continue
		}
		pathNode := spec.ChildByFieldName("path")
		nameNode := spec.ChildByFieldName("name")
		source := stripQuotes(text(pathNode, src))
		if source == "" {
			continue
		}
		imp := contract.ParsedImport{Source: source}
		switch text(nameNode, src) {
		case ".":
			imp.IsNamespace = true
		case "_":
			// blank import: no bindings.
		case "":
			imp.Names = []string{goDefaultAlias(source)}
		default:
			imp.Names = []string{text(nameNode, src)}
		}
		out = append(out, imp)
	}
	return out
}

func goDefaultAlias(importPath string) string {
	if i := strings.LastIndexByte(importPath, '/'); i >= 0 {
		return importPath[i+1:]
	}
	return importPath
}

func goFunction(n *sitter.Node, src []byte) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	startLine, startCol, endLine, endCol := span(n)
	return &contract.ParsedSymbol{
		Kind:      "function",
		Name:      text(nameNode, src),
		Signature: firstLine(text(n, src), 200),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

func goMethod(n *sitter.Node, src []byte) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	recvNode := n.ChildByFieldName("receiver")
	if nameNode == nil || recvNode == nil {
		return nil
	}
	receiverType := goReceiverTypeName(recvNode, src)
	if receiverType == "" {
		return nil
	}
	startLine, startCol, endLine, endCol := span(n)
	return &contract.ParsedSymbol{
		Kind:      "method",
		Name:      receiverType + "." + text(nameNode, src),
		Signature: firstLine(text(n, src), 200),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

// goReceiverTypeName extracts "T" from receivers shaped like "(t T)" or
// "(t *T)", stripping the pointer.
func goReceiverTypeName(recv *sitter.Node, src []byte) string {
	var typeName string
	walk(recv, func(n *sitter.Node) bool {
		switch n.Type() {
		case "pointer_type":
			if id := n.NamedChild(0); id != nil {
				typeName = text(id, src)
			}
			return false
		case "type_identifier":
			if typeName == "" {
				typeName = text(n, src)
			}
		}
		return true
	})
	return typeName
}

func goTypeSpecs(n *sitter.Node, src []byte) []contract.ParsedSymbol {
	var out []contract.ParsedSymbol
	for _, c := range children(n) {
		if c.Type() != "type_spec" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		kind := "type"
		if typeNode := c.ChildByFieldName("type"); typeNode != nil {
			switch typeNode.Type() {
			case "struct_type":
				kind = "struct"
			case "interface_type":
				kind = "interface"
			}
		}
		startLine, startCol, endLine, endCol := span(c)
		out = append(out, contract.ParsedSymbol{
			Kind:      kind,
			Name:      text(nameNode, src),
			Signature: firstLine(text(c, src), 200),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
	}
	return out
}

func goValueSpecs(n *sitter.Node, src []byte) []contract.ParsedSymbol {
	kind := "variable"
	if n.Type() == "const_declaration" {
		kind = "constant"
	}
	var out []contract.ParsedSymbol
	specType := "var_spec"
	if kind == "constant" {
		specType = "const_spec"
	}
	for _, c := range children(n) {
		if c.Type() != specType {
			continue
		}
		for _, id := range children(c) {
			if id.Type() != "identifier" {
				continue
			}
			startLine, startCol, endLine, endCol := span(id)
			out = append(out, contract.ParsedSymbol{
				Kind:      kind,
				Name:      text(id, src),
				Signature: firstLine(text(c, src), 200),
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
		}
	}
	return out
}
