package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type phpAdapter struct{ p *sitter.Parser }

// NewPHP returns the PHP adapter. All top-level class/interface/trait/
// function/const/enum/namespace declarations are exports; `\` separators
// are retained in import sources.
func NewPHP() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(php.GetLanguage())
	return &phpAdapter{p: p}
}

func (a *phpAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "namespace_use_declaration":
			res.Imports = append(res.Imports, phpUseDeclaration(n, src)...)
			return false
		case "function_definition":
			if sym := phpFunction(n, src, ""); sym != nil {
				res.Symbols = append(res.Symbols, *sym)
				res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
			}
		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			res.Symbols = append(res.Symbols, phpType(n, src)...)
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
			return false
		case "const_declaration":
			for _, el := range children(n) {
				if el.Type() != "const_element" {
					continue
				}
				nameNode := el.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				startLine, startCol, endLine, endCol := span(el)
				res.Symbols = append(res.Symbols, contract.ParsedSymbol{
					Kind: "constant", Name: text(nameNode, src),
					StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
				})
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
		case "namespace_definition":
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				startLine, startCol, endLine, endCol := span(n)
				res.Symbols = append(res.Symbols, contract.ParsedSymbol{
					Kind: "namespace", Name: text(nameNode, src),
					StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
				})
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
		case "include_expression", "include_once_expression", "require_expression", "require_once_expression":
			if arg := n.NamedChild(0); arg != nil {
				res.Imports = append(res.Imports, contract.ParsedImport{Source: stripQuotes(text(arg, src)), IsDynamic: true})
			}
			return false
		}
		return true
	})
	return res, nil
}

func phpUseDeclaration(n *sitter.Node, src []byte) []contract.ParsedImport {
	var out []contract.ParsedImport
	for _, clause := range children(n) {
		switch clause.Type() {
		case "namespace_use_clause":
			nameNode := clause.ChildByFieldName("name")
			aliasNode := clause.ChildByFieldName("alias")
			source := text(nameNode, src)
			alias := text(aliasNode, src)
			if alias == "" {
				alias = phpLastSegment(source)
			}
			out = append(out, contract.ParsedImport{Source: source, Names: []string{alias}})
		case "namespace_use_group_clause_list":
			prefix := phpUsePrefix(n, src)
			for _, group := range children(clause) {
				if group.Type() != "namespace_use_group_clause" {
					continue
				}
				nameNode := group.ChildByFieldName("name")
				aliasNode := group.ChildByFieldName("alias")
				source := prefix + "\\" + text(nameNode, src)
				alias := text(aliasNode, src)
				if alias == "" {
					alias = phpLastSegment(text(nameNode, src))
				}
				out = append(out, contract.ParsedImport{Source: source, Names: []string{alias}})
			}
		}
	}
	return out
}

func phpUsePrefix(useDecl *sitter.Node, src []byte) string {
	if prefix := useDecl.ChildByFieldName("prefix"); prefix != nil {
		return text(prefix, src)
	}
	return ""
}

func phpLastSegment(s string) string {
	parts := strings.Split(s, "\\")
	return parts[len(parts)-1]
}

func phpFunction(n *sitter.Node, src []byte, owner string) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := text(nameNode, src)
	kind := "function"
	if owner != "" {
		name = owner + "." + name
		kind = "method"
	}
	startLine, startCol, endLine, endCol := span(n)
	var b strings.Builder
	b.WriteString("function ")
	b.WriteString(text(nameNode, src))
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.WriteString(text(params, src))
	}
	return &contract.ParsedSymbol{
		Kind: kind, Name: name, Signature: firstLine(b.String(), 200),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

func phpType(n *sitter.Node, src []byte) []contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	className := text(nameNode, src)
	kind := map[string]string{
		"class_declaration": "class", "interface_declaration": "interface",
		"trait_declaration": "trait", "enum_declaration": "enum",
	}[n.Type()]
	startLine, startCol, endLine, endCol := span(n)
	cls := contract.ParsedSymbol{
		Kind: kind, Name: className,
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
	if base := n.ChildByFieldName("base_clause"); base != nil {
		if t := base.NamedChild(0); t != nil {
			cls.Extends = text(t, src)
		}
	}
	if iface := n.ChildByFieldName("interfaces"); iface != nil {
		for _, t := range children(iface) {
			if t.IsNamed() {
				cls.Implements = append(cls.Implements, text(t, src))
			}
		}
	}

	out := []contract.ParsedSymbol{cls}
	body := n.ChildByFieldName("body")
	for _, member := range children(body) {
		switch member.Type() {
		case "method_declaration":
			if sym := phpFunction(member, src, className); sym != nil {
				out = append(out, *sym)
			}
		case "property_declaration":
			for _, el := range children(member) {
				if el.Type() != "property_element" {
					continue
				}
				nameN := el.ChildByFieldName("name")
				if nameN == nil {
					continue
				}
				startLine, startCol, endLine, endCol := span(el)
				out = append(out, contract.ParsedSymbol{
					Kind: "property", Name: className + "." + strings.TrimPrefix(text(nameN, src), "$"),
					StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
				})
			}
		}
	}
	return out
}
