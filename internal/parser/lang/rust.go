package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type rustAdapter struct{ p *sitter.Parser }

// NewRust returns the Rust adapter. `pub` items are exports; impl/trait
// methods are named "Type.method"; `impl Trait for T` contributes Trait to
// T's implements list.
func NewRust() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())
	return &rustAdapter{p: p}
}

func (a *rustAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	// implements[] accumulated per type name, merged into the type symbol
	// once every impl block has been seen (impl blocks can appear anywhere
	// relative to the type's own declaration).
	implementsByType := map[string][]string{}

	root := tree.RootNode()
	for _, child := range children(root) {
		switch child.Type() {
		case "use_declaration":
			res.Imports = append(res.Imports, rustUseDeclaration(child, src)...)
		case "function_item":
			if sym := rustFunction(child, src, ""); sym != nil {
				res.Symbols = append(res.Symbols, *sym)
				if rustIsPub(child) {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
				}
			}
		case "struct_item", "enum_item", "trait_item":
			kind := map[string]string{"struct_item": "struct", "enum_item": "enum", "trait_item": "trait"}[child.Type()]
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			startLine, startCol, endLine, endCol := span(child)
			res.Symbols = append(res.Symbols, contract.ParsedSymbol{
				Kind: kind, Name: text(nameNode, src),
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
			if rustIsPub(child) {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
		case "const_item", "static_item":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			startLine, startCol, endLine, endCol := span(child)
			res.Symbols = append(res.Symbols, contract.ParsedSymbol{
				Kind: "constant", Name: text(nameNode, src),
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
			if rustIsPub(child) {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
		case "impl_item":
			typeName := rustBaseTypeName(child.ChildByFieldName("type"), src)
			if typeName == "" {
				continue
			}
			if traitNode := child.ChildByFieldName("trait"); traitNode != nil {
				traitName := rustBaseTypeName(traitNode, src)
				if traitName != "" {
					implementsByType[typeName] = append(implementsByType[typeName], traitName)
				}
			}
			body := child.ChildByFieldName("body")
			for _, member := range children(body) {
				if member.Type() != "function_item" {
					continue
				}
				if sym := rustFunction(member, src, typeName); sym != nil {
					res.Symbols = append(res.Symbols, *sym)
					if rustIsPub(member) {
						res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
					}
				}
			}
		}
	}

	for i := range res.Symbols {
		if impls, ok := implementsByType[res.Symbols[i].Name]; ok {
			res.Symbols[i].Implements = impls
		}
	}
	return res, nil
}

func rustIsPub(n *sitter.Node) bool {
	for _, c := range children(n) {
		if c.Type() == "visibility_modifier" {
			return true
		}
	}
	return false
}

func rustFunction(n *sitter.Node, src []byte, owner string) *contract.ParsedSymbol {
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
	b.WriteString("fn ")
	b.WriteString(text(nameNode, src))
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.WriteString(text(params, src))
	}
	return &contract.ParsedSymbol{
		Kind: kind, Name: name, Signature: firstLine(b.String(), 200),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

// rustBaseTypeName strips generic parameters and reference/path prefixes
// from a type node, returning its base identifier.
func rustBaseTypeName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "generic_type":
		return rustBaseTypeName(n.ChildByFieldName("type"), src)
	case "reference_type":
		return rustBaseTypeName(n.NamedChild(0), src)
	case "scoped_type_identifier":
		if name := n.ChildByFieldName("name"); name != nil {
			return text(name, src)
		}
	}
	return text(n, src)
}

func rustUseDeclaration(n *sitter.Node, src []byte) []contract.ParsedImport {
	var out []contract.ParsedImport
	var walkTree func(node *sitter.Node, prefix string)
	walkTree = func(node *sitter.Node, prefix string) {
		switch node.Type() {
		case "use_wildcard":
			base := rustUsePathPrefix(node, src)
			out = append(out, contract.ParsedImport{Source: joinRustPath(prefix, base), IsNamespace: true})
		case "use_as_clause":
			pathNode := node.ChildByFieldName("path")
			aliasNode := node.ChildByFieldName("alias")
			source := joinRustPath(prefix, text(pathNode, src))
			out = append(out, contract.ParsedImport{Source: source, Names: []string{text(aliasNode, src)}})
		case "scoped_use_list":
			pathNode := node.ChildByFieldName("path")
			listNode := node.ChildByFieldName("list")
			newPrefix := joinRustPath(prefix, text(pathNode, src))
			for _, item := range children(listNode) {
				if item.IsNamed() {
					walkTree(item, newPrefix)
				}
			}
		case "use_list":
			for _, item := range children(node) {
				if item.IsNamed() {
					walkTree(item, prefix)
				}
			}
		case "scoped_identifier", "identifier":
			source := joinRustPath(prefix, text(node, src))
			out = append(out, contract.ParsedImport{Source: source, Names: []string{rustLastSegment(text(node, src))}})
		}
	}

	for _, c := range children(n) {
		if c.IsNamed() && c.Type() != "visibility_modifier" {
			walkTree(c, "")
		}
	}
	return out
}

func rustUsePathPrefix(n *sitter.Node, src []byte) string {
	if prev := n.PrevSibling(); prev != nil {
		return text(prev, src)
	}
	return ""
}

func joinRustPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	if segment == "" {
		return prefix
	}
	return prefix + "::" + segment
}

func rustLastSegment(path string) string {
	parts := strings.Split(path, "::")
	return parts[len(parts)-1]
}
