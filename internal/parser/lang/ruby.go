package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type rubyAdapter struct{ p *sitter.Parser }

// NewRuby returns the Ruby adapter. Top-level class/module/method names
// are exports; attr_accessor/_reader/_writer calls contribute property
// symbols on the enclosing class.
func NewRuby() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(ruby.GetLanguage())
	return &rubyAdapter{p: p}
}

func (a *rubyAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	rubyWalkTop(tree.RootNode(), src, &res)
	return res, nil
}

func rubyWalkTop(n *sitter.Node, src []byte, res *contract.Result) {
	for _, child := range children(n) {
		switch child.Type() {
		case "call":
			rubyCall(child, src, res, "")
		case "class":
			res.Symbols = append(res.Symbols, rubyClass(child, src)...)
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
		case "module":
			nameNode := child.ChildByFieldName("name")
			if nameNode != nil {
				startLine, startCol, endLine, endCol := span(child)
				res.Symbols = append(res.Symbols, contract.ParsedSymbol{
					Kind: "module", Name: text(nameNode, src),
					StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
				})
				res.Exports = append(res.Exports, contract.ParsedExport{Name: text(nameNode, src)})
			}
			rubyWalkTop(child, src, res)
		case "method":
			if sym := rubyMethod(child, src, ""); sym != nil {
				res.Symbols = append(res.Symbols, *sym)
				res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name})
			}
		}
	}
}

func rubyCall(n *sitter.Node, src []byte, res *contract.Result, owner string) {
	methodNode := n.ChildByFieldName("method")
	if methodNode == nil {
		return
	}
	method := text(methodNode, src)
	args := n.ChildByFieldName("arguments")

	switch method {
	case "require", "require_relative", "load":
		if args == nil || args.NamedChildCount() == 0 {
			return
		}
		source := stripQuotes(text(args.NamedChild(0), src))
		if source == "" {
			return
		}
		if method == "require_relative" && !strings.HasPrefix(source, "./") && !strings.HasPrefix(source, "../") {
			source = "./" + source
		}
		res.Imports = append(res.Imports, contract.ParsedImport{Source: source, IsDynamic: method == "load"})
	case "attr_accessor", "attr_reader", "attr_writer":
		if args == nil || owner == "" {
			return
		}
		for _, a := range children(args) {
			if a.Type() != "simple_symbol" {
				continue
			}
			name := strings.TrimPrefix(text(a, src), ":")
			startLine, startCol, endLine, endCol := span(n)
			res.Symbols = append(res.Symbols, contract.ParsedSymbol{
				Kind: "property", Name: owner + "." + name,
				StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
			})
		}
	}
}

func rubyClass(n *sitter.Node, src []byte) []contract.ParsedSymbol {
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
	if superclass := n.ChildByFieldName("superclass"); superclass != nil {
		if t := superclass.NamedChild(0); t != nil {
			cls.Extends = text(t, src)
		}
	}

	out := []contract.ParsedSymbol{cls}
	for _, member := range children(n) {
		switch member.Type() {
		case "method":
			if sym := rubyMethod(member, src, className); sym != nil {
				out = append(out, *sym)
			}
		case "call":
			var tmp contract.Result
			rubyCall(member, src, &tmp, className)
			out = append(out, tmp.Symbols...)
		}
	}
	return out
}

func rubyMethod(n *sitter.Node, src []byte, owner string) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := text(nameNode, src)
	kind := "method"
	if owner != "" {
		name = owner + "." + name
	} else {
		kind = "method"
	}
	startLine, startCol, endLine, endCol := span(n)
	var b strings.Builder
	b.WriteString("def ")
	b.WriteString(text(nameNode, src))
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.WriteString(text(params, src))
	}
	return &contract.ParsedSymbol{
		Kind: kind, Name: name, Signature: firstLine(b.String(), 200),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}
