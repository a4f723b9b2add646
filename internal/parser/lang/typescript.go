package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type typescriptAdapter struct{ p *sitter.Parser }

// NewTypeScript returns the TypeScript/TSX adapter.
func NewTypeScript() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(ts.GetLanguage())
	return &typescriptAdapter{p: p}
}

func (a *typescriptAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	walkTSTop(tree.RootNode(), src, &res, false, false)
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Type() == "call_expression" {
			if fn := n.ChildByFieldName("function"); fn != nil && text(fn, src) == "import" {
				if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
					source := stripQuotes(text(args.NamedChild(0), src))
					if source != "" {
						res.Imports = append(res.Imports, contract.ParsedImport{Source: source, IsDynamic: true})
					}
				}
			}
		}
		return true
	})
	return res, nil
}

func walkTSTop(node *sitter.Node, src []byte, res *contract.Result, exported, isDefault bool) {
	for _, child := range children(node) {
		switch child.Type() {
		case "import_statement":
			res.Imports = append(res.Imports, tsParseImport(child, src)...)
		case "export_statement":
			tsParseExport(child, src, res)
		case "function_declaration":
			if sym := tsFunction(child, src); sym != nil {
				if exported {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name, IsDefault: isDefault})
				}
				res.Symbols = append(res.Symbols, *sym)
			}
		case "class_declaration":
			syms := tsClass(child, src)
			res.Symbols = append(res.Symbols, syms...)
			if exported && len(syms) > 0 {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: syms[0].Name, IsDefault: isDefault})
			}
		case "interface_declaration":
			if sym := tsInterface(child, src); sym != nil {
				if exported {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name, IsDefault: isDefault})
				}
				res.Symbols = append(res.Symbols, *sym)
			}
		case "type_alias_declaration":
			if sym := tsSimple(child, src, "type"); sym != nil {
				if exported {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name, IsDefault: isDefault})
				}
				res.Symbols = append(res.Symbols, *sym)
			}
		case "enum_declaration":
			if sym := tsSimple(child, src, "enum"); sym != nil {
				if exported {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name, IsDefault: isDefault})
				}
				res.Symbols = append(res.Symbols, *sym)
			}
		case "lexical_declaration", "variable_declaration":
			before := len(res.Symbols)
			tsVariables(child, src, res)
			if exported {
				for i := before; i < len(res.Symbols); i++ {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: res.Symbols[i].Name, IsDefault: isDefault})
				}
			}
		}
	}
}

func tsParseImport(n *sitter.Node, src []byte) []contract.ParsedImport {
	raw := text(n, src)
	isTypeOnly := strings.HasPrefix(strings.TrimSpace(raw), "import type")

	sourceNode := n.ChildByFieldName("source")
	source := stripQuotes(text(sourceNode, src))
	if source == "" {
		return nil
	}
	imp := contract.ParsedImport{Source: source, IsTypeOnly: isTypeOnly}

	clause := firstChildOfType(n, "import_clause")
	if clause == nil {
		// Side-effect-only import: `import "x"`.
		return []contract.ParsedImport{imp}
	}
	for _, c := range children(clause) {
		switch c.Type() {
		case "identifier":
			imp.IsDefault = true
			imp.Names = append(imp.Names, text(c, src))
		case "namespace_import":
			imp.IsNamespace = true
			if id := lastNamedChild(c); id != nil {
				imp.Names = append(imp.Names, text(id, src))
			}
		case "named_imports":
			for _, spec := range children(c) {
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("alias")
				if name == nil {
					name = spec.ChildByFieldName("name")
				}
				imp.Names = append(imp.Names, text(name, src))
			}
		}
	}
	return []contract.ParsedImport{imp}
}

func tsParseExport(n *sitter.Node, src []byte, res *contract.Result) {
	raw := text(n, src)
	switch {
	case strings.Contains(raw, "export *"):
		sourceNode := n.ChildByFieldName("source")
		alias := firstChildOfType(n, "namespace_export")
		exp := contract.ParsedExport{IsReExport: true, Source: stripQuotes(text(sourceNode, src))}
		if alias != nil {
			if id := lastNamedChild(alias); id != nil {
				exp.Name = text(id, src)
			}
		}
		res.Exports = append(res.Exports, exp)
		return
	case firstChildOfType(n, "export_clause") != nil:
		sourceNode := n.ChildByFieldName("source")
		isReExport := sourceNode != nil
		clause := firstChildOfType(n, "export_clause")
		for _, spec := range children(clause) {
			if spec.Type() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("alias")
			if name == nil {
				name = spec.ChildByFieldName("name")
			}
			res.Exports = append(res.Exports, contract.ParsedExport{
				Name: text(name, src), IsReExport: isReExport, Source: stripQuotes(text(sourceNode, src)),
			})
		}
		return
	}

	isDefault := strings.HasPrefix(strings.TrimSpace(raw), "export default")
	walkTSTop(n, src, res, true, isDefault)
}

func tsFunction(n *sitter.Node, src []byte) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	startLine, startCol, endLine, endCol := span(n)
	return &contract.ParsedSymbol{
		Kind: "function", Name: text(nameNode, src),
		Signature: tsSignature(n, src),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

func tsSignature(n *sitter.Node, src []byte) string {
	var b strings.Builder
	if name := n.ChildByFieldName("name"); name != nil {
		b.WriteString(text(name, src))
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.WriteString(text(params, src))
	}
	return firstLine(b.String(), 200)
}

func tsClass(n *sitter.Node, src []byte) []contract.ParsedSymbol {
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

	if heritage := firstChildOfType(n, "class_heritage"); heritage != nil {
		for _, clause := range children(heritage) {
			switch clause.Type() {
			case "extends_clause":
				if val := clause.NamedChild(0); val != nil {
					cls.Extends = text(val, src)
				}
			case "implements_clause":
				for _, t := range children(clause) {
					if t.IsNamed() && t.Type() != "implements_clause" {
						cls.Implements = append(cls.Implements, text(t, src))
					}
				}
			}
		}
	}

	out := []contract.ParsedSymbol{cls}
	body := n.ChildByFieldName("body")
	for _, member := range children(body) {
		switch member.Type() {
		case "method_definition":
			nameN := member.ChildByFieldName("name")
			if nameN == nil {
				continue
			}
			mStart, mStartCol, mEnd, mEndCol := span(member)
			out = append(out, contract.ParsedSymbol{
				Kind: "method", Name: className + "." + text(nameN, src),
				Signature: tsSignature(member, src),
				StartLine: mStart, StartCol: mStartCol, EndLine: mEnd, EndCol: mEndCol,
			})
		case "public_field_definition":
			nameN := member.ChildByFieldName("name")
			if nameN == nil {
				continue
			}
			mStart, mStartCol, mEnd, mEndCol := span(member)
			out = append(out, contract.ParsedSymbol{
				Kind: "property", Name: className + "." + text(nameN, src),
				StartLine: mStart, StartCol: mStartCol, EndLine: mEnd, EndCol: mEndCol,
			})
		}
	}
	return out
}

func tsInterface(n *sitter.Node, src []byte) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	startLine, startCol, endLine, endCol := span(n)
	sym := &contract.ParsedSymbol{
		Kind: "interface", Name: text(nameNode, src),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
	if heritage := firstChildOfType(n, "extends_type_clause"); heritage != nil {
		if t := heritage.NamedChild(0); t != nil {
			sym.Extends = text(t, src)
		}
	}
	return sym
}

func tsSimple(n *sitter.Node, src []byte, kind string) *contract.ParsedSymbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	startLine, startCol, endLine, endCol := span(n)
	return &contract.ParsedSymbol{
		Kind: kind, Name: text(nameNode, src),
		StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}
}

func tsVariables(n *sitter.Node, src []byte, res *contract.Result) {
	isConst := strings.HasPrefix(strings.TrimSpace(text(n, src)), "const")
	for _, d := range children(n) {
		if d.Type() != "variable_declarator" {
			continue
		}
		nameNode := d.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		kind := "variable"
		if isConst {
			kind = "constant"
		}
		if value := d.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function", "function_expression":
				kind = "function"
			case "class":
				kind = "class"
			}
		}
		startLine, startCol, endLine, endCol := span(d)
		res.Symbols = append(res.Symbols, contract.ParsedSymbol{
			Kind: kind, Name: text(nameNode, src),
			StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
		})
	}
}

func firstChildOfType(n *sitter.Node, t string) *sitter.Node {
	for _, c := range children(n) {
		if c.Type() == t {
			return c
		}
	}
	return nil
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	if n == nil || n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(int(n.NamedChildCount()) - 1)
}
