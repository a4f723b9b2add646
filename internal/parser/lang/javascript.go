package lang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/cindexdev/cindex/internal/parser/contract"
)

type javascriptAdapter struct{ p *sitter.Parser }

// NewJavaScript returns the JavaScript adapter: ESM (shared shape with
// TypeScript) plus CommonJS require()/module.exports detection, with ESM
// taking priority over CommonJS on duplicate export names.
func NewJavaScript() contract.Adapter {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &javascriptAdapter{p: p}
}

func (a *javascriptAdapter) Parse(src []byte) (contract.Result, error) {
	tree, err := a.p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return contract.Result{}, err
	}
	defer tree.Close()

	var res contract.Result
	esmExportNames := map[string]bool{}
	jsWalkTop(tree.RootNode(), src, &res, false, false, esmExportNames)
	jsWalkCommonJS(tree.RootNode(), src, &res, esmExportNames)
	return res, nil
}

func jsWalkTop(node *sitter.Node, src []byte, res *contract.Result, exported, isDefault bool, esmNames map[string]bool) {
	for _, child := range children(node) {
		switch child.Type() {
		case "import_statement":
			res.Imports = append(res.Imports, tsParseImport(child, src)...)
		case "export_statement":
			jsParseExport(child, src, res, esmNames)
		case "function_declaration":
			if sym := tsFunction(child, src); sym != nil {
				if exported {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: sym.Name, IsDefault: isDefault})
					esmNames[sym.Name] = true
				}
				res.Symbols = append(res.Symbols, *sym)
			}
		case "class_declaration":
			syms := tsClass(child, src)
			res.Symbols = append(res.Symbols, syms...)
			if exported && len(syms) > 0 {
				res.Exports = append(res.Exports, contract.ParsedExport{Name: syms[0].Name, IsDefault: isDefault})
				esmNames[syms[0].Name] = true
			}
		case "lexical_declaration", "variable_declaration":
			before := len(res.Symbols)
			tsVariables(child, src, res)
			if exported {
				for i := before; i < len(res.Symbols); i++ {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: res.Symbols[i].Name, IsDefault: isDefault})
					esmNames[res.Symbols[i].Name] = true
				}
			}
		}
	}
}

func jsParseExport(n *sitter.Node, src []byte, res *contract.Result, esmNames map[string]bool) {
	raw := text(n, src)
	switch {
	case strings.Contains(raw, "export *"):
		sourceNode := n.ChildByFieldName("source")
		res.Exports = append(res.Exports, contract.ParsedExport{IsReExport: true, Source: stripQuotes(text(sourceNode, src))})
		return
	case firstChildOfType(n, "export_clause") != nil:
		sourceNode := n.ChildByFieldName("source")
		isReExport := sourceNode != nil
		for _, spec := range children(firstChildOfType(n, "export_clause")) {
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
			esmNames[text(name, src)] = true
		}
		return
	}
	isDefault := strings.HasPrefix(strings.TrimSpace(raw), "export default")
	jsWalkTop(n, src, res, true, isDefault, esmNames)
}

// jsWalkCommonJS scans the whole tree for require() calls and
// module.exports/exports.X assignment patterns, skipping any export name
// already produced by an ESM statement — ESM wins on duplicates.
func jsWalkCommonJS(root *sitter.Node, src []byte, res *contract.Result, esmNames map[string]bool) {
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "variable_declarator":
			value := n.ChildByFieldName("value")
			if value == nil || !isRequireCall(value, src) {
				return true
			}
			source := requireSource(value, src)
			if source == "" {
				return true
			}
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			imp := contract.ParsedImport{Source: source}
			if nameNode.Type() == "object_pattern" {
				for _, prop := range children(nameNode) {
					switch prop.Type() {
					case "shorthand_property_identifier_pattern":
						imp.Names = append(imp.Names, text(prop, src))
					case "pair_pattern":
						if v := prop.ChildByFieldName("value"); v != nil {
							imp.Names = append(imp.Names, text(v, src))
						}
					}
				}
			} else {
				imp.IsDefault = true
				imp.Names = append(imp.Names, text(nameNode, src))
			}
			res.Imports = append(res.Imports, imp)

		case "assignment_expression":
			left := n.ChildByFieldName("left")
			if left == nil {
				return true
			}
			leftText := text(left, src)
			switch {
			case leftText == "module.exports":
				// module.exports = {...}: each key becomes an export. Any
				// other right-hand side (module.exports = SomeIdentifier)
				// adds no export.
				right := n.ChildByFieldName("right")
				if right != nil && right.Type() == "object" {
					for _, pair := range children(right) {
						if pair.Type() != "pair" && pair.Type() != "shorthand_property_identifier" {
							continue
						}
						key := pair.ChildByFieldName("key")
						name := text(key, src)
						if name == "" {
							name = text(pair, src)
						}
						if name != "" && !esmNames[name] {
							res.Exports = append(res.Exports, contract.ParsedExport{Name: name})
						}
					}
				}
			case strings.HasPrefix(leftText, "module.exports.") || strings.HasPrefix(leftText, "exports."):
				name := left.ChildByFieldName("property")
				if name != nil && !esmNames[text(name, src)] {
					res.Exports = append(res.Exports, contract.ParsedExport{Name: text(name, src)})
				}
			}

		case "call_expression":
			if fn := n.ChildByFieldName("function"); fn != nil && text(fn, src) == "require" {
				// Bare `require('x')` with no binding still counts as an
				// import edge source for the resolver.
				if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
					if n.Parent() != nil && n.Parent().Type() == "expression_statement" {
						source := stripQuotes(text(args.NamedChild(0), src))
						if source != "" {
							res.Imports = append(res.Imports, contract.ParsedImport{Source: source})
						}
					}
				}
			}
		}
		return true
	})
}

func isRequireCall(n *sitter.Node, src []byte) bool {
	if n.Type() != "call_expression" {
		return false
	}
	fn := n.ChildByFieldName("function")
	return fn != nil && text(fn, src) == "require"
}

func requireSource(n *sitter.Node, src []byte) string {
	args := n.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}
	return stripQuotes(text(args.NamedChild(0), src))
}
