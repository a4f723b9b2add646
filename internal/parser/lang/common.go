// Package lang holds one tree-sitter-backed adapter per supported
// language, each implementing parser.Adapter.
package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// text returns a node's source slice as a string, or "" for a nil node.
func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// span returns a node's 1-based, inclusive start/end line and column.
// EndPoint() is exclusive (one past the last byte), so its 0-based column
// is already the inclusive 1-based one.
func span(n *sitter.Node) (startLine, startCol, endLine, endCol int) {
	sp := n.StartPoint()
	ep := n.EndPoint()
	return int(sp.Row) + 1, int(sp.Column) + 1, int(ep.Row) + 1, int(ep.Column)
}

// firstLine returns the first line of s, truncated to at most max runes,
// used to build best-effort, display-only signatures.
func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > max {
		s = string(r[:max])
	}
	return s
}

// stripQuotes removes a single matching pair of leading/trailing quote
// characters (' " `), used to recover a bare import specifier.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// children returns every direct child of n.
func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// walk calls visit for n and every descendant, depth-first pre-order.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range children(n) {
		walk(c, visit)
	}
}
