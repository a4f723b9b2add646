// Package candidate implements the discovery stage of the retrieval
// pipeline: it scores a first round of file candidates from a task
// description and optional hints.
package candidate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cindexdev/cindex/internal/search"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// Candidate is one scored file, optionally naming the symbol that earned
// the score.
type Candidate struct {
	Type   types.NodeKind
	ID     int64
	FileID int64
	Path   string
	Score  float64
	Reason string
}

var (
	pathInTaskRe = regexp.MustCompile(`[\w./-]+/[\w./-]*\.(?:ts|js|tsx|jsx)\b`)
	camelCaseRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)+\b`)
)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "into": true, "where": true, "when": true,
	"function": true, "class": true, "type": true, "return": true,
	"async": true, "await": true, "null": true, "undefined": true,
	"const": true, "public": true, "private": true, "should": true,
}

// Discover runs every strategy in fixed order and returns candidates
// sorted by score descending, deduplicated by FileID (highest score wins,
// reasons concatenated on a tie).
func Discover(s *store.Store, repoID int64, taskText string, hints *types.SearchHints) ([]Candidate, error) {
	var out []Candidate

	if hints != nil {
		for _, p := range hints.Paths {
			if f, err := s.FindFileByPath(repoID, p); err != nil {
				return nil, err
			} else if f != nil {
				out = append(out, Candidate{Type: types.NodeFile, ID: f.ID, FileID: f.ID, Path: f.Path, Score: 10, Reason: `hint:path "` + p + `"`})
			}
		}
		for _, name := range hints.Symbols {
			syms, err := s.FindSymbolsByName(repoID, name)
			if err != nil {
				return nil, err
			}
			for _, sym := range syms {
				if f, err := s.FindFileByID(sym.FileID); err == nil && f != nil {
					out = append(out, Candidate{Type: types.NodeSymbol, ID: sym.ID, FileID: f.ID, Path: f.Path, Score: 10, Reason: `hint:symbol "` + name + `"`})
				}
			}
		}
	}

	for _, match := range pathInTaskRe.FindAllString(taskText, -1) {
		tryPaths := []string{match}
		if stripped := strings.TrimPrefix(match, "./"); stripped != match {
			tryPaths = append(tryPaths, stripped)
		}
		for _, p := range tryPaths {
			f, err := s.FindFileByPath(repoID, p)
			if err != nil {
				return nil, err
			}
			if f != nil {
				out = append(out, Candidate{Type: types.NodeFile, ID: f.ID, FileID: f.ID, Path: f.Path, Score: 8, Reason: "path-in-task"})
				break
			}
		}
	}

	seenCamel := make(map[string]bool)
	for _, tok := range camelCaseRe.FindAllString(taskText, -1) {
		if seenCamel[tok] {
			continue
		}
		seenCamel[tok] = true
		syms, err := s.FindSymbolsByName(repoID, tok)
		if err != nil {
			return nil, err
		}
		for _, sym := range syms {
			if f, err := s.FindFileByID(sym.FileID); err == nil && f != nil {
				out = append(out, Candidate{Type: types.NodeSymbol, ID: sym.ID, FileID: f.ID, Path: f.Path, Score: 6, Reason: "camelcase-match"})
			}
		}
	}

	ftsQuery := search.Sanitize(strings.Join(ftsWords(taskText), " "))
	if ftsQuery != "" {
		hits, err := s.Search(repoID, ftsQuery, 20)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			score := clamp(3+h.Rank, 1, 5)
			switch h.EntityType {
			case types.NodeFile:
				if f, err := s.FindFileByID(h.EntityID); err == nil && f != nil {
					out = append(out, Candidate{Type: types.NodeFile, ID: f.ID, FileID: f.ID, Path: f.Path, Score: score, Reason: "fts-match"})
				}
			case types.NodeSymbol:
				if sym, err := s.FindSymbolByID(h.EntityID); err == nil && sym != nil {
					if f, err := s.FindFileByID(sym.FileID); err == nil && f != nil {
						out = append(out, Candidate{Type: types.NodeSymbol, ID: sym.ID, FileID: f.ID, Path: f.Path, Score: score, Reason: "fts-match"})
					}
				}
			}
		}
	}

	return dedupeByFile(out), nil
}

// ftsWords extracts lowercase words longer than 3 characters that aren't
// stop words, deduplicated, preserving first-seen order.
func ftsWords(taskText string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range strings.FieldsFunc(taskText, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		w := strings.ToLower(raw)
		if len(w) <= 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dedupeByFile keeps the highest-scoring candidate per FileID, sorted
// descending by score; on a tie, reasons from all duplicates are
// concatenated onto the kept candidate.
func dedupeByFile(in []Candidate) []Candidate {
	best := make(map[int64]*Candidate)
	order := make([]int64, 0, len(in))
	for i := range in {
		c := in[i]
		existing, ok := best[c.FileID]
		if !ok {
			cc := c
			best[c.FileID] = &cc
			order = append(order, c.FileID)
			continue
		}
		if c.Score > existing.Score {
			cc := c
			best[c.FileID] = &cc
		} else if c.Score == existing.Score {
			existing.Reason = mergeReasons(existing.Reason, c.Reason)
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, fid := range order {
		out = append(out, *best[fid])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func mergeReasons(primary, other string) string {
	if other == "" || strings.Contains(primary, other) {
		return primary
	}
	return primary + "; " + other
}
