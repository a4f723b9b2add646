// Package rank merges candidate-discovery and graph-expansion scores into
// one ordered file ranking, attaching each file's symbols.
package rank

import (
	"regexp"
	"sort"

	"github.com/cindexdev/cindex/internal/retrieval/candidate"
	"github.com/cindexdev/cindex/internal/retrieval/expand"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// entryPointBonus is added to files that look like application entry
// points.
const entryPointBonus = 3

var entryPointRe = regexp.MustCompile(`/routes/|/controllers/|/pages/|/app\.[^/]+$|/main\.[^/]+$|/index\.(ts|tsx|js|jsx)$`)

// RankedFile is one file in the final ranking, with every one of its
// symbols attached.
type RankedFile struct {
	FileID  int64
	Path    string
	Score   float64
	Reasons []string
	Symbols []*types.Symbol
}

// Rank merges cands and the expansion result by file ID (summing scores,
// unioning reasons), adds the entry-point bonus, attaches symbols, and
// returns the files sorted by score descending.
func Rank(s *store.Store, cands []candidate.Candidate, exp *expand.Result) ([]RankedFile, error) {
	type acc struct {
		path    string
		score   float64
		reasons []string
		seen    map[string]bool
	}
	merged := make(map[int64]*acc)
	order := make([]int64, 0)

	add := func(fileID int64, path string, score float64, reason string) {
		a, ok := merged[fileID]
		if !ok {
			a = &acc{path: path, seen: make(map[string]bool)}
			merged[fileID] = a
			order = append(order, fileID)
		}
		a.score += score
		if reason != "" && !a.seen[reason] {
			a.seen[reason] = true
			a.reasons = append(a.reasons, reason)
		}
	}

	for _, c := range cands {
		add(c.FileID, c.Path, c.Score, c.Reason)
	}

	if exp != nil {
		for fileID, score := range exp.FileScores {
			if _, ok := merged[fileID]; !ok {
				f, err := s.FindFileByID(fileID)
				if err != nil {
					return nil, err
				}
				if f == nil {
					continue
				}
				add(fileID, f.Path, 0, "")
			}
			merged[fileID].score += score
		}
	}

	out := make([]RankedFile, 0, len(order))
	for _, fileID := range order {
		a := merged[fileID]
		score := a.score
		if entryPointRe.MatchString(a.path) {
			score += entryPointBonus
		}
		symbols, err := s.ListSymbolsByFile(fileID)
		if err != nil {
			return nil, err
		}
		out = append(out, RankedFile{FileID: fileID, Path: a.path, Score: score, Reasons: a.reasons, Symbols: symbols})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
