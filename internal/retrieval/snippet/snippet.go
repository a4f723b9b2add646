// Package snippet extracts budget-accounted source excerpts from ranked
// files, merging a file's attached symbol ranges where they overlap or
// sit adjacent.
package snippet

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cindexdev/cindex/internal/retrieval/rank"
	"github.com/cindexdev/cindex/internal/types"
)

// wholeFileLineThreshold is the cutoff below which a file is always
// emitted whole rather than split into per-symbol ranges.
const wholeFileLineThreshold = 60

type lineRange struct{ start, end int }

// Extract walks ranked in order, reading each file from repoRoot, and
// emits snippets until budgetTokens is exhausted. Stopping is global: once
// a snippet would exceed the budget and at least one snippet has already
// been emitted, no further snippets or files are considered.
func Extract(repoRoot string, ranked []rank.RankedFile, budgetTokens int) ([]types.Snippet, int) {
	var out []types.Snippet
	used := 0
	stopped := false

	for _, rf := range ranked {
		if stopped {
			break
		}
		absPath := filepath.Join(repoRoot, filepath.FromSlash(rf.Path))
		content, err := os.ReadFile(absPath)
		if err != nil {
			continue
		}
		lines := strings.Split(string(content), "\n")
		total := len(lines)

		var ranges []lineRange
		if total <= wholeFileLineThreshold || len(rf.Symbols) == 0 {
			ranges = []lineRange{{1, total}}
		} else {
			ranges = mergedSymbolRanges(rf.Symbols, total)
		}

		for _, r := range ranges {
			text := strings.Join(lines[r.start-1:r.end], "\n")
			tokens := tokenEstimate(text)
			if used+tokens > budgetTokens && len(out) > 0 {
				stopped = true
				break
			}
			sum := sha256.Sum256([]byte(text))
			out = append(out, types.Snippet{
				Path: rf.Path, Start: r.start, End: r.end,
				SHA256: hex.EncodeToString(sum[:]), Text: text,
			})
			used += tokens
		}
	}

	return out, used
}

// tokenEstimate is the ceil(chars/4) approximation.
func tokenEstimate(s string) int {
	return (len(s) + 3) / 4
}

// mergedSymbolRanges forms [max(1,start-3), min(total,end+3)] for every
// symbol, sorts by start, and merges ranges that overlap or sit within one
// line of each other.
func mergedSymbolRanges(symbols []*types.Symbol, total int) []lineRange {
	ranges := make([]lineRange, 0, len(symbols))
	for _, sym := range symbols {
		start := sym.StartLine - 3
		if start < 1 {
			start = 1
		}
		end := sym.EndLine + 3
		if end > total {
			end = total
		}
		ranges = append(ranges, lineRange{start, end})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	var merged []lineRange
	for _, r := range ranges {
		if len(merged) > 0 && r.start <= merged[len(merged)-1].end+1 {
			last := &merged[len(merged)-1]
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
