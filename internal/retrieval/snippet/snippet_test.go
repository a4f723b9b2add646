package snippet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/retrieval/rank"
	"github.com/cindexdev/cindex/internal/types"
)

func writeLines(t *testing.T, root, rel string, n int) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
}

func TestExtract_SmallFileIncludedWhole(t *testing.T) {
	root := t.TempDir()
	writeLines(t, root, "a.ts", 10)

	snippets, used := Extract(root, []rank.RankedFile{{Path: "a.ts"}}, 8000)
	require.Len(t, snippets, 1)
	assert.Equal(t, 1, snippets[0].Start)
	assert.Equal(t, 10, snippets[0].End)
	assert.Greater(t, used, 0)
}

func TestExtract_LargeFileUsesMergedSymbolRanges(t *testing.T) {
	root := t.TempDir()
	writeLines(t, root, "big.ts", 200)

	symbols := []*types.Symbol{
		{StartLine: 10, EndLine: 12},
		{StartLine: 14, EndLine: 16}, // within 1 line of the first's padded end -> merges
		{StartLine: 100, EndLine: 105},
	}
	snippets, _ := Extract(root, []rank.RankedFile{{Path: "big.ts", Symbols: symbols}}, 8000)
	require.Len(t, snippets, 2)
	assert.Equal(t, 7, snippets[0].Start)
	assert.Equal(t, 19, snippets[0].End)
	assert.Equal(t, 97, snippets[1].Start)
	assert.Equal(t, 108, snippets[1].End)
}

func TestExtract_StopsOnBudgetButAlwaysEmitsFirst(t *testing.T) {
	root := t.TempDir()
	writeLines(t, root, "a.ts", 10)
	writeLines(t, root, "b.ts", 10)

	snippets, used := Extract(root, []rank.RankedFile{{Path: "a.ts"}, {Path: "b.ts"}}, 1)
	require.Len(t, snippets, 1)
	assert.Equal(t, "a.ts", snippets[0].Path)
	assert.Greater(t, used, 0)
}
