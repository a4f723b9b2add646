package retrieval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/indexer"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

func TestGet_EndToEndPipelineProducesBundle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.ts"),
		[]byte("export function computeTotal(items) { return items.length }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.ts"),
		[]byte("import { computeTotal } from './lib'\n\nfunction run() { return computeTotal([]) }\n"), 0o644))

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })

	summary, err := indexer.New(s).Run(root, types.ModeFull, 0)
	require.NoError(t, err)
	require.Equal(t, 2, summary.FilesIndexed)

	bundle, err := New(s).Get(root, summary.RepoID, "fix computeTotal for empty lists", 0, nil)
	require.NoError(t, err)
	require.NotEmpty(t, bundle.Focus)
	require.NotEmpty(t, bundle.Snippets)
	require.Equal(t, DefaultBudget, bundle.Limits.Budget)
	require.Equal(t, "fix computeTotal for empty lists", bundle.Intent)
}

func TestIntentFrom_TruncatesLongTask(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "word "
	}
	intent := intentFrom(long)
	require.True(t, len(intent) <= 103)
	require.Contains(t, intent, "...")
}
