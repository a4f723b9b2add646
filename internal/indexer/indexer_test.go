package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func writeSource(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestRun_Full_IndexesFilesSymbolsAndImports(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeSource(t, root, "lib.ts", "export function helper() { return 1 }\n")
	writeSource(t, root, "main.ts", "import { helper } from './lib'\n\nfunction run() { return helper() }\n")

	summary, err := New(s).Run(root, types.ModeFull, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesIndexed)
	assert.Equal(t, 0, summary.FilesDeleted)
	assert.True(t, summary.SymbolCount >= 2)
	assert.Empty(t, summary.Warnings)

	repo, err := s.FindRepoByPath(root)
	require.NoError(t, err)
	require.NotNil(t, repo)

	edges, err := s.ListEdgesByRels(repo.ID, []types.EdgeRel{types.RelImports})
	require.NoError(t, err)
	require.Len(t, edges, 1)

	mainFile, err := s.FindFileByPath(repo.ID, "main.ts")
	require.NoError(t, err)
	libFile, err := s.FindFileByPath(repo.ID, "lib.ts")
	require.NoError(t, err)
	assert.Equal(t, mainFile.ID, edges[0].SrcID)
	assert.Equal(t, libFile.ID, edges[0].DstID)
}

func TestRun_Incremental_RequiresPriorFullRun(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1\n")

	_, err := New(s).Run(root, types.ModeIncremental, 0)
	assert.ErrorIs(t, err, ErrNotIndexed)
}

func TestRun_Incremental_DetectsNewChangedAndDeleted(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1\n")
	writeSource(t, root, "b.ts", "export const y = 2\n")

	ix := New(s)
	_, err := ix.Run(root, types.ModeFull, 0)
	require.NoError(t, err)

	// Change a.ts, delete b.ts, add c.ts.
	writeSource(t, root, "a.ts", "export const x = 99\n")
	require.NoError(t, os.Remove(filepath.Join(root, "b.ts")))
	writeSource(t, root, "c.ts", "export const z = 3\n")

	summary, err := ix.Run(root, types.ModeIncremental, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesIndexed) // a.ts (changed) + c.ts (new)
	assert.Equal(t, 1, summary.FilesDeleted) // b.ts

	repo, err := s.FindRepoByPath(root)
	require.NoError(t, err)
	files, err := s.ListFiles(repo.ID)
	require.NoError(t, err)
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"a.ts", "c.ts"}, paths)
}

func TestRun_Full_IndexesReadableFileWithoutWarnings(t *testing.T) {
	s := newTestStore(t)
	root := t.TempDir()
	writeSource(t, root, "a.ts", "export const x = 1\n")

	summary, err := New(s).Run(root, types.ModeFull, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesIndexed)
	assert.Empty(t, summary.Warnings)
}
