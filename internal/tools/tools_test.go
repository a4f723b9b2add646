package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/cerrors"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// suggestion extracts the Suggestion field from a *cerrors.Error, failing
// the test if err isn't one.
func suggestion(t *testing.T, err error) string {
	t.Helper()
	var cerr *cerrors.Error
	require.ErrorAs(t, err, &cerr)
	return cerr.Suggestion
}

func newTestRepo(t *testing.T) (root, dbPath string, s *store.Store) {
	t.Helper()
	root = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib.ts"),
		[]byte("export function computeTotal(items) { return items.length }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.ts"),
		[]byte("import { computeTotal } from './lib'\n\nfunction run() { return computeTotal([]) }\n"), 0o644))

	dbPath = filepath.Join(t.TempDir(), "test.db")
	var err error
	s, err = store.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return root, dbPath, s
}

func TestStatus_NotIndexedOnFreshStore(t *testing.T) {
	root, _, s := newTestRepo(t)
	status, err := Status(s, root)
	require.Nil(t, err)
	assert.Equal(t, "not_indexed", status.Status)
}

func TestStatus_RejectsMissingPath(t *testing.T) {
	_, _, s := newTestRepo(t)
	_, err := Status(s, filepath.Join(t.TempDir(), "nope"))
	require.NotNil(t, err)
}

func TestIndex_AutoDetectsFullThenIncremental(t *testing.T) {
	root, _, s := newTestRepo(t)

	summary, err := Index(s, root, "", 0)
	require.Nil(t, err)
	assert.Equal(t, types.ModeFull, summary.Mode)
	assert.Equal(t, 2, summary.FilesIndexed)

	status, serr := Status(s, root)
	require.Nil(t, serr)
	assert.Equal(t, "indexed", status.Status)
	assert.Equal(t, 2, status.FileCounts.Total)

	summary2, err := Index(s, root, "", 0)
	require.Nil(t, err)
	assert.Equal(t, types.ModeIncremental, summary2.Mode)
	assert.Equal(t, 0, summary2.FilesIndexed)
}

func TestIndex_RejectsInvalidMode(t *testing.T) {
	root, _, s := newTestRepo(t)
	_, err := Index(s, root, "bogus", 0)
	require.NotNil(t, err)
}

func TestSearch_FindsSymbolByName(t *testing.T) {
	root, _, s := newTestRepo(t)
	_, ierr := Index(s, root, types.ModeFull, 0)
	require.Nil(t, ierr)

	results, err := Search(s, root, "computeTotal", 10)
	require.Nil(t, err)
	require.NotEmpty(t, results)
}

func TestSearch_NotIndexedRepoReturnsSuggestion(t *testing.T) {
	root, _, s := newTestRepo(t)
	_, err := Search(s, root, "anything", 10)
	require.NotNil(t, err)
	assert.Equal(t, "repo_index", suggestion(t, err))
}

func TestSnippet_WholeFileByDefault(t *testing.T) {
	root, _, _ := newTestRepo(t)
	snip, err := Snippet(root, "lib.ts", 0, 0)
	require.Nil(t, err)
	assert.Equal(t, 1, snip.StartLine)
	assert.Equal(t, snip.TotalLines, snip.EndLine)
}

func TestSnippet_RejectsPathTraversal(t *testing.T) {
	root, _, _ := newTestRepo(t)
	_, err := Snippet(root, "../../etc/passwd", 0, 0)
	require.NotNil(t, err)
}

func TestSnippet_RejectsAbsolutePathOutsideRoot(t *testing.T) {
	root, _, _ := newTestRepo(t)
	_, err := Snippet(root, string(filepath.Separator)+filepath.Join("etc", "passwd"), 0, 0)
	require.NotNil(t, err)
}

func TestContext_NotIndexedReturnsSuggestion(t *testing.T) {
	root, _, s := newTestRepo(t)
	_, err := Context(s, root, "how does this work", 0, nil)
	require.NotNil(t, err)
	assert.Equal(t, "repo_index", suggestion(t, err))
}

func TestContext_ReturnsBundleAfterIndexing(t *testing.T) {
	root, _, s := newTestRepo(t)
	_, ierr := Index(s, root, types.ModeFull, 0)
	require.Nil(t, ierr)

	bundle, err := Context(s, root, "fix computeTotal for empty lists", 0, nil)
	require.Nil(t, err)
	assert.NotEmpty(t, bundle.Focus)
	assert.Equal(t, 8000, bundle.Limits.Budget)
}
