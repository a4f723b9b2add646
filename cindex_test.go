package cindex_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex"
)

func newFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.ts"),
		[]byte("export function computeTotal(items) { return items.length }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ts"),
		[]byte("import { computeTotal } from './lib'\n\nfunction run() { return computeTotal([]) }\n"), 0o644))
	return dir
}

func TestCindex_StatusIndexSearchSnippetContext(t *testing.T) {
	repo := newFixture(t)
	c, err := cindex.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	status, terr := c.Status(repo)
	require.Nil(t, terr)
	assert.Equal(t, "not_indexed", status.Status)

	summary, terr := c.Index(repo, cindex.ModeFull, 0)
	require.Nil(t, terr)
	assert.Equal(t, 2, summary.FilesIndexed)

	status, terr = c.Status(repo)
	require.Nil(t, terr)
	assert.Equal(t, "indexed", status.Status)

	results, terr := c.Search(repo, "computeTotal", 10)
	require.Nil(t, terr)
	assert.NotEmpty(t, results)

	snip, terr := c.Snippet(repo, "lib.ts", 0, 0)
	require.Nil(t, terr)
	assert.Equal(t, 1, snip.StartLine)

	bundle, terr := c.Context(repo, "fix computeTotal for empty lists", 0, nil)
	require.Nil(t, terr)
	assert.NotEmpty(t, bundle.Focus)
}
