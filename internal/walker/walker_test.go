package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func discoveredPaths(t *testing.T, root string) []string {
	t.Helper()
	files, err := Walk(root)
	require.NoError(t, err)
	var out []string
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestWalk_DiscoversByExtensionOnly(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.ts", "export const x = 1\n")
	write(t, root, "sub/b.go", "package sub\n")
	write(t, root, "notes.txt", "not indexable\n")
	write(t, root, "README.md", "docs\n")

	assert.ElementsMatch(t, []string{"a.ts", "sub/b.go"}, discoveredPaths(t, root))
}

func TestWalk_SkipsAlwaysIgnoredDirsAndFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/a.ts", "export const x = 1\n")
	write(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")
	write(t, root, "vendor/dep.go", "package dep\n")
	write(t, root, "dist/bundle.min.js", "x\n")
	write(t, root, "app.min.css", "x\n")
	write(t, root, "out.map", "x\n")

	assert.ElementsMatch(t, []string{"src/a.ts"}, discoveredPaths(t, root))
}

func TestWalk_SkipsDotfilesAndDotDirs(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.ts", "export const x = 1\n")
	write(t, root, ".hidden.ts", "export const y = 2\n")
	write(t, root, ".idea/config.js", "x\n")

	assert.ElementsMatch(t, []string{"a.ts"}, discoveredPaths(t, root))
}

func TestWalk_AppliesRootGitignore(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".gitignore", "generated.ts\ntmp/\n")
	write(t, root, "a.ts", "export const x = 1\n")
	write(t, root, "generated.ts", "export const g = 1\n")
	write(t, root, "tmp/scratch.ts", "export const s = 1\n")

	assert.ElementsMatch(t, []string{"a.ts"}, discoveredPaths(t, root))
}

func TestLangForExt(t *testing.T) {
	lang, ok := LangForExt(".tsx")
	require.True(t, ok)
	assert.Equal(t, "typescript", lang)

	_, ok = LangForExt(".md")
	assert.False(t, ok)
}
