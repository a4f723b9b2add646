package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestResolve_ExternalSpecifierIsUnresolved(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))

	_, ok := Resolve("lodash", filepath.Join(root, "src", "a.ts"), root)
	assert.False(t, ok)
}

func TestResolve_ExactPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(root, "src", "b.ts"))

	got, ok := Resolve("./b.ts", filepath.Join(root, "src", "a.ts"), root)
	require.True(t, ok)
	assert.Equal(t, "src/b.ts", got)
}

func TestResolve_JSFallsBackToTS(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(root, "src", "b.ts"))

	got, ok := Resolve("./b.js", filepath.Join(root, "src", "a.ts"), root)
	require.True(t, ok)
	assert.Equal(t, "src/b.ts", got)
}

func TestResolve_AppendsExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(root, "src", "util.tsx"))

	got, ok := Resolve("./util", filepath.Join(root, "src", "a.ts"), root)
	require.True(t, ok)
	assert.Equal(t, "src/util.tsx", got)
}

func TestResolve_IndexFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(root, "src", "lib", "index.ts"))

	got, ok := Resolve("./lib", filepath.Join(root, "src", "a.ts"), root)
	require.True(t, ok)
	assert.Equal(t, "src/lib/index.ts", got)
}

func TestResolve_RejectsEscapingRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))
	writeFile(t, filepath.Join(outside, "evil.ts"))

	rel, err := filepath.Rel(filepath.Join(root, "src"), filepath.Join(outside, "evil.ts"))
	require.NoError(t, err)

	_, ok := Resolve("./"+filepath.ToSlash(rel), filepath.Join(root, "src", "a.ts"), root)
	assert.False(t, ok)
}

func TestResolve_MissingTargetIsUnresolved(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))

	_, ok := Resolve("./nope", filepath.Join(root, "src", "a.ts"), root)
	assert.False(t, ok)
}
