package main_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "cindex"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-tags", "sqlite_fts5", "-o", bin, ".")
	cmd.Dir = filepath.Join(projectRoot(t), "cmd", "cindex")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(out))
	return bin
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, parent, dir, "could not find project root")
		dir = parent
	}
}

func createTSFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.ts"),
		[]byte("export function computeTotal(items) { return items.length }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ts"),
		[]byte("import { computeTotal } from './lib'\n\nfunction run() { return computeTotal([]) }\n"), 0o644))
	return dir
}

func runCindex(t *testing.T, bin, dbPath string, args ...string) (CLIResult, []byte) {
	t.Helper()
	cmd := exec.Command(bin, append([]string{"--db", dbPath}, args...)...)
	out, _ := cmd.CombinedOutput()
	var result CLIResult
	require.NoError(t, json.Unmarshal(out, &result), "output: %s", string(out))
	return result, out
}

// CLIResult mirrors the main package's envelope for decoding test output.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results,omitempty"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func TestCLI_StatusIndexSearchSnippetContext(t *testing.T) {
	bin := buildBinary(t)
	repo := createTSFixture(t)
	dbPath := filepath.Join(t.TempDir(), "cindex.db")

	status, _ := runCindex(t, bin, dbPath, "status", repo)
	require.Empty(t, status.Error)

	indexResult, _ := runCindex(t, bin, dbPath, "index", repo)
	require.Empty(t, indexResult.Error)

	searchResult, _ := runCindex(t, bin, dbPath, "search", repo, "computeTotal")
	require.Empty(t, searchResult.Error)

	snippetResult, _ := runCindex(t, bin, dbPath, "snippet", repo, "lib.ts")
	require.Empty(t, snippetResult.Error)

	contextResult, _ := runCindex(t, bin, dbPath, "context", repo, "fix computeTotal for empty lists")
	require.Empty(t, contextResult.Error)
}

func TestCLI_ContextBeforeIndexReturnsSuggestion(t *testing.T) {
	bin := buildBinary(t)
	repo := createTSFixture(t)
	dbPath := filepath.Join(t.TempDir(), "cindex.db")

	result, _ := runCindex(t, bin, dbPath, "context", repo, "how does this work")
	require.NotEmpty(t, result.Error)
	require.Equal(t, "repo_index", result.Suggestion)
}

func TestCLI_SnippetRejectsPathTraversal(t *testing.T) {
	bin := buildBinary(t)
	repo := createTSFixture(t)
	dbPath := filepath.Join(t.TempDir(), "cindex.db")

	result, _ := runCindex(t, bin, dbPath, "snippet", repo, "../../etc/passwd")
	require.NotEmpty(t, result.Error)
}
