package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cindexdev/cindex/internal/cerrors"
)

const maxQueryLength = 500

// validateRepoPath normalises repoPath to an absolute path and checks it
// exists and is a directory.
func validateRepoPath(repoPath string) (string, error) {
	if strings.TrimSpace(repoPath) == "" {
		return "", userError("repo_path is required")
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return "", userError("repo_path: %s", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", userError("repo_path %s does not exist", abs)
	}
	if !info.IsDir() {
		return "", userError("repo_path %s is not a directory", abs)
	}
	return abs, nil
}

// validateFilePath resolves filePath against repoRoot and rejects any
// result outside the root, whether via traversal (`../`) or an absolute
// path pointing elsewhere.
func validateFilePath(repoRoot, filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", userError("file_path is required")
	}
	var abs string
	if filepath.IsAbs(filePath) {
		abs = filepath.Clean(filePath)
	} else {
		abs = filepath.Join(repoRoot, filePath)
	}

	root := filepath.Clean(repoRoot)
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", cerrors.PathTraversal(fmt.Sprintf("file_path %s escapes repo root", filePath))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", userError("file_path %s does not exist", filePath)
	}
	if info.IsDir() {
		return "", userError("file_path %s is a directory", filePath)
	}
	return abs, nil
}

func validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return userError("query is required")
	}
	if len(query) > maxQueryLength {
		return userError("query exceeds %d characters", maxQueryLength)
	}
	return nil
}

func clampLevel(level int) int {
	if level != 0 && level != 1 {
		return 0
	}
	return level
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func clampBudget(budget int) int {
	if budget <= 0 {
		return 8000
	}
	if budget < 100 {
		return 100
	}
	if budget > 50000 {
		return 50000
	}
	return budget
}
