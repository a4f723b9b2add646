package tools

import (
	"os"
	"strings"
)

// SnippetResult is the exit shape of repo_snippet.
type SnippetResult struct {
	Path       string
	StartLine  int
	EndLine    int
	TotalLines int
	Text       string
}

// Snippet implements repo_snippet. It reads disk directly, not the store,
// and rejects any file_path that escapes repoPath.
// startLine/endLine of 0 default to the whole file.
func Snippet(repoPath, filePath string, startLine, endLine int) (*SnippetResult, error) {
	root, err := validateRepoPath(repoPath)
	if err != nil {
		return nil, err
	}
	abs, err := validateFilePath(root, filePath)
	if err != nil {
		return nil, err
	}

	content, readErr := os.ReadFile(abs)
	if readErr != nil {
		return nil, userError("file_path %s could not be read", filePath)
	}
	lines := strings.Split(string(content), "\n")
	total := len(lines)

	if startLine <= 0 {
		startLine = 1
	}
	if endLine <= 0 || endLine > total {
		endLine = total
	}
	if startLine > total {
		startLine = total
	}
	if endLine < startLine {
		endLine = startLine
	}

	text := strings.Join(lines[startLine-1:endLine], "\n")
	return &SnippetResult{
		Path:       filePath,
		StartLine:  startLine,
		EndLine:    endLine,
		TotalLines: total,
		Text:       text,
	}, nil
}
