// Package resolver maps import specifiers found by the parser to
// repo-relative file paths on disk.
package resolver

import (
	"os"
	"path/filepath"
	"strings"
)

var tryExts = []string{".ts", ".tsx", ".js", ".jsx"}

// Resolve maps specifier (as written in an import/require/use statement)
// to a repo-relative, forward-slash path, given the absolute path of the
// importing file and the repo's absolute root. Returns ("", false) for
// external specifiers or anything that can't be found on disk.
func Resolve(specifier, importingFileAbsolute, repoRootAbsolute string) (string, bool) {
	if specifier == "" || !strings.HasPrefix(specifier, ".") {
		return "", false
	}

	dir := filepath.Dir(importingFileAbsolute)
	candidate := filepath.Join(dir, filepath.FromSlash(specifier))
	candidate = filepath.Clean(candidate)

	root := filepath.Clean(repoRootAbsolute)
	if !withinRoot(candidate, root) {
		return "", false
	}

	hit := firstExisting(candidate)
	if hit == "" {
		return "", false
	}
	if !withinRoot(hit, root) {
		return "", false
	}

	rel, err := filepath.Rel(root, hit)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// withinRoot reports whether path is root itself or lies under it, after
// normalisation — rejects any import that escapes the repo.
func withinRoot(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// firstExisting implements the ordered lookup: exact path, then
// (for .js/.jsx specifiers) the matching .ts/.tsx sibling, then each of
// .ts/.tsx/.js/.jsx appended, then /index.<ext> for each.
func firstExisting(candidate string) string {
	if isFile(candidate) {
		return candidate
	}

	ext := filepath.Ext(candidate)
	if ext == ".js" || ext == ".jsx" {
		base := strings.TrimSuffix(candidate, ext)
		for _, alt := range tsAlternatesFor(ext) {
			if p := base + alt; isFile(p) {
				return p
			}
		}
	}

	for _, alt := range tryExts {
		if p := candidate + alt; isFile(p) {
			return p
		}
	}

	for _, alt := range tryExts {
		p := filepath.Join(candidate, "index"+alt)
		if isFile(p) {
			return p
		}
	}

	return ""
}

func tsAlternatesFor(ext string) []string {
	if ext == ".jsx" {
		return []string{".tsx"}
	}
	return []string{".ts"}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
