package walker

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// alwaysIgnoreDirs are directory names excluded regardless of .gitignore.
var alwaysIgnoreDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".cache":       true,
	"coverage":     true,
	".git":         true,
}

// alwaysIgnoreFileGlobs are doublestar patterns matched against a file's
// basename, regardless of .gitignore.
var alwaysIgnoreFileGlobs = []string{
	"*.lock",
	"*.min.js",
	"*.min.css",
	"*.map",
}

// ignoreSet holds the root .gitignore patterns in addition to the fixed
// always-ignore rules. Nested .gitignore files are out of scope.
type ignoreSet struct {
	patterns []string
}

// loadIgnoreSet reads root/.gitignore if present. A missing file is not an
// error — it simply yields no extra patterns.
func loadIgnoreSet(root string) (*ignoreSet, error) {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if os.IsNotExist(err) {
		return &ignoreSet{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(line, "/"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &ignoreSet{patterns: patterns}, nil
}

// matchesGitignore reports whether relPath (repo-relative, forward-slash,
// no leading slash) matches one of the loaded .gitignore patterns.
func (s *ignoreSet) matchesGitignore(relPath string) bool {
	base := filepath.Base(relPath)
	for _, p := range s.patterns {
		p = strings.TrimSuffix(p, "/")
		if ok, err := doublestar.Match(p, relPath); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(p, base); err == nil && ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, err := doublestar.Match("**/"+p, relPath); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// isAlwaysIgnoredDir reports whether a directory entry name is on the
// fixed always-ignore list.
func isAlwaysIgnoredDir(name string) bool {
	return alwaysIgnoreDirs[name]
}

// isAlwaysIgnoredFile reports whether a file's basename matches one of the
// fixed always-ignore globs.
func isAlwaysIgnoredFile(name string) bool {
	for _, g := range alwaysIgnoreFileGlobs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}

// isDotfile reports whether name is a dotfile/dotdir not already covered
// by the always-ignore lists; dotfiles are excluded by default except
// those the fixed lists name.
func isDotfile(name string) bool {
	return strings.HasPrefix(name, ".") && !isAlwaysIgnoredDir(name)
}
