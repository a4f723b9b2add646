// Package walker discovers indexable files under a repository root,
// honouring the fixed always-ignore list, the root .gitignore, dotfile
// exclusion, and language detection by extension.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cindexdev/cindex/internal/types"
)

// Walk recursively discovers indexable files under root and returns them
// as repo-relative, forward-slash DiscoveredFiles. The SHA256 field is left
// empty — hashing is the caller's responsibility.
func Walk(root string) ([]types.DiscoveredFile, error) {
	ignores, err := loadIgnoreSet(root)
	if err != nil {
		return nil, fmt.Errorf("load ignore rules: %w", err)
	}

	var out []types.DiscoveredFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Entry vanished or became unreadable between enumeration and
			// visit; drop it silently.
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if isAlwaysIgnoredDir(name) || isDotfile(name) || ignores.matchesGitignore(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if isAlwaysIgnoredFile(name) || isDotfile(name) || ignores.matchesGitignore(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(name))
		lang, ok := LangForExt(ext)
		if !ok {
			return nil
		}

		info, statErr := os.Stat(path)
		if statErr != nil {
			// stat failed between enumeration and read — drop silently.
			return nil
		}
		if info.IsDir() {
			return nil
		}

		out = append(out, types.DiscoveredFile{
			Path:         rel,
			AbsolutePath: path,
			Lang:         lang,
			MTime:        info.ModTime().UTC(),
			SizeBytes:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}
