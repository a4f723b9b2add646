// Package tools implements the five tool-surface operations consumed by
// the CLI: repo_status, repo_index, repo_search, repo_snippet,
// and repo_context_get. Every exported function validates its inputs
// before touching the store and never lets an exception escape as
// anything but a *cerrors.Error.
package tools

import (
	"fmt"

	"github.com/cindexdev/cindex/internal/cerrors"
)

func userError(format string, args ...any) error {
	return cerrors.UserInput(fmt.Sprintf(format, args...), nil)
}

// notIndexed builds the recoverable "not indexed" error carrying the
// suggestion to run repo_index.
func notIndexed(root string) error {
	return cerrors.NotIndexed(fmt.Sprintf("repo %s is not indexed", root))
}
