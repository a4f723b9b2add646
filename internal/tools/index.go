package tools

import (
	"errors"

	"github.com/cindexdev/cindex/internal/indexer"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// Index implements repo_index. An empty mode auto-detects:
// incremental if the repo has a prior full run, full otherwise.
func Index(s *store.Store, repoPath string, mode types.IndexMode, level int) (*types.IndexSummary, error) {
	root, err := validateRepoPath(repoPath)
	if err != nil {
		return nil, err
	}

	if mode == "" {
		repo, err := s.FindRepoByPath(root)
		if err != nil {
			return nil, userError("repo_index: %s", err)
		}
		if repo == nil {
			mode = types.ModeFull
		} else {
			mode = types.ModeIncremental
		}
	} else if mode != types.ModeFull && mode != types.ModeIncremental {
		return nil, userError("mode must be %q or %q", types.ModeFull, types.ModeIncremental)
	}

	level = clampLevel(level)

	summary, err := indexer.New(s).Run(root, mode, level)
	if err != nil {
		if errors.Is(err, indexer.ErrNotIndexed) {
			return nil, notIndexed(root)
		}
		return nil, userError("repo_index: %s", err)
	}
	return summary, nil
}
