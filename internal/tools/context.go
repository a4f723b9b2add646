package tools

import (
	"github.com/cindexdev/cindex/internal/retrieval"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// Context implements repo_context_get. If the repo isn't
// indexed, it returns the recoverable not-indexed error rather than
// running the pipeline.
func Context(s *store.Store, repoPath, task string, budget int, hints *types.SearchHints) (*types.ContextBundle, error) {
	root, err := validateRepoPath(repoPath)
	if err != nil {
		return nil, err
	}
	if err := validateQuery(task); err != nil {
		return nil, err
	}
	budget = clampBudget(budget)

	repo, err := s.FindRepoByPath(root)
	if err != nil {
		return nil, userError("repo_context_get: %s", err)
	}
	if repo == nil {
		return nil, notIndexed(root)
	}

	bundle, err := retrieval.New(s).Get(root, repo.ID, task, budget, hints)
	if err != nil {
		return nil, userError("repo_context_get: %s", err)
	}
	return bundle, nil
}
