package tools

import (
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// Status implements repo_status.
func Status(s *store.Store, repoPath string) (*types.RepoStatus, error) {
	root, err := validateRepoPath(repoPath)
	if err != nil {
		return nil, err
	}

	repo, err := s.FindRepoByPath(root)
	if err != nil {
		return nil, userError("repo_status: %s", err)
	}
	if repo == nil {
		return &types.RepoStatus{Status: "not_indexed"}, nil
	}

	total, byLang, err := s.CountFiles(repo.ID)
	if err != nil {
		return nil, userError("repo_status: %s", err)
	}
	symbolCount, err := s.CountSymbols(repo.ID)
	if err != nil {
		return nil, userError("repo_status: %s", err)
	}
	edgeCount, err := s.CountEdges(repo.ID)
	if err != nil {
		return nil, userError("repo_status: %s", err)
	}
	lastIndexed, err := s.LastIndexedAt(repo.ID)
	if err != nil {
		return nil, userError("repo_status: %s", err)
	}

	status := &types.RepoStatus{
		Status:      "indexed",
		RepoID:      repo.ID,
		RootPath:    repo.RootPath,
		SymbolCount: symbolCount,
		EdgeCount:   edgeCount,
		FileCounts:  types.FileCounts{Total: total, ByLang: byLang},
	}
	if lastIndexed.Valid {
		status.LastIndexedAt = lastIndexed.Time
	}
	return status, nil
}
