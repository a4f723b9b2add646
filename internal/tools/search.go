package tools

import (
	"strings"

	"github.com/cindexdev/cindex/internal/search"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

const excerptLength = 200

// Search implements repo_search: sanitize the free-form
// query, run it against the FTS index, and resolve each hit's entity
// back to a file path and excerpt.
func Search(s *store.Store, repoPath, query string, limit int) ([]types.SearchResult, error) {
	root, err := validateRepoPath(repoPath)
	if err != nil {
		return nil, err
	}
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)

	repo, err := s.FindRepoByPath(root)
	if err != nil {
		return nil, userError("repo_search: %s", err)
	}
	if repo == nil {
		return nil, notIndexed(root)
	}

	ftsQuery := search.Sanitize(query)
	hits, err := s.Search(repo.ID, ftsQuery, limit)
	if err != nil {
		return nil, userError("repo_search: %s", err)
	}

	results := make([]types.SearchResult, 0, len(hits))
	for _, h := range hits {
		path := pathForEntity(s, h.EntityType, h.EntityID)
		if path == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Type:     h.EntityType,
			Path:     path,
			Excerpt:  excerpt(h.Text),
			EntityID: h.EntityID,
		})
	}
	return results, nil
}

func pathForEntity(s *store.Store, entityType types.NodeKind, entityID int64) string {
	switch entityType {
	case types.NodeFile:
		f, err := s.FindFileByID(entityID)
		if err != nil || f == nil {
			return ""
		}
		return f.Path
	case types.NodeSymbol:
		sym, err := s.FindSymbolByID(entityID)
		if err != nil || sym == nil {
			return ""
		}
		f, err := s.FindFileByID(sym.FileID)
		if err != nil || f == nil {
			return ""
		}
		return f.Path
	default:
		return ""
	}
}

// excerpt collapses the indexed text to a single line capped at
// excerptLength characters.
func excerpt(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) <= excerptLength {
		return collapsed
	}
	return collapsed[:excerptLength] + "..."
}
