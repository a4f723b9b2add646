package cindex

import (
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/tools"
	"github.com/cindexdev/cindex/internal/types"
)

// Cindex owns a Store and exposes the tool-surface operations
// as Go methods.
type Cindex struct {
	store *store.Store
}

// New opens (creating if absent) the SQLite store at dbPath and migrates
// it to the current schema.
func New(dbPath string) (*Cindex, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return &Cindex{store: s}, nil
}

// Close releases the underlying database handle.
func (c *Cindex) Close() error {
	return c.store.Close()
}

// Status reports whether repoPath is indexed, and if so its counts.
func (c *Cindex) Status(repoPath string) (*types.RepoStatus, error) {
	return tools.Status(c.store, repoPath)
}

// Index runs a full or incremental index pass over repoPath. An empty
// mode auto-detects based on prior indexing state.
func (c *Cindex) Index(repoPath string, mode types.IndexMode, level int) (*types.IndexSummary, error) {
	return tools.Index(c.store, repoPath, mode, level)
}

// Search runs a full-text query over repoPath's indexed files and symbols.
func (c *Cindex) Search(repoPath, query string, limit int) ([]types.SearchResult, error) {
	return tools.Search(c.store, repoPath, query, limit)
}

// Snippet reads a line range from a file within repoPath, rejecting any
// path that escapes the repo root.
func (c *Cindex) Snippet(repoPath, filePath string, startLine, endLine int) (*tools.SnippetResult, error) {
	return tools.Snippet(repoPath, filePath, startLine, endLine)
}

// Context assembles a ranked ContextBundle for a natural-language task
// description against an already-indexed repoPath.
func (c *Cindex) Context(repoPath, task string, budget int, hints *types.SearchHints) (*types.ContextBundle, error) {
	return tools.Context(c.store, repoPath, task, budget, hints)
}
