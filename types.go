package cindex

import "github.com/cindexdev/cindex/internal/types"

// Public type aliases for internal data-contract types used in the Cindex
// API. These are Go type aliases (=) — identical to the internal types at
// compile time. External consumers use these names; no conversion needed.

type Repo = types.Repo
type File = types.File
type Symbol = types.Symbol
type Edge = types.Edge
type IndexMode = types.IndexMode
type IndexSummary = types.IndexSummary
type RepoStatus = types.RepoStatus
type SearchResult = types.SearchResult
type SearchHints = types.SearchHints
type ContextBundle = types.ContextBundle
type Snippet = types.Snippet

const (
	ModeFull        = types.ModeFull
	ModeIncremental = types.ModeIncremental
)
