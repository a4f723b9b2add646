// Package types holds the data contracts shared across the indexing and
// retrieval pipelines: the persisted graph entities and the exit shapes
// returned at the tool-surface boundary.
package types

import "time"

// SymbolKind enumerates the kinds a Symbol row may carry.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindType      SymbolKind = "type"
	KindVariable  SymbolKind = "variable"
	KindEnum      SymbolKind = "enum"
	KindMethod    SymbolKind = "method"
	KindProperty  SymbolKind = "property"
	KindStruct    SymbolKind = "struct"
	KindTrait     SymbolKind = "trait"
	KindModule    SymbolKind = "module"
	KindNamespace SymbolKind = "namespace"
	KindConstant  SymbolKind = "constant"
)

// NodeKind enumerates the endpoint kinds an Edge may connect.
type NodeKind string

const (
	NodeFile   NodeKind = "file"
	NodeSymbol NodeKind = "symbol"
	// NodeModule is reserved for the Module entity. No writer in this
	// package ever produces an edge with this endpoint kind.
	NodeModule NodeKind = "module"
)

// EdgeRel enumerates the relation an Edge carries, and its default weight.
type EdgeRel string

const (
	RelImports    EdgeRel = "IMPORTS"
	RelExports    EdgeRel = "EXPORTS"
	RelDefines    EdgeRel = "DEFINES"
	RelReferences EdgeRel = "REFERENCES"
	RelExtends    EdgeRel = "EXTENDS"
	RelImplements EdgeRel = "IMPLEMENTS"
	RelTests      EdgeRel = "TESTS"
)

// EdgeWeight returns the fixed weight for a relation.
func EdgeWeight(rel EdgeRel) float64 {
	switch rel {
	case RelDefines, RelImports, RelExtends:
		return 1.0
	case RelExports, RelImplements:
		return 0.8
	default:
		return 1.0
	}
}

// Repo is a single indexed repository root.
type Repo struct {
	ID        int64
	RootPath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// File is one source file discovered under a Repo.
type File struct {
	ID            int64
	RepoID        int64
	Path          string // repo-relative, forward-slash
	Lang          string
	SHA256        string
	MTime         time.Time
	SizeBytes     int64
	LastIndexedAt time.Time
}

// Symbol is one declaration extracted from a File.
type Symbol struct {
	ID        int64
	RepoID    int64
	FileID    int64
	Kind      SymbolKind
	Name      string
	FQName    string
	Signature string // optional, best-effort, ≤200 chars
	StartLine int    // 1-based, inclusive
	StartCol  int    // 1-based, inclusive
	EndLine   int
	EndCol    int
}

// Edge is one typed relation between two graph nodes.
type Edge struct {
	ID        int64
	RepoID    int64
	SrcType   NodeKind
	SrcID     int64
	Rel       EdgeRel
	DstType   NodeKind
	DstID     int64
	MetaJSON  string // optional, e.g. {"names":[...],"isTypeOnly":false}
	Weight    float64
	CreatedAt time.Time
}

// Module is a reserved external-package record; never written by the core.
type Module struct {
	ID           int64
	RepoID       int64
	Name         string
	Version      string
	ManifestPath string
}

// SearchEntry is one row of the FTS virtual table.
type SearchEntry struct {
	RepoID     int64
	EntityType NodeKind // "file" or "symbol"
	EntityID   int64
	Text       string
}

// ChangedFiles buckets the result of Store.FindChanged.
type ChangedFiles struct {
	New     []DiscoveredFile
	Changed []DiscoveredFile
	Deleted []File
}

// DiscoveredFile is a file found by the Walker, prior to any DB lookup.
type DiscoveredFile struct {
	Path         string // repo-relative, forward-slash
	AbsolutePath string
	Lang         string
	MTime        time.Time
	SizeBytes    int64
	SHA256       string
}

// IndexMode selects full vs incremental indexing.
type IndexMode string

const (
	ModeFull        IndexMode = "full"
	ModeIncremental IndexMode = "incremental"
)

// IndexSummary is the result of a single Indexer run.
type IndexSummary struct {
	RepoID       int64
	Mode         IndexMode
	Level        int
	FilesIndexed int
	FilesSkipped int
	FilesDeleted int
	SymbolCount  int
	EdgeCount    int
	DurationMS   int64
	Warnings     []string
}

// RepoStatus is the result of the repo_status tool operation.
type RepoStatus struct {
	Status        string // "not_indexed" or "indexed"
	RepoID        int64
	RootPath      string
	LastIndexedAt time.Time
	FileCounts    FileCounts
	SymbolCount   int
	EdgeCount     int
}

// FileCounts breaks a repo's file total down by language.
type FileCounts struct {
	Total  int
	ByLang map[string]int
}

// SearchHints narrows candidate discovery.
type SearchHints struct {
	Paths   []string
	Symbols []string
	Lang    string
}

// SearchResult is one row of repo_search's output.
type SearchResult struct {
	Type     NodeKind
	Path     string
	Excerpt  string
	EntityID int64
}

// Snippet is a budget-accounted slice of a file's text.
type Snippet struct {
	Path   string
	Start  int
	End    int
	SHA256 string
	Text   string
}

// FocusItem is a top-ranked file or symbol surfaced in a ContextBundle.
type FocusItem struct {
	Type   NodeKind
	ID     string
	Path   string
	FQName string
	Reason string
}

// SubgraphNode is one node in a ContextBundle's subgraph.
type SubgraphNode struct {
	Type NodeKind
	ID   string
	Path string
}

// SubgraphEdge is one edge in a ContextBundle's subgraph.
type SubgraphEdge struct {
	Src string
	Rel EdgeRel
	Dst string
}

// Subgraph is the filtered edge set delivered in a ContextBundle.
type Subgraph struct {
	Nodes []SubgraphNode
	Edges []SubgraphEdge
}

// Limits reports the requested budget and the estimated tokens used.
type Limits struct {
	Budget       int
	UsedEstimate int
}

// RepoRef names the root and optional revision surfaced in a ContextBundle.
type RepoRef struct {
	Root string
	Rev  string
}

// ContextBundle is the exit shape of repo_context_get.
type ContextBundle struct {
	Repo     RepoRef
	Intent   string
	Focus    []FocusItem
	Snippets []Snippet
	Subgraph Subgraph
	Notes    []string
	Limits   Limits
}
