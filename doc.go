// Package cindex builds an offline, persistent dependency-and-symbol graph
// of a multi-language repository with tree-sitter, and serves ranked
// context bundles in response to natural-language task descriptions.
//
// # Pipeline
//
// cindex operates in two phases:
//
//  1. Index: walk the repo, hash each file's content, parse it with a
//     language-specific tree-sitter adapter, and write files, symbols, and
//     intra-file edges to SQLite; then resolve every file's imports into
//     cross-file IMPORTS edges.
//
//  2. Retrieve: given a task description, discover candidate files by
//     hints, path, and symbol-name matches, and full-text search; expand
//     outward through the dependency graph; rank and trim to a token
//     budget; and assemble a ContextBundle of focus items, snippets, and
//     a scoped subgraph.
//
// # Usage
//
// Create a Cindex, index a repository, and retrieve context for a task:
//
//	c, err := cindex.New("cindex.db")
//	if err != nil { ... }
//	defer c.Close()
//
//	summary, err := c.Index("path/to/repo", cindex.ModeFull, 0)
//	bundle, err := c.Context("path/to/repo", "fix the auth bug", 0, nil)
//
// # Tool surface
//
// The five operations consumed by the CLI live in
// [github.com/cindexdev/cindex/internal/tools]: repo_status, repo_index,
// repo_search, repo_snippet, and repo_context_get. [Cindex] is a thin
// wrapper around that package plus store lifecycle management.
//
// # Languages
//
// Go, TypeScript, JavaScript, Python, Rust, Java, PHP, Ruby, C, C++, and
// C#, dispatched by file extension (see internal/walker).
package cindex
