// Package contract holds the per-language parse result types shared by
// internal/parser and internal/parser/lang, kept in their own package so
// those two can depend on it without depending on each other.
package contract

// ParsedImport is one import/require/use statement found in a file.
type ParsedImport struct {
	Source      string // module specifier as written, quotes/delimiters stripped
	Names       []string
	IsDefault   bool
	IsNamespace bool
	IsTypeOnly  bool
	IsDynamic   bool
}

// ParsedExport is one top-level binding a file makes visible to importers.
type ParsedExport struct {
	Name       string
	IsDefault  bool
	IsReExport bool
	Source     string // populated for re-exports ("export * from './x'")
}

// ParsedSymbol is one declaration found in a file, prior to fq_name
// assignment (the parser has no notion of file path or repo).
type ParsedSymbol struct {
	Kind       string // one of the types.SymbolKind values, as a string
	Name       string
	Signature  string // first line, best-effort, ≤200 chars
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
	Extends    string
	Implements []string
}

// Result is the uniform output of Parse, regardless of language.
type Result struct {
	Imports []ParsedImport
	Exports []ParsedExport
	Symbols []ParsedSymbol
}

// Adapter is implemented once per supported language.
type Adapter interface {
	Parse(source []byte) (Result, error)
}
