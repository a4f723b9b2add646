// Package parser dispatches source text to a per-language tree-sitter
// adapter and normalises the result to a uniform {imports, exports,
// symbols} contract.
package parser

import "github.com/cindexdev/cindex/internal/parser/contract"

// ParsedImport is one import/require/use statement found in a file.
type ParsedImport = contract.ParsedImport

// ParsedExport is one top-level binding a file makes visible to importers.
type ParsedExport = contract.ParsedExport

// ParsedSymbol is one declaration found in a file, prior to fq_name
// assignment (the parser has no notion of file path or repo).
type ParsedSymbol = contract.ParsedSymbol

// Result is the uniform output of Parse, regardless of language.
type Result = contract.Result

// Adapter is implemented once per supported language.
type Adapter = contract.Adapter
