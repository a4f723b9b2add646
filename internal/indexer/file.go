package indexer

import (
	"database/sql"
	"strings"
	"time"

	"github.com/cindexdev/cindex/internal/parser"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// indexOneFile writes one file's row, symbols, DEFINES/EXPORTS/intra-file
// EXTENDS/IMPLEMENTS edges, and FTS entries. Callers
// must have already removed any stale row for this path within the same
// transaction. Returns the new file ID, the parse result (so the caller
// can queue its imports for the second pass), and whether the parse
// produced a warning — a warned file counts as skipped, not indexed.
func indexOneFile(tx *sql.Tx, repoID int64, d types.DiscoveredFile, content []byte, summary *types.IndexSummary) (int64, parser.Result, bool, error) {
	result, warning := parser.Parse(content, d.Path, d.Lang)
	if warning != "" {
		summary.Warnings = append(summary.Warnings, warning)
	}

	fileID, err := store.InsertFileTx(tx, &types.File{
		RepoID: repoID, Path: d.Path, Lang: d.Lang, SHA256: d.SHA256,
		MTime: d.MTime, SizeBytes: d.SizeBytes, LastIndexedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, parser.Result{}, false, err
	}

	if err := store.UpsertSearchEntryTx(tx, repoID, types.NodeFile, fileID, d.Path); err != nil {
		return 0, parser.Result{}, false, err
	}

	symbolIDs := make([]int64, len(result.Symbols))
	byName := make(map[string][]int64, len(result.Symbols))
	for i, ps := range result.Symbols {
		fqName := d.Path + ":" + ps.Name
		sym := &types.Symbol{
			RepoID: repoID, FileID: fileID, Kind: types.SymbolKind(ps.Kind),
			Name: ps.Name, FQName: fqName, Signature: ps.Signature,
			StartLine: ps.StartLine, StartCol: ps.StartCol, EndLine: ps.EndLine, EndCol: ps.EndCol,
		}
		id, err := store.InsertSymbolTx(tx, sym)
		if err != nil {
			return 0, parser.Result{}, false, err
		}
		symbolIDs[i] = id
		byName[ps.Name] = append(byName[ps.Name], id)
		summary.SymbolCount++

		if _, err := store.InsertEdgeTx(tx, &types.Edge{
			RepoID: repoID, SrcType: types.NodeFile, SrcID: fileID,
			Rel: types.RelDefines, DstType: types.NodeSymbol, DstID: id,
			Weight: types.EdgeWeight(types.RelDefines),
		}); err != nil {
			return 0, parser.Result{}, false, err
		}
		summary.EdgeCount++

		if err := store.UpsertSearchEntryTx(tx, repoID, types.NodeSymbol, id, ps.Name+" "+fqName); err != nil {
			return 0, parser.Result{}, false, err
		}
	}

	for _, pe := range result.Exports {
		for _, id := range byName[pe.Name] {
			if _, err := store.InsertEdgeTx(tx, &types.Edge{
				RepoID: repoID, SrcType: types.NodeFile, SrcID: fileID,
				Rel: types.RelExports, DstType: types.NodeSymbol, DstID: id,
				Weight: types.EdgeWeight(types.RelExports),
			}); err != nil {
				return 0, parser.Result{}, false, err
			}
			summary.EdgeCount++
		}
	}

	for i, ps := range result.Symbols {
		srcID := symbolIDs[i]
		if ps.Extends != "" {
			for _, dstID := range byName[baseIdentifier(ps.Extends)] {
				if dstID == srcID {
					continue
				}
				if _, err := store.InsertEdgeTx(tx, &types.Edge{
					RepoID: repoID, SrcType: types.NodeSymbol, SrcID: srcID,
					Rel: types.RelExtends, DstType: types.NodeSymbol, DstID: dstID,
					Weight: types.EdgeWeight(types.RelExtends),
				}); err != nil {
					return 0, parser.Result{}, false, err
				}
				summary.EdgeCount++
			}
		}
		for _, impl := range ps.Implements {
			for _, dstID := range byName[baseIdentifier(impl)] {
				if dstID == srcID {
					continue
				}
				if _, err := store.InsertEdgeTx(tx, &types.Edge{
					RepoID: repoID, SrcType: types.NodeSymbol, SrcID: srcID,
					Rel: types.RelImplements, DstType: types.NodeSymbol, DstID: dstID,
					Weight: types.EdgeWeight(types.RelImplements),
				}); err != nil {
					return 0, parser.Result{}, false, err
				}
				summary.EdgeCount++
			}
		}
	}

	return fileID, result, warning != "", nil
}

// baseIdentifier strips an owner prefix ("Owner.Name", "Owner::Name") so a
// base-type reference can be looked up against plain symbol names.
func baseIdentifier(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
