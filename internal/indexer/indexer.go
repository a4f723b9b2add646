// Package indexer orchestrates the two-pass indexing pipeline: walk,
// hash, parse, and write the graph and FTS tables inside batched
// transactions, then resolve cross-file imports in a further pass.
package indexer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cindexdev/cindex/internal/hasher"
	"github.com/cindexdev/cindex/internal/parser"
	"github.com/cindexdev/cindex/internal/resolver"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
	"github.com/cindexdev/cindex/internal/walker"
)

// batchSize is the number of files written per transaction during the
// first pass.
const batchSize = 50

// ErrNotIndexed is returned by an incremental run against a repo root
// that has never been fully indexed.
var ErrNotIndexed = errors.New("indexer: repo not yet indexed")

// Indexer runs full and incremental index passes against a Store.
type Indexer struct {
	store *store.Store
}

// New creates an Indexer backed by s.
func New(s *store.Store) *Indexer {
	return &Indexer{store: s}
}

// Run executes one index pass. mode selects full vs incremental; level is
// recorded on the summary but has no behavioural effect.
func (ix *Indexer) Run(root string, mode types.IndexMode, level int) (*types.IndexSummary, error) {
	switch mode {
	case types.ModeFull:
		return ix.runFull(root, level)
	case types.ModeIncremental:
		return ix.runIncremental(root, level)
	default:
		return nil, fmt.Errorf("indexer: unknown mode %q", mode)
	}
}

// loadedFile pairs a discovered file with its content, read once outside
// any transaction.
type loadedFile struct {
	df      types.DiscoveredFile
	content []byte
}

// pendingImport carries one file's parsed imports forward to the second
// pass, after the file (and its ID) has been committed.
type pendingImport struct {
	fileID  int64
	path    string
	absPath string
	imports []parser.ParsedImport
}

func loadContents(discovered []types.DiscoveredFile, summary *types.IndexSummary) []loadedFile {
	out := make([]loadedFile, 0, len(discovered))
	for _, d := range discovered {
		content, err := os.ReadFile(d.AbsolutePath)
		if err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("read %s: %v", d.Path, err))
			summary.FilesSkipped++
			continue
		}
		d.SHA256 = hasher.SumBytes(content)
		out = append(out, loadedFile{df: d, content: content})
	}
	return out
}

func (ix *Indexer) runFull(root string, level int) (*types.IndexSummary, error) {
	start := time.Now()
	repo, err := ix.store.UpsertRepo(root)
	if err != nil {
		return nil, fmt.Errorf("indexer: full run: %w", err)
	}

	summary := &types.IndexSummary{RepoID: repo.ID, Mode: types.ModeFull, Level: level}

	discovered, err := walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("indexer: full run: walk: %w", err)
	}
	files := loadContents(discovered, summary)

	var pending []pendingImport
	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]
		err := ix.store.WithTx(func(tx *sql.Tx) error {
			for _, f := range batch {
				if existing, err := ix.store.FindFileByPath(repo.ID, f.df.Path); err != nil {
					return err
				} else if existing != nil {
					if err := ix.store.DeleteFileData(tx, repo.ID, existing.ID); err != nil {
						return err
					}
					if err := store.DeleteFileRowTx(tx, existing.ID); err != nil {
						return err
					}
				}
				fileID, result, warned, err := indexOneFile(tx, repo.ID, f.df, f.content, summary)
				if err != nil {
					return err
				}
				pending = append(pending, pendingImport{fileID, f.df.Path, f.df.AbsolutePath, result.Imports})
				if warned {
					summary.FilesSkipped++
				} else {
					summary.FilesIndexed++
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("indexer: full run: batch write: %w", err)
		}
	}

	if err := ix.resolveImports(repo.ID, root, pending, summary); err != nil {
		return nil, fmt.Errorf("indexer: full run: resolve imports: %w", err)
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	return summary, nil
}

func (ix *Indexer) runIncremental(root string, level int) (*types.IndexSummary, error) {
	start := time.Now()
	repo, err := ix.store.FindRepoByPath(root)
	if err != nil {
		return nil, fmt.Errorf("indexer: incremental run: %w", err)
	}
	if repo == nil {
		return nil, ErrNotIndexed
	}

	summary := &types.IndexSummary{RepoID: repo.ID, Mode: types.ModeIncremental, Level: level}

	discovered, err := walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("indexer: incremental run: walk: %w", err)
	}
	files := loadContents(discovered, summary)
	byPath := make(map[string]loadedFile, len(files))
	valid := make([]types.DiscoveredFile, 0, len(files))
	for _, f := range files {
		byPath[f.df.Path] = f
		valid = append(valid, f.df)
	}

	changed, err := ix.store.FindChanged(repo.ID, valid)
	if err != nil {
		return nil, fmt.Errorf("indexer: incremental run: find changed: %w", err)
	}

	type item struct {
		lf          loadedFile
		wasExisting bool
	}
	var items []item
	for _, d := range changed.New {
		items = append(items, item{lf: byPath[d.Path]})
	}
	for _, d := range changed.Changed {
		items = append(items, item{lf: byPath[d.Path], wasExisting: true})
	}

	var pending []pendingImport
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[i:end]
		err := ix.store.WithTx(func(tx *sql.Tx) error {
			for _, it := range batch {
				if it.wasExisting {
					existing, err := ix.store.FindFileByPath(repo.ID, it.lf.df.Path)
					if err != nil {
						return err
					}
					if existing != nil {
						if err := ix.store.DeleteFileData(tx, repo.ID, existing.ID); err != nil {
							return err
						}
						if err := store.DeleteFileRowTx(tx, existing.ID); err != nil {
							return err
						}
					}
				}
				fileID, result, warned, err := indexOneFile(tx, repo.ID, it.lf.df, it.lf.content, summary)
				if err != nil {
					return err
				}
				pending = append(pending, pendingImport{fileID, it.lf.df.Path, it.lf.df.AbsolutePath, result.Imports})
				if warned {
					summary.FilesSkipped++
				} else {
					summary.FilesIndexed++
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("indexer: incremental run: batch write: %w", err)
		}
	}

	for i := 0; i < len(changed.Deleted); i += batchSize {
		end := i + batchSize
		if end > len(changed.Deleted) {
			end = len(changed.Deleted)
		}
		batch := changed.Deleted[i:end]
		err := ix.store.WithTx(func(tx *sql.Tx) error {
			for _, f := range batch {
				if err := ix.store.DeleteFileData(tx, repo.ID, f.ID); err != nil {
					return err
				}
				if err := store.DeleteFileRowTx(tx, f.ID); err != nil {
					return err
				}
				summary.FilesDeleted++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("indexer: incremental run: delete batch: %w", err)
		}
	}

	if err := ix.resolveImports(repo.ID, root, pending, summary); err != nil {
		return nil, fmt.Errorf("indexer: incremental run: resolve imports: %w", err)
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	return summary, nil
}

// resolveImports is the second pass: resolve every import of every
// pending file and write file-to-file IMPORTS edges, skipping
// self-imports and anything that doesn't resolve.
func (ix *Indexer) resolveImports(repoID int64, root string, pending []pendingImport, summary *types.IndexSummary) error {
	if len(pending) == 0 {
		return nil
	}
	return ix.store.WithTx(func(tx *sql.Tx) error {
		for _, p := range pending {
			for _, imp := range p.imports {
				targetPath, ok := resolver.Resolve(imp.Source, p.absPath, root)
				if !ok || targetPath == p.path {
					continue
				}
				target, err := ix.store.FindFileByPath(repoID, targetPath)
				if err != nil {
					return err
				}
				if target == nil || target.ID == p.fileID {
					continue
				}
				meta, err := json.Marshal(struct {
					Names      []string `json:"names"`
					IsTypeOnly bool     `json:"isTypeOnly"`
				}{Names: imp.Names, IsTypeOnly: imp.IsTypeOnly})
				if err != nil {
					return err
				}
				if _, err := store.InsertEdgeTx(tx, &types.Edge{
					RepoID: repoID, SrcType: types.NodeFile, SrcID: p.fileID,
					Rel: types.RelImports, DstType: types.NodeFile, DstID: target.ID,
					MetaJSON: string(meta), Weight: types.EdgeWeight(types.RelImports),
				}); err != nil {
					return err
				}
				summary.EdgeCount++
			}
		}
		return nil
	})
}
