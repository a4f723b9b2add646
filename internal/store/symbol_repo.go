package store

import (
	"database/sql"
	"fmt"

	"github.com/cindexdev/cindex/internal/types"
)

const symbolCols = "id, repo_id, file_id, kind, name, fq_name, signature, start_line, start_col, end_line, end_col"

func scanSymbol(row interface{ Scan(...any) error }) (*types.Symbol, error) {
	sym := &types.Symbol{}
	var signature sql.NullString
	err := row.Scan(&sym.ID, &sym.RepoID, &sym.FileID, &sym.Kind, &sym.Name, &sym.FQName,
		&signature, &sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sym.Signature = signature.String
	return sym, nil
}

// InsertSymbolTx inserts one symbol row inside tx.
func InsertSymbolTx(tx *sql.Tx, sym *types.Symbol) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO symbols (repo_id, file_id, kind, name, fq_name, signature, start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.RepoID, sym.FileID, sym.Kind, sym.Name, sym.FQName, sym.Signature,
		sym.StartLine, sym.StartCol, sym.EndLine, sym.EndCol,
	)
	if err != nil {
		return 0, fmt.Errorf("insert symbol %q: %w", sym.Name, err)
	}
	return res.LastInsertId()
}

// ListSymbolsByFile returns every symbol defined in a file.
func (s *Store) ListSymbolsByFile(fileID int64) ([]*types.Symbol, error) {
	rows, err := s.db.Query("SELECT "+symbolCols+" FROM symbols WHERE file_id = ?", fileID)
	if err != nil {
		return nil, fmt.Errorf("list symbols by file: %w", err)
	}
	defer rows.Close()
	var out []*types.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("list symbols by file: scan: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// FindSymbolsByName returns every symbol in a repo with an exact name match.
func (s *Store) FindSymbolsByName(repoID int64, name string) ([]*types.Symbol, error) {
	rows, err := s.db.Query("SELECT "+symbolCols+" FROM symbols WHERE repo_id = ? AND name = ?", repoID, name)
	if err != nil {
		return nil, fmt.Errorf("find symbols by name: %w", err)
	}
	defer rows.Close()
	var out []*types.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("find symbols by name: scan: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// FindSymbolByFQName returns the symbol with the given fully-qualified
// name, or nil. fq_name is stable across re-indexings.
func (s *Store) FindSymbolByFQName(repoID int64, fqName string) (*types.Symbol, error) {
	sym, err := scanSymbol(s.db.QueryRow("SELECT "+symbolCols+" FROM symbols WHERE repo_id = ? AND fq_name = ?", repoID, fqName))
	if err != nil {
		return nil, fmt.Errorf("find symbol by fq_name: %w", err)
	}
	return sym, nil
}

// FindSymbolByID looks up a symbol by primary key.
func (s *Store) FindSymbolByID(symbolID int64) (*types.Symbol, error) {
	sym, err := scanSymbol(s.db.QueryRow("SELECT "+symbolCols+" FROM symbols WHERE id = ?", symbolID))
	if err != nil {
		return nil, fmt.Errorf("find symbol by id: %w", err)
	}
	return sym, nil
}
