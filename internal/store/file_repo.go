package store

import (
	"database/sql"
	"fmt"

	"github.com/cindexdev/cindex/internal/types"
)

const fileCols = "id, repo_id, path, lang, sha256, mtime, size_bytes, last_indexed_at"

func scanFile(row interface{ Scan(...any) error }) (*types.File, error) {
	f := &types.File{}
	err := row.Scan(&f.ID, &f.RepoID, &f.Path, &f.Lang, &f.SHA256, &f.MTime, &f.SizeBytes, &f.LastIndexedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// InsertFileTx inserts a new file row inside tx, returning its ID. Callers
// must have already verified no row exists for (repo_id, path) — the
// indexer always deletes-then-inserts on re-parse.
func InsertFileTx(tx *sql.Tx, f *types.File) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO files (repo_id, path, lang, sha256, mtime, size_bytes, last_indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.RepoID, f.Path, f.Lang, f.SHA256, f.MTime, f.SizeBytes, f.LastIndexedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	return res.LastInsertId()
}

// DeleteFileRowTx removes the file row itself. Call DeleteFileData first to
// clean up dependents within the same transaction.
func DeleteFileRowTx(tx *sql.Tx, fileID int64) error {
	_, err := tx.Exec("DELETE FROM files WHERE id = ?", fileID)
	if err != nil {
		return fmt.Errorf("delete file row: %w", err)
	}
	return nil
}

// FindFileByPath looks up a file by its repo-relative path.
func (s *Store) FindFileByPath(repoID int64, path string) (*types.File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE repo_id = ? AND path = ?", repoID, path))
	if err != nil {
		return nil, fmt.Errorf("find file by path: %w", err)
	}
	return f, nil
}

// FindFileByID looks up a file by primary key.
func (s *Store) FindFileByID(fileID int64) (*types.File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE id = ?", fileID))
	if err != nil {
		return nil, fmt.Errorf("find file by id: %w", err)
	}
	return f, nil
}

// ListFiles returns every file indexed for a repo.
func (s *Store) ListFiles(repoID int64) ([]*types.File, error) {
	rows, err := s.db.Query("SELECT "+fileCols+" FROM files WHERE repo_id = ?", repoID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	var out []*types.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("list files: scan: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CountFiles returns the total file count and a per-language breakdown,
// used by repo_status.
func (s *Store) CountFiles(repoID int64) (total int, byLang map[string]int, err error) {
	rows, err := s.db.Query("SELECT lang, COUNT(*) FROM files WHERE repo_id = ? GROUP BY lang", repoID)
	if err != nil {
		return 0, nil, fmt.Errorf("count files: %w", err)
	}
	defer rows.Close()
	byLang = make(map[string]int)
	for rows.Next() {
		var lang string
		var n int
		if err := rows.Scan(&lang, &n); err != nil {
			return 0, nil, fmt.Errorf("count files: scan: %w", err)
		}
		byLang[lang] = n
		total += n
	}
	return total, byLang, rows.Err()
}

// CountSymbols returns the total symbol count for a repo.
func (s *Store) CountSymbols(repoID int64) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM symbols WHERE repo_id = ?", repoID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	return n, nil
}

// CountEdges returns the total edge count for a repo.
func (s *Store) CountEdges(repoID int64) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM edges WHERE repo_id = ?", repoID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count edges: %w", err)
	}
	return n, nil
}

// LastIndexedAt returns the most recent last_indexed_at across a repo's
// files, or an invalid NullTime if the repo has none.
func (s *Store) LastIndexedAt(repoID int64) (t sql.NullTime, err error) {
	err = s.db.QueryRow(
		"SELECT last_indexed_at FROM files WHERE repo_id = ? ORDER BY last_indexed_at DESC LIMIT 1",
		repoID,
	).Scan(&t)
	if err == sql.ErrNoRows {
		return sql.NullTime{}, nil
	}
	if err != nil {
		return t, fmt.Errorf("last indexed at: %w", err)
	}
	return t, nil
}

// FindChanged buckets currently-discovered files against what's stored.
// Change detection is computed here and nowhere else.
func (s *Store) FindChanged(repoID int64, discovered []types.DiscoveredFile) (*types.ChangedFiles, error) {
	stored, err := s.ListFiles(repoID)
	if err != nil {
		return nil, fmt.Errorf("find changed: %w", err)
	}
	storedByPath := make(map[string]*types.File, len(stored))
	for _, f := range stored {
		storedByPath[f.Path] = f
	}

	seen := make(map[string]bool, len(discovered))
	result := &types.ChangedFiles{}
	for _, d := range discovered {
		seen[d.Path] = true
		existing, ok := storedByPath[d.Path]
		if !ok {
			result.New = append(result.New, d)
			continue
		}
		if existing.SHA256 != d.SHA256 || !existing.MTime.Equal(d.MTime) {
			result.Changed = append(result.Changed, d)
		}
	}
	for _, f := range stored {
		if !seen[f.Path] {
			result.Deleted = append(result.Deleted, *f)
		}
	}
	return result, nil
}
