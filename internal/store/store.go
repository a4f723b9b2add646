// Package store is the embedded relational+FTS persistence layer. One
// physical SQLite file serves many repositories, keyed by
// repo_id. Modeled on the teacher's internal/store package: a thin
// *sql.DB wrapper, a schema migration run on open, and one file of typed
// operations per entity.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for cindex's graph and FTS tables.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode, foreign keys,
// and a busy timeout so concurrent readers and a single writer can share
// the file.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB, for callers that need raw access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates every table, virtual table, and index. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error or panic, so no partially-written graph state is
// visible after a failed batch.
func (s *Store) WithTx(fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// DeleteFileData removes every symbol, edge, and FTS row belonging to a
// file, inside one transaction, in FK-safe order.
// It does not delete the file row itself; callers needing that also run
// "DELETE FROM files WHERE id = ?" inside the same transaction.
func (s *Store) DeleteFileData(tx *sql.Tx, repoID, fileID int64) error {
	symbolIDs, err := symbolIDsForFileTx(tx, fileID)
	if err != nil {
		return fmt.Errorf("delete file data: list symbols: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM edges WHERE repo_id = ? AND (
		    (src_type = 'file' AND src_id = ?) OR (dst_type = 'file' AND dst_id = ?)
		 )`, repoID, fileID, fileID); err != nil {
		return fmt.Errorf("delete file data: delete file edges: %w", err)
	}

	if len(symbolIDs) > 0 {
		placeholders := placeholderList(len(symbolIDs))
		args := int64sToArgs(symbolIDs)
		q := fmt.Sprintf(
			`DELETE FROM edges WHERE repo_id = ? AND (
			    (src_type = 'symbol' AND src_id IN (%s)) OR (dst_type = 'symbol' AND dst_id IN (%s))
			 )`, placeholders, placeholders)
		allArgs := append([]any{repoID}, append(append([]any{}, args...), args...)...)
		if _, err := tx.Exec(q, allArgs...); err != nil {
			return fmt.Errorf("delete file data: delete symbol edges: %w", err)
		}

		if _, err := tx.Exec(
			"DELETE FROM search_entries WHERE repo_id = ? AND entity_type = 'symbol' AND entity_id IN ("+placeholders+")",
			append([]any{repoID}, args...)...,
		); err != nil {
			return fmt.Errorf("delete file data: delete symbol fts rows: %w", err)
		}
	}

	if _, err := tx.Exec(
		"DELETE FROM search_entries WHERE repo_id = ? AND entity_type = 'file' AND entity_id = ?",
		repoID, fileID,
	); err != nil {
		return fmt.Errorf("delete file data: delete file fts row: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM symbols WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("delete file data: delete symbols: %w", err)
	}

	return nil
}

func symbolIDsForFileTx(tx *sql.Tx, fileID int64) ([]int64, error) {
	rows, err := tx.Query("SELECT id FROM symbols WHERE file_id = ?", fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
