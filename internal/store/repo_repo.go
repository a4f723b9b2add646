package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cindexdev/cindex/internal/types"
)

// UpsertRepo creates the repo row on first index, or touches updated_at on
// subsequent runs. Repo rows are never deleted here.
func (s *Store) UpsertRepo(rootPath string) (*types.Repo, error) {
	now := time.Now().UTC()
	existing, err := s.FindRepoByPath(rootPath)
	if err != nil {
		return nil, fmt.Errorf("upsert repo: %w", err)
	}
	if existing != nil {
		if _, err := s.db.Exec("UPDATE repos SET updated_at = ? WHERE id = ?", now, existing.ID); err != nil {
			return nil, fmt.Errorf("upsert repo: touch: %w", err)
		}
		existing.UpdatedAt = now
		return existing, nil
	}

	res, err := s.db.Exec(
		"INSERT INTO repos (root_path, created_at, updated_at) VALUES (?, ?, ?)",
		rootPath, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert repo: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("upsert repo: last insert id: %w", err)
	}
	return &types.Repo{ID: id, RootPath: rootPath, CreatedAt: now, UpdatedAt: now}, nil
}

// FindRepoByPath returns the repo at rootPath, or nil if not yet indexed.
func (s *Store) FindRepoByPath(rootPath string) (*types.Repo, error) {
	row := s.db.QueryRow(
		"SELECT id, root_path, created_at, updated_at FROM repos WHERE root_path = ?", rootPath,
	)
	r := &types.Repo{}
	err := row.Scan(&r.ID, &r.RootPath, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find repo by path: %w", err)
	}
	return r, nil
}
