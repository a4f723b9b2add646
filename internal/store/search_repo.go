package store

import (
	"database/sql"
	"fmt"

	"github.com/cindexdev/cindex/internal/types"
)

// UpsertSearchEntryTx replaces the FTS row for one entity. Entries are
// delete-then-insert like everything else derived from source text, since
// FTS5 has no native UPSERT.
func UpsertSearchEntryTx(tx *sql.Tx, repoID int64, entityType types.NodeKind, entityID int64, text string) error {
	if _, err := tx.Exec(
		"DELETE FROM search_entries WHERE repo_id = ? AND entity_type = ? AND entity_id = ?",
		repoID, entityType, entityID,
	); err != nil {
		return fmt.Errorf("upsert search entry: delete: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO search_entries (repo_id, entity_type, entity_id, text) VALUES (?, ?, ?, ?)",
		repoID, entityType, entityID, text,
	); err != nil {
		return fmt.Errorf("upsert search entry: insert: %w", err)
	}
	return nil
}

// DeleteSearchEntriesTx removes every FTS row for an entity, used when a
// file or symbol is deleted ahead of re-indexing.
func DeleteSearchEntriesTx(tx *sql.Tx, repoID int64, entityType types.NodeKind, entityID int64) error {
	_, err := tx.Exec(
		"DELETE FROM search_entries WHERE repo_id = ? AND entity_type = ? AND entity_id = ?",
		repoID, entityType, entityID,
	)
	if err != nil {
		return fmt.Errorf("delete search entries: %w", err)
	}
	return nil
}

// SearchHit is one FTS match, ranked by SQLite's bm25 rank (lower is
// better; negative in practice).
type SearchHit struct {
	EntityType types.NodeKind
	EntityID   int64
	Rank       float64
	Text       string
}

// Search runs a pre-sanitized FTS5 MATCH query and returns hits ordered by
// rank. Any engine error (malformed query syntax that slipped past
// sanitization) is trapped and surfaced as zero results rather than
// propagated — a broken query must never fail the whole retrieval
// pipeline.
func (s *Store) Search(repoID int64, ftsQuery string, limit int) ([]SearchHit, error) {
	if ftsQuery == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT entity_type, entity_id, text, bm25(search_entries) AS rank
		 FROM search_entries
		 WHERE repo_id = ? AND search_entries MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		repoID, ftsQuery, limit,
	)
	if err != nil {
		return nil, nil
	}
	defer rows.Close()
	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.EntityType, &h.EntityID, &h.Text, &h.Rank); err != nil {
			return nil, nil
		}
		out = append(out, h)
	}
	if rows.Err() != nil {
		return nil, nil
	}
	return out, nil
}
