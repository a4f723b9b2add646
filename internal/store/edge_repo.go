package store

import (
	"fmt"
	"time"

	"database/sql"

	"github.com/cindexdev/cindex/internal/types"
)

// InsertEdgeTx inserts one edge row inside tx. Edges are never mutated —
// they are re-created on re-index.
func InsertEdgeTx(tx *sql.Tx, e *types.Edge) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := tx.Exec(
		`INSERT INTO edges (repo_id, src_type, src_id, rel, dst_type, dst_id, meta_json, weight, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RepoID, e.SrcType, e.SrcID, e.Rel, e.DstType, e.DstID, nullableString(e.MetaJSON), e.Weight, e.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert edge: %w", err)
	}
	return res.LastInsertId()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const edgeCols = "id, repo_id, src_type, src_id, rel, dst_type, dst_id, meta_json, weight, created_at"

func scanEdge(row interface{ Scan(...any) error }) (*types.Edge, error) {
	e := &types.Edge{}
	var meta sql.NullString
	err := row.Scan(&e.ID, &e.RepoID, &e.SrcType, &e.SrcID, &e.Rel, &e.DstType, &e.DstID, &meta, &e.Weight, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.MetaJSON = meta.String
	return e, nil
}

// ListEdgesByRels bulk-loads every edge of a repo matching any of rels.
// Callers that need to BFS a subgraph (e.g. the graph expander)
// load once and traverse in memory rather than issuing one query per
// frontier node, mirroring the teacher's buildCallGraph bulk-load.
func (s *Store) ListEdgesByRels(repoID int64, rels []types.EdgeRel) ([]*types.Edge, error) {
	if len(rels) == 0 {
		return nil, nil
	}
	placeholders := placeholderList(len(rels))
	args := make([]any, 0, len(rels)+1)
	args = append(args, repoID)
	for _, r := range rels {
		args = append(args, r)
	}
	rows, err := s.db.Query("SELECT "+edgeCols+" FROM edges WHERE repo_id = ? AND rel IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("list edges by rels: %w", err)
	}
	defer rows.Close()
	var out []*types.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("list edges by rels: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEdgesByRepo returns every edge of a repo, used by GetNeighbours
// and testable-property checks.
func (s *Store) ListEdgesByRepo(repoID int64) ([]*types.Edge, error) {
	rows, err := s.db.Query("SELECT "+edgeCols+" FROM edges WHERE repo_id = ?", repoID)
	if err != nil {
		return nil, fmt.Errorf("list edges by repo: %w", err)
	}
	defer rows.Close()
	var out []*types.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("list edges by repo: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NodeRef identifies one endpoint of an edge, independent of which table
// it lives in.
type NodeRef struct {
	Type types.NodeKind
	ID   int64
}

func (n NodeRef) key() string { return string(n.Type) + ":" + fmt.Sprint(n.ID) }

// GetNeighbours performs a breadth-first traversal from start up to depth
// hops, guarded by a visited set so cycles terminate. When
// direction is "out" only edges whose src matches the frontier are
// followed; "in" follows dst-matches; "both" follows either.
func (s *Store) GetNeighbours(repoID int64, start []NodeRef, depth int, direction string) ([]NodeRef, []*types.Edge, error) {
	all, err := s.ListEdgesByRepo(repoID)
	if err != nil {
		return nil, nil, fmt.Errorf("get neighbours: %w", err)
	}

	bySrc := make(map[string][]*types.Edge)
	byDst := make(map[string][]*types.Edge)
	for _, e := range all {
		srcKey := NodeRef{e.SrcType, e.SrcID}.key()
		dstKey := NodeRef{e.DstType, e.DstID}.key()
		bySrc[srcKey] = append(bySrc[srcKey], e)
		byDst[dstKey] = append(byDst[dstKey], e)
	}

	visited := make(map[string]NodeRef)
	for _, n := range start {
		visited[n.key()] = n
	}
	var traversed []*types.Edge
	frontier := append([]NodeRef{}, start...)

	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []NodeRef
		for _, n := range frontier {
			var candidates []*types.Edge
			if direction == "out" || direction == "both" {
				candidates = append(candidates, bySrc[n.key()]...)
			}
			if direction == "in" || direction == "both" {
				candidates = append(candidates, byDst[n.key()]...)
			}
			for _, e := range candidates {
				other := NodeRef{e.DstType, e.DstID}
				if (NodeRef{e.SrcType, e.SrcID}) != n {
					other = NodeRef{e.SrcType, e.SrcID}
				}
				traversed = append(traversed, e)
				if _, seen := visited[other.key()]; !seen {
					visited[other.key()] = other
					next = append(next, other)
				}
			}
		}
		frontier = next
	}

	out := make([]NodeRef, 0, len(visited))
	for _, n := range visited {
		out = append(out, n)
	}
	return out, traversed, nil
}
