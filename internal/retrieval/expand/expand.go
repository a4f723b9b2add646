// Package expand implements the graph expansion stage of the retrieval
// pipeline: a depth-limited BFS over file nodes reached via IMPORTS and
// REFERENCES edges.
package expand

import (
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// depthScore is the fixed depth-to-score table; depths beyond it
// score 0 and are not pushed further.
var depthScore = map[int]float64{0: 5, 1: 3, 2: 1}

// Result holds every file reached by the expansion with its depth score,
// along with the edges traversed to reach the full visited set.
type Result struct {
	FileScores map[int64]float64 // file_id -> best depth score earned
	Edges      []*types.Edge     // every edge traversed during the BFS
}

// Expand performs a breadth-first expansion from seedFileIDs,
// up to maxDepth hops. Symbol endpoints resolve to their owning file;
// module endpoints are never crossed.
func Expand(s *store.Store, repoID int64, seedFileIDs []int64, maxDepth int) (*Result, error) {
	edges, err := s.ListEdgesByRels(repoID, []types.EdgeRel{types.RelImports, types.RelReferences})
	if err != nil {
		return nil, err
	}

	// Bulk-index edges by every node that can originate a traversal: a
	// file directly, or a symbol owned by that file (via DEFINES).
	defines, err := s.ListEdgesByRels(repoID, []types.EdgeRel{types.RelDefines})
	if err != nil {
		return nil, err
	}
	ownerFile := make(map[int64]int64, len(defines)) // symbol_id -> file_id
	for _, e := range defines {
		if e.SrcType == types.NodeFile && e.DstType == types.NodeSymbol {
			ownerFile[e.DstID] = e.SrcID
		}
	}

	bySrcFile := make(map[int64][]*types.Edge)
	for _, e := range edges {
		switch e.SrcType {
		case types.NodeFile:
			bySrcFile[e.SrcID] = append(bySrcFile[e.SrcID], e)
		case types.NodeSymbol:
			if owner, ok := ownerFile[e.SrcID]; ok {
				bySrcFile[owner] = append(bySrcFile[owner], e)
			}
		}
	}

	res := &Result{FileScores: make(map[int64]float64)}
	visited := make(map[int64]bool, len(seedFileIDs))
	frontier := make([]int64, 0, len(seedFileIDs))
	for _, id := range seedFileIDs {
		if !visited[id] {
			visited[id] = true
			res.FileScores[id] = depthScore[0]
			frontier = append(frontier, id)
		}
	}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []int64
		score, inTable := depthScore[depth]
		for _, fileID := range frontier {
			for _, e := range bySrcFile[fileID] {
				dstFile, ok := resolveToFile(e, ownerFile)
				if !ok {
					continue
				}
				res.Edges = append(res.Edges, e)
				if !visited[dstFile] {
					visited[dstFile] = true
					res.FileScores[dstFile] = score
					if inTable {
						next = append(next, dstFile)
					}
				}
			}
		}
		frontier = next
	}

	return res, nil
}

// resolveToFile maps an edge's destination to the file node it represents.
// A symbol destination resolves to its owning file; a module destination
// is never crossed.
func resolveToFile(e *types.Edge, ownerFile map[int64]int64) (int64, bool) {
	switch e.DstType {
	case types.NodeFile:
		return e.DstID, true
	case types.NodeSymbol:
		owner, ok := ownerFile[e.DstID]
		return owner, ok
	default:
		return 0, false
	}
}
