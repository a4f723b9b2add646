// Package retrieval orchestrates the full retrieval pipeline — discovery,
// expansion, ranking, snippet extraction, and bundle assembly — into the
// ContextBundle served by repo_context_get.
package retrieval

import (
	"fmt"
	"strings"

	"github.com/cindexdev/cindex/internal/retrieval/candidate"
	"github.com/cindexdev/cindex/internal/retrieval/expand"
	"github.com/cindexdev/cindex/internal/retrieval/rank"
	"github.com/cindexdev/cindex/internal/retrieval/snippet"
	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

// DefaultBudget is the token budget used when the caller doesn't specify
// one.
const DefaultBudget = 8000

const (
	seedCount       = 5
	focusFileCount  = 10
	symbolsPerFocus = 3
	maxExpandDepth  = 2
)

// Retriever assembles ContextBundles for a single indexed repo.
type Retriever struct {
	store *store.Store
}

// New creates a Retriever backed by s.
func New(s *store.Store) *Retriever {
	return &Retriever{store: s}
}

// Get runs the full pipeline for one task description and returns the
// resulting ContextBundle.
func (r *Retriever) Get(repoRoot string, repoID int64, task string, budget int, hints *types.SearchHints) (*types.ContextBundle, error) {
	if budget <= 0 {
		budget = DefaultBudget
	}

	cands, err := candidate.Discover(r.store, repoID, task, hints)
	if err != nil {
		return nil, fmt.Errorf("retrieval: discover: %w", err)
	}

	seeds := cands
	if len(seeds) > seedCount {
		seeds = seeds[:seedCount]
	}
	seedIDs := make([]int64, len(seeds))
	for i, c := range seeds {
		seedIDs[i] = c.FileID
	}

	exp, err := expand.Expand(r.store, repoID, seedIDs, maxExpandDepth)
	if err != nil {
		return nil, fmt.Errorf("retrieval: expand: %w", err)
	}

	ranked, err := rank.Rank(r.store, cands, exp)
	if err != nil {
		return nil, fmt.Errorf("retrieval: rank: %w", err)
	}

	snippets, usedEstimate := snippet.Extract(repoRoot, ranked, budget)

	top := ranked
	if len(top) > focusFileCount {
		top = top[:focusFileCount]
	}

	var focus []types.FocusItem
	topFileSet := make(map[int64]bool, len(top))
	for _, rf := range top {
		topFileSet[rf.FileID] = true
		focus = append(focus, types.FocusItem{
			Type: types.NodeFile, ID: nodeKey(types.NodeFile, rf.FileID), Path: rf.Path,
			Reason: strings.Join(rf.Reasons, "; "),
		})
		for i, sym := range rf.Symbols {
			if i >= symbolsPerFocus {
				break
			}
			focus = append(focus, types.FocusItem{
				Type: types.NodeSymbol, ID: nodeKey(types.NodeSymbol, sym.ID),
				Path: rf.Path, FQName: sym.FQName,
			})
		}
	}

	subgraph := buildSubgraph(r.store, exp, topFileSet, symbolOwnerLookup(r.store, repoID))

	return &types.ContextBundle{
		Repo:     types.RepoRef{Root: repoRoot},
		Intent:   intentFrom(task),
		Focus:    focus,
		Snippets: snippets,
		Subgraph: subgraph,
		Limits:   types.Limits{Budget: budget, UsedEstimate: usedEstimate},
	}, nil
}

func nodeKey(t types.NodeKind, id int64) string {
	return fmt.Sprintf("%s:%d", t, id)
}

// symbolOwnerLookup resolves a symbol ID to its owning file ID via the
// DEFINES edges, used only for subgraph scope determination.
func symbolOwnerLookup(s *store.Store, repoID int64) map[int64]int64 {
	defines, err := s.ListEdgesByRels(repoID, []types.EdgeRel{types.RelDefines})
	if err != nil {
		return nil
	}
	owner := make(map[int64]int64, len(defines))
	for _, e := range defines {
		if e.SrcType == types.NodeFile && e.DstType == types.NodeSymbol {
			owner[e.DstID] = e.SrcID
		}
	}
	return owner
}

func fileScopeOf(nodeType types.NodeKind, id int64, owner map[int64]int64) (int64, bool) {
	switch nodeType {
	case types.NodeFile:
		return id, true
	case types.NodeSymbol:
		f, ok := owner[id]
		return f, ok
	default:
		return 0, false
	}
}

// buildSubgraph keeps traversed edges whose src-file or dst-file is among
// the top focus files, resolving symbol endpoints to their file for scope
// determination but emitting the edges' original endpoints.
func buildSubgraph(s *store.Store, exp *expand.Result, topFiles map[int64]bool, owner map[int64]int64) types.Subgraph {
	if exp == nil {
		return types.Subgraph{}
	}

	filePathCache := make(map[int64]string)
	filePath := func(id int64) string {
		if p, ok := filePathCache[id]; ok {
			return p
		}
		p := ""
		if f, err := s.FindFileByID(id); err == nil && f != nil {
			p = f.Path
		}
		filePathCache[id] = p
		return p
	}

	var out types.Subgraph
	nodeSeen := make(map[string]bool)
	addNode := func(nodeType types.NodeKind, id int64) {
		key := nodeKey(nodeType, id)
		if nodeSeen[key] {
			return
		}
		nodeSeen[key] = true
		node := types.SubgraphNode{Type: nodeType, ID: key}
		if nodeType == types.NodeFile {
			node.Path = filePath(id)
		} else if fileID, ok := owner[id]; ok {
			node.Path = filePath(fileID)
		}
		out.Nodes = append(out.Nodes, node)
	}

	for _, e := range exp.Edges {
		srcFile, srcOK := fileScopeOf(e.SrcType, e.SrcID, owner)
		dstFile, dstOK := fileScopeOf(e.DstType, e.DstID, owner)
		if !(srcOK && topFiles[srcFile]) && !(dstOK && topFiles[dstFile]) {
			continue
		}
		addNode(e.SrcType, e.SrcID)
		addNode(e.DstType, e.DstID)
		out.Edges = append(out.Edges, types.SubgraphEdge{
			Src: nodeKey(e.SrcType, e.SrcID), Rel: e.Rel, Dst: nodeKey(e.DstType, e.DstID),
		})
	}
	return out
}

// intentFrom collapses and truncates the raw task text.
func intentFrom(task string) string {
	collapsed := strings.Join(strings.Fields(task), " ")
	if len(collapsed) <= 100 {
		return collapsed
	}
	return collapsed[:100] + "..."
}
