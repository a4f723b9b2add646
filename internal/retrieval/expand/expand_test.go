package expand

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/store"
	"github.com/cindexdev/cindex/internal/types"
)

func newTestStore(t *testing.T) (*store.Store, int64) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })

	repo, err := s.UpsertRepo("/repo")
	require.NoError(t, err)
	return s, repo.ID
}

func addFile(t *testing.T, s *store.Store, repoID int64, path string) int64 {
	t.Helper()
	f := &types.File{RepoID: repoID, Path: path, Lang: "typescript", SHA256: "h", MTime: time.Now(), LastIndexedAt: time.Now()}
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		id, err := store.InsertFileTx(tx, f)
		f.ID = id
		return err
	}))
	return f.ID
}

func addImport(t *testing.T, s *store.Store, repoID, src, dst int64) {
	t.Helper()
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		_, err := store.InsertEdgeTx(tx, &types.Edge{
			RepoID: repoID, SrcType: types.NodeFile, SrcID: src,
			Rel: types.RelImports, DstType: types.NodeFile, DstID: dst, Weight: 1.0,
		})
		return err
	}))
}

func TestExpand_ScoresByDepth(t *testing.T) {
	s, repoID := newTestStore(t)
	a := addFile(t, s, repoID, "a.ts")
	b := addFile(t, s, repoID, "b.ts")
	c := addFile(t, s, repoID, "c.ts")
	addImport(t, s, repoID, a, b)
	addImport(t, s, repoID, b, c)

	res, err := Expand(s, repoID, []int64{a}, 2)
	require.NoError(t, err)
	require.Equal(t, 5.0, res.FileScores[a])
	require.Equal(t, 3.0, res.FileScores[b])
	require.Equal(t, 1.0, res.FileScores[c])
}

func TestExpand_DoesNotExceedMaxDepth(t *testing.T) {
	s, repoID := newTestStore(t)
	a := addFile(t, s, repoID, "a.ts")
	b := addFile(t, s, repoID, "b.ts")
	c := addFile(t, s, repoID, "c.ts")
	d := addFile(t, s, repoID, "d.ts")
	addImport(t, s, repoID, a, b)
	addImport(t, s, repoID, b, c)
	addImport(t, s, repoID, c, d)

	res, err := Expand(s, repoID, []int64{a}, 2)
	require.NoError(t, err)
	_, reached := res.FileScores[d]
	require.False(t, reached)
}

func TestExpand_SymbolDestinationResolvesToOwningFile(t *testing.T) {
	s, repoID := newTestStore(t)
	a := addFile(t, s, repoID, "a.ts")
	b := addFile(t, s, repoID, "b.ts")
	sym := &types.Symbol{RepoID: repoID, FileID: b, Kind: types.KindFunction, Name: "helper", FQName: "b.ts:helper"}
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		id, err := store.InsertSymbolTx(tx, sym)
		sym.ID = id
		if err != nil {
			return err
		}
		_, err = store.InsertEdgeTx(tx, &types.Edge{RepoID: repoID, SrcType: types.NodeFile, SrcID: b, Rel: types.RelDefines, DstType: types.NodeSymbol, DstID: sym.ID, Weight: 1.0})
		if err != nil {
			return err
		}
		_, err = store.InsertEdgeTx(tx, &types.Edge{RepoID: repoID, SrcType: types.NodeFile, SrcID: a, Rel: types.RelReferences, DstType: types.NodeSymbol, DstID: sym.ID, Weight: 1.0})
		return err
	}))

	res, err := Expand(s, repoID, []int64{a}, 1)
	require.NoError(t, err)
	require.Equal(t, 3.0, res.FileScores[b])
}
