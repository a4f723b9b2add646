package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func addFile(t *testing.T, s *Store, repoID int64, path string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		var err error
		id, err = InsertFileTx(tx, &types.File{
			RepoID: repoID, Path: path, Lang: "typescript", SHA256: "h",
			MTime: time.Now().UTC(), LastIndexedAt: time.Now().UTC(),
		})
		return err
	}))
	return id
}

func addSymbol(t *testing.T, s *Store, repoID, fileID int64, name string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		var err error
		id, err = InsertSymbolTx(tx, &types.Symbol{
			RepoID: repoID, FileID: fileID, Kind: types.KindFunction,
			Name: name, FQName: "f.ts:" + name,
			StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1,
		})
		return err
	}))
	return id
}

func TestMigrate_IsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	repo, err := s.UpsertRepo("/repo")
	require.NoError(t, err)

	wantErr := assert.AnError
	err = s.WithTx(func(tx *sql.Tx) error {
		if _, err := InsertFileTx(tx, &types.File{
			RepoID: repo.ID, Path: "a.ts", Lang: "typescript", SHA256: "h",
			MTime: time.Now().UTC(), LastIndexedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	f, err := s.FindFileByPath(repo.ID, "a.ts")
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestDeleteFileData_CascadesSymbolsEdgesAndFTS(t *testing.T) {
	s := newTestStore(t)
	repo, err := s.UpsertRepo("/repo")
	require.NoError(t, err)

	a := addFile(t, s, repo.ID, "a.ts")
	b := addFile(t, s, repo.ID, "b.ts")
	symA := addSymbol(t, s, repo.ID, a, "helper")

	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		if err := UpsertSearchEntryTx(tx, repo.ID, types.NodeFile, a, "a.ts"); err != nil {
			return err
		}
		if err := UpsertSearchEntryTx(tx, repo.ID, types.NodeSymbol, symA, "helper a.ts:helper"); err != nil {
			return err
		}
		if _, err := InsertEdgeTx(tx, &types.Edge{
			RepoID: repo.ID, SrcType: types.NodeFile, SrcID: a,
			Rel: types.RelDefines, DstType: types.NodeSymbol, DstID: symA, Weight: 1.0,
		}); err != nil {
			return err
		}
		// Edge from another file pointing at a's symbol must cascade too.
		_, err := InsertEdgeTx(tx, &types.Edge{
			RepoID: repo.ID, SrcType: types.NodeFile, SrcID: b,
			Rel: types.RelReferences, DstType: types.NodeSymbol, DstID: symA, Weight: 1.0,
		})
		return err
	}))

	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		if err := s.DeleteFileData(tx, repo.ID, a); err != nil {
			return err
		}
		return DeleteFileRowTx(tx, a)
	}))

	symbols, err := s.ListSymbolsByFile(a)
	require.NoError(t, err)
	assert.Empty(t, symbols)

	edges, err := s.ListEdgesByRepo(repo.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)

	hits, err := s.Search(repo.ID, `"helper"`, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindChanged_BucketsNewChangedDeleted(t *testing.T) {
	s := newTestStore(t)
	repo, err := s.UpsertRepo("/repo")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		for _, p := range []string{"same.ts", "hash.ts", "mtime.ts", "gone.ts"} {
			if _, err := InsertFileTx(tx, &types.File{
				RepoID: repo.ID, Path: p, Lang: "typescript", SHA256: "old",
				MTime: now, LastIndexedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	}))

	changed, err := s.FindChanged(repo.ID, []types.DiscoveredFile{
		{Path: "same.ts", SHA256: "old", MTime: now},
		{Path: "hash.ts", SHA256: "new", MTime: now},
		{Path: "mtime.ts", SHA256: "old", MTime: now.Add(time.Minute)},
		{Path: "fresh.ts", SHA256: "x", MTime: now},
	})
	require.NoError(t, err)

	require.Len(t, changed.New, 1)
	assert.Equal(t, "fresh.ts", changed.New[0].Path)

	var changedPaths []string
	for _, d := range changed.Changed {
		changedPaths = append(changedPaths, d.Path)
	}
	assert.ElementsMatch(t, []string{"hash.ts", "mtime.ts"}, changedPaths)

	require.Len(t, changed.Deleted, 1)
	assert.Equal(t, "gone.ts", changed.Deleted[0].Path)
}

func TestGetNeighbours_BFSWithVisitedGuard(t *testing.T) {
	s := newTestStore(t)
	repo, err := s.UpsertRepo("/repo")
	require.NoError(t, err)

	a := addFile(t, s, repo.ID, "a.ts")
	b := addFile(t, s, repo.ID, "b.ts")
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		// a <-> b cycle must terminate via the visited set.
		if _, err := InsertEdgeTx(tx, &types.Edge{
			RepoID: repo.ID, SrcType: types.NodeFile, SrcID: a,
			Rel: types.RelImports, DstType: types.NodeFile, DstID: b, Weight: 1.0,
		}); err != nil {
			return err
		}
		_, err := InsertEdgeTx(tx, &types.Edge{
			RepoID: repo.ID, SrcType: types.NodeFile, SrcID: b,
			Rel: types.RelImports, DstType: types.NodeFile, DstID: a, Weight: 1.0,
		})
		return err
	}))

	nodes, edges, err := s.GetNeighbours(repo.ID, []NodeRef{{types.NodeFile, a}}, 3, "out")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.NotEmpty(t, edges)
}
