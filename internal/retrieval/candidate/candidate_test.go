package candidate

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

func withFile(t *testing.T, s *store.Store, repoID int64, path string, text *string) *types.File {
	t.Helper()
	f := &types.File{RepoID: repoID, Path: path, Lang: "typescript", SHA256: "h", MTime: time.Now(), LastIndexedAt: time.Now()}
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		id, err := store.InsertFileTx(tx, f)
		if err != nil {
			return err
		}
		f.ID = id
		if text != nil {
			return store.UpsertSearchEntryTx(tx, repoID, types.NodeFile, id, *text)
		}
		return nil
	}))
	return f
}

func withSymbol(t *testing.T, s *store.Store, repoID, fileID int64, name string) *types.Symbol {
	t.Helper()
	sym := &types.Symbol{RepoID: repoID, FileID: fileID, Kind: types.KindFunction, Name: name, FQName: name}
	require.NoError(t, s.WithTx(func(tx *sql.Tx) error {
		id, err := store.InsertSymbolTx(tx, sym)
		if err != nil {
			return err
		}
		sym.ID = id
		return nil
	}))
	return sym
}

func TestDiscover_HintPathScoresTen(t *testing.T) {
	s, repoID := newTestStore(t)
	withFile(t, s, repoID, "src/auth.ts", nil)

	cands, err := Discover(s, repoID, "fix the login bug", &types.SearchHints{Paths: []string{"src/auth.ts"}})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, 10.0, cands[0].Score)
	require.Contains(t, cands[0].Reason, "hint:path")
}

func TestDiscover_PathInTaskText(t *testing.T) {
	s, repoID := newTestStore(t)
	withFile(t, s, repoID, "src/widgets/Button.tsx", nil)

	cands, err := Discover(s, repoID, "update src/widgets/Button.tsx to add a prop", nil)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, 8.0, cands[0].Score)
}

func TestDiscover_CamelCaseSymbolMatch(t *testing.T) {
	s, repoID := newTestStore(t)
	f := withFile(t, s, repoID, "src/widgets/Button.tsx", nil)
	withSymbol(t, s, repoID, f.ID, "RenderButton")

	cands, err := Discover(s, repoID, "RenderButton is slow", nil)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, 6.0, cands[0].Score)
	require.Equal(t, "camelcase-match", cands[0].Reason)
}

func TestDiscover_FullTextSearchFallback(t *testing.T) {
	s, repoID := newTestStore(t)
	text := "handles password reset tokens"
	withFile(t, s, repoID, "src/reset.ts", &text)

	cands, err := Discover(s, repoID, "where are password reset tokens generated", nil)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Equal(t, "fts-match", cands[0].Reason)
	require.GreaterOrEqual(t, cands[0].Score, 1.0)
	require.LessOrEqual(t, cands[0].Score, 5.0)
}
