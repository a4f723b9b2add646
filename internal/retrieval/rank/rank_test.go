package rank

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cindexdev/cindex/internal/retrieval/candidate"
	"github.com/cindexdev/cindex/internal/retrieval/expand"
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

func TestRank_SumsScoresAndAppliesEntryPointBonus(t *testing.T) {
	s, repoID := newTestStore(t)
	routeFile := addFile(t, s, repoID, "src/routes/users.ts")
	otherFile := addFile(t, s, repoID, "src/util.ts")

	cands := []candidate.Candidate{
		{FileID: routeFile, Path: "src/routes/users.ts", Score: 8, Reason: "path-in-task"},
		{FileID: otherFile, Path: "src/util.ts", Score: 6, Reason: "camelcase-match"},
	}
	exp := &expand.Result{FileScores: map[int64]float64{routeFile: 3, otherFile: 5}}

	ranked, err := Rank(s, cands, exp)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	require.Equal(t, routeFile, ranked[0].FileID)
	require.Equal(t, 14.0, ranked[0].Score) // 8 + 3 + 3 bonus
	require.Equal(t, otherFile, ranked[1].FileID)
	require.Equal(t, 11.0, ranked[1].Score) // 6 + 5, no bonus
}

func TestRank_ExpansionOnlyFileIsIncluded(t *testing.T) {
	s, repoID := newTestStore(t)
	f := addFile(t, s, repoID, "src/lib.ts")

	exp := &expand.Result{FileScores: map[int64]float64{f: 1}}
	ranked, err := Rank(s, nil, exp)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	require.Equal(t, 1.0, ranked[0].Score)
}
