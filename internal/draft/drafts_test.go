package draft

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) (*Repo, *sql.DB) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db, "migrations"))
	return NewRepo(db), db
}

func TestSaveAndGet(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	d := Draft{ID: "d1", Name: "mainnet setup", Snapshot: []byte(`{"chains":[]}`)}
	require.NoError(t, repo.Save(ctx, d))

	got, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "mainnet setup", got.Name)
	require.Equal(t, []byte(`{"chains":[]}`), got.Snapshot)
	require.False(t, got.CreatedAt.IsZero())
}

func TestSaveUpsertsSnapshot(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, Draft{ID: "d1", Name: "v1", Snapshot: []byte("one")}))
	require.NoError(t, repo.Save(ctx, Draft{ID: "d1", Name: "v2", Snapshot: []byte("two")}))

	got, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, "v2", got.Name)
	require.Equal(t, []byte("two"), got.Snapshot)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSaveRequiresIDAndName(t *testing.T) {
	repo, _ := testRepo(t)
	require.Error(t, repo.Save(context.Background(), Draft{Name: "no id"}))
	require.Error(t, repo.Save(context.Background(), Draft{ID: "no-name"}))
}

func TestGetMissing(t *testing.T) {
	repo, _ := testRepo(t)
	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, Draft{ID: "d1", Name: "x", Snapshot: []byte("{}")}))
	require.NoError(t, repo.Delete(ctx, "d1"))
	require.ErrorIs(t, repo.Delete(ctx, "d1"), ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	_, db := testRepo(t)
	require.NoError(t, RunMigrations(db, "migrations"))
}
