package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "freeclaim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db.Pool))
}

func TestRecordAndListClaims(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, RecordClaims(ctx, db.Pool, []Claim{
		{Title: "Zebra Game", URL: "https://x.test/z", Source: "epic", ClaimedAt: base},
		{Title: "alpha game", URL: "https://x.test/a", Source: "steam", ClaimedAt: base.Add(time.Hour)},
	}))

	alpha, err := ListClaims(ctx, db.Pool, "alpha", 0)
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	assert.Equal(t, "alpha game", alpha[0].Title)

	newest, err := ListClaims(ctx, db.Pool, "newest", 0)
	require.NoError(t, err)
	assert.Equal(t, "alpha game", newest[0].Title)

	oldest, err := ListClaims(ctx, db.Pool, "oldest", 0)
	require.NoError(t, err)
	assert.Equal(t, "Zebra Game", oldest[0].Title)
	assert.Equal(t, "epic", oldest[0].Source)
	assert.True(t, oldest[0].ClaimedAt.Equal(base))
}

func TestUnknownViewFallsBackToAlpha(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, RecordClaims(ctx, db.Pool, []Claim{
		{Title: "b"}, {Title: "a"},
	}))

	got, err := ListClaims(ctx, db.Pool, "sneaky; DROP TABLE claims", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
}

func TestRecordEmptyIsNoop(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RecordClaims(context.Background(), db.Pool, nil))
}

func TestClearClaims(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, RecordClaims(ctx, db.Pool, []Claim{{Title: "x"}}))
	require.NoError(t, ClearClaims(ctx, db.Pool))

	got, err := ListClaims(ctx, db.Pool, "alpha", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
