package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/model"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRun(id string, started time.Time) *model.Run {
	return &model.Run{
		ID:                 id,
		Source:             "data/AB_NYC_2019.csv",
		StartedAt:          started,
		FinishedAt:         started.Add(1500 * time.Millisecond),
		RowsRead:           48895,
		RowsLoaded:         48890,
		MalformedRows:      5,
		InvalidCoordinates: 2,
		InvalidPrices:      11,
		InvalidCounts:      3,
		PriceOutliers:      486,
		FilledHostNames:    21,
		FilledNames:        16,
		FilledReviews:      10052,
		RowsOut:            48388,
		PriceCeiling:       799,
		ReviewsAfterAsOf:   4,
	}
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_runs_started_at'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestSQLiteStorage_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.SaveRun(context.Background(), testRun("a", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(context.Background()))

	runs, err := reopened.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteStorage_SaveAndGetRun(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	started := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)

	want := testRun("7b0c6e4e-1d7e-4b8a-9a51-2f7f6b0f3f11", started)
	require.NoError(t, store.SaveRun(ctx, want))

	got, err := store.GetRun(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, *want, *got)
	assert.Equal(t, 1500*time.Millisecond, got.Duration())
	assert.Equal(t, 507, got.Dropped())
}

func TestSQLiteStorage_GetRunNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStorage_ListRuns(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.SaveRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "first", runs[2].ID)

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLiteStorage_PruneRuns(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.SaveRun(ctx, testRun(id, base.Add(time.Duration(i)*time.Minute))))
	}

	removed, err := store.PruneRuns(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "d", runs[0].ID)
	assert.Equal(t, "c", runs[1].ID)

	_, err = store.PruneRuns(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidRun)
}
