package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bnb-insights/internal/model"
	"github.com/Veraticus/bnb-insights/internal/storage"
)

// SetupTestStore opens a migrated run-history database at path and seeds it
// with runs. Use storage.MemoryPath for a throwaway store.
//
// Example:
//
//	store := testutil.SetupTestStore(t, path, testutil.Runs(3)...)
func SetupTestStore(t *testing.T, path string, runs ...*model.Run) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err, "failed to create test database")

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx), "failed to run migrations")

	for _, run := range runs {
		require.NoError(t, store.SaveRun(ctx, run), "failed to seed run %s", run.ID)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Runs returns n runs one hour apart, oldest first, each dropping one more
// row than the last.
func Runs(n int) []*model.Run {
	base := time.Date(2019, 7, 8, 9, 0, 0, 0, time.UTC)
	runs := make([]*model.Run, n)
	for i := 0; i < n; i++ {
		started := base.Add(time.Duration(i) * time.Hour)
		runs[i] = &model.Run{
			ID:            fmt.Sprintf("run-%02d", i+1),
			Source:        "AB_NYC_2019.csv",
			StartedAt:     started,
			FinishedAt:    started.Add(time.Second),
			RowsRead:      1000,
			RowsLoaded:    1000,
			RowsOut:       1000 - i - 1,
			PriceOutliers: i + 1,
			PriceCeiling:  799,
		}
	}
	return runs
}
