package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/bnb-insights/internal/model"
)

const runColumns = `id, source, started_at, finished_at, rows_read, rows_loaded,
	malformed_rows, coerced_dates, invalid_coordinates, invalid_prices,
	price_outliers, filled_host_names, filled_names, filled_reviews, rows_out,
	price_ceiling, invalid_counts, reviews_after_as_of`

// SaveRun inserts or replaces a run audit.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Source, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.RowsRead, run.RowsLoaded, run.MalformedRows, run.CoercedDates,
		run.InvalidCoordinates, run.InvalidPrices, run.PriceOutliers,
		run.FilledHostNames, run.FilledNames, run.FilledReviews, run.RowsOut,
		run.PriceCeiling, run.InvalidCounts, run.ReviewsAfterAsOf,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun returns one run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns all runs.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were
// removed.
func (s *SQLiteStorage) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if keep < 0 {
		return 0, fmt.Errorf("%w: keep must not be negative", ErrInvalidRun)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, id LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*model.Run, error) {
	var (
		run               model.Run
		started, finished time.Time
	)
	err := sc.Scan(
		&run.ID, &run.Source, &started, &finished,
		&run.RowsRead, &run.RowsLoaded, &run.MalformedRows, &run.CoercedDates,
		&run.InvalidCoordinates, &run.InvalidPrices, &run.PriceOutliers,
		&run.FilledHostNames, &run.FilledNames, &run.FilledReviews, &run.RowsOut,
		&run.PriceCeiling, &run.InvalidCounts, &run.ReviewsAfterAsOf,
	)
	if err != nil {
		return nil, err
	}
	run.StartedAt = started.UTC()
	run.FinishedAt = finished.UTC()
	return &run, nil
}
