package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/bnb-insights/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run")
	ErrRunNotFound  = errors.New("run not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun checks the audit before it is written.
func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRun)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidRun)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		return fmt.Errorf("%w: finished before it started", ErrInvalidRun)
	}

	counts := []int{
		run.RowsRead, run.RowsLoaded, run.MalformedRows, run.CoercedDates,
		run.InvalidCoordinates, run.InvalidPrices, run.PriceOutliers,
		run.FilledHostNames, run.FilledNames, run.FilledReviews, run.RowsOut,
		run.InvalidCounts, run.ReviewsAfterAsOf,
	}
	for _, c := range counts {
		if c < 0 {
			return fmt.Errorf("%w: negative count", ErrInvalidRun)
		}
	}
	if run.RowsOut > run.RowsRead {
		return fmt.Errorf("%w: %d rows out of %d read", ErrInvalidRun, run.RowsOut, run.RowsRead)
	}
	return nil
}
