package model

import "time"

// Run is the audit record of one load-clean-derive pass. It carries counts
// only, never listing data.
type Run struct {
	StartedAt          time.Time
	FinishedAt         time.Time
	ID                 string
	Source             string
	RowsRead           int
	RowsLoaded         int
	MalformedRows      int
	CoercedDates       int
	InvalidCoordinates int
	InvalidPrices      int
	InvalidCounts      int
	PriceOutliers      int
	FilledHostNames    int
	FilledNames        int
	FilledReviews      int
	RowsOut            int
	ReviewsAfterAsOf   int
	PriceCeiling       float64
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Dropped returns the rows removed by loading and cleaning.
func (r *Run) Dropped() int {
	return r.RowsRead - r.RowsOut
}
