// Package dataset loads the listings file into an in-memory table.
package dataset

import (
	"time"

	"github.com/Veraticus/bnb-insights/internal/model"
)

// Table is the in-memory listings table shared by every pipeline stage.
type Table struct {
	Source   string
	Listings []model.Listing
	// PriceCeiling is the price outlier cutoff computed the first time the
	// table was cleaned. Zero means the table has not been cleaned yet.
	PriceCeiling float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Listings)
}

// Clone returns a copy whose rows can be modified without touching t.
// Pointer fields are shared; stages replace them rather than writing
// through them.
func (t *Table) Clone() *Table {
	return &Table{
		Source:       t.Source,
		Listings:     append([]model.Listing(nil), t.Listings...),
		PriceCeiling: t.PriceCeiling,
	}
}

// LatestReview returns the most recent last-review date in the table.
func (t *Table) LatestReview() (time.Time, bool) {
	var latest time.Time
	for i := range t.Listings {
		l := &t.Listings[i]
		if l.HasReview() && l.LastReview.After(latest) {
			latest = *l.LastReview
		}
	}
	return latest, !latest.IsZero()
}
