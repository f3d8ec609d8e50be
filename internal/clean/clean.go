// Package clean removes invalid rows from a listings table and fills missing
// text fields with explicit sentinels.
package clean

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/dataset"
	"github.com/Veraticus/bnb-insights/internal/geo"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// DefaultPricePercentile is the default price outlier cutoff.
const DefaultPricePercentile = 0.99

// Options configures a Cleaner.
type Options struct {
	// PricePercentile in (0, 1]; rows priced above this quantile are dropped.
	PricePercentile float64
	// DropZeroPrice also drops free listings.
	DropZeroPrice bool
}

// DefaultOptions returns the 99th percentile cutoff with zero prices dropped.
func DefaultOptions() Options {
	return Options{PricePercentile: DefaultPricePercentile, DropZeroPrice: true}
}

// Report accounts for every row dropped or modified by Clean.
type Report struct {
	RowsIn                int
	InvalidCoordinates    int
	InvalidPrices         int
	InvalidCounts         int
	PriceOutliers         int
	FilledHostNames       int
	FilledNames           int
	FilledReviewsPerMonth int
	RowsOut               int
	PriceCeiling          float64
}

// Dropped returns the number of rows removed.
func (r Report) Dropped() int {
	return r.InvalidCoordinates + r.InvalidPrices + r.InvalidCounts + r.PriceOutliers
}

// Cleaner applies the cleaning rules.
type Cleaner struct {
	opts Options
}

// New validates opts and returns a Cleaner.
func New(opts Options) (*Cleaner, error) {
	p := opts.PricePercentile
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return nil, fmt.Errorf("%w: price percentile %v must be in (0, 1]", common.ErrInvalidConfig, p)
	}
	return &Cleaner{opts: opts}, nil
}

// Clean returns a cleaned copy of t. The price ceiling is computed the first
// time a table is cleaned, over rows with valid coordinates and non-negative
// prices, before free listings are dropped. It is carried on the result, so
// cleaning a cleaned table is a no-op.
func (c *Cleaner) Clean(t *dataset.Table) (*dataset.Table, Report, error) {
	report := Report{RowsIn: t.Len()}
	out := &dataset.Table{Source: t.Source, PriceCeiling: t.PriceCeiling}

	kept := make([]model.Listing, 0, t.Len())
	for i := range t.Listings {
		l := t.Listings[i]
		if !validCoordinate(l.Latitude, l.Longitude) {
			report.InvalidCoordinates++
			continue
		}
		if !validPrice(l.Price) {
			report.InvalidPrices++
			continue
		}
		kept = append(kept, l)
	}

	if out.PriceCeiling == 0 && len(kept) > 0 {
		out.PriceCeiling = priceQuantile(kept, c.opts.PricePercentile)
	}
	report.PriceCeiling = out.PriceCeiling

	out.Listings = make([]model.Listing, 0, len(kept))
	for i := range kept {
		l := kept[i]
		switch {
		case out.PriceCeiling > 0 && l.Price > out.PriceCeiling:
			report.PriceOutliers++
			continue
		case l.Price == 0 && c.opts.DropZeroPrice:
			report.InvalidPrices++
			continue
		case validateCounts(&l) != nil:
			report.InvalidCounts++
			continue
		}
		c.fill(&l, &report)
		out.Listings = append(out.Listings, l)
	}

	report.RowsOut = out.Len()
	return out, report, nil
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// MaxAvailability is the number of days availability_365 counts over.
const MaxAvailability = 365

// validateCounts checks the integer base columns. Errors wrap
// common.ErrInvalidInput.
func validateCounts(l *model.Listing) error {
	switch {
	case l.HostListingsCount < 0:
		return fmt.Errorf("%w: host listing count %d", common.ErrInvalidInput, l.HostListingsCount)
	case l.NumberOfReviews < 0:
		return fmt.Errorf("%w: number of reviews %d", common.ErrInvalidInput, l.NumberOfReviews)
	case l.MinimumNights < 0:
		return fmt.Errorf("%w: minimum nights %d", common.ErrInvalidInput, l.MinimumNights)
	case l.Availability365 < 0 || l.Availability365 > MaxAvailability:
		return fmt.Errorf("%w: availability %d outside 0-%d", common.ErrInvalidInput, l.Availability365, MaxAvailability)
	}
	return nil
}

func (c *Cleaner) fill(l *model.Listing, report *Report) {
	if l.HostName == "" {
		l.HostName = model.NoData
		report.FilledHostNames++
	}
	if l.Name == "" {
		l.Name = model.NoData
		report.FilledNames++
	}
	if l.ReviewsPerMonth == nil {
		zero := 0.0
		l.ReviewsPerMonth = &zero
		report.FilledReviewsPerMonth++
	}
}

// validCoordinate rejects NaN, out-of-range and zero coordinates.
func validCoordinate(lat, lon float64) bool {
	if lat == 0 || lon == 0 {
		return false
	}
	return geo.Point{Lat: lat, Lon: lon}.Validate() == nil
}

func priceQuantile(listings []model.Listing, p float64) float64 {
	prices := make([]float64, len(listings))
	for i := range listings {
		prices[i] = listings[i].Price
	}
	sort.Float64s(prices)
	return stat.Quantile(p, stat.LinInterp, prices, nil)
}
