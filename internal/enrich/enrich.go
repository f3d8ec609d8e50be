// Package enrich derives the feature columns of every listing.
package enrich

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/bnb-insights/internal/classify"
	"github.com/Veraticus/bnb-insights/internal/dataset"
	"github.com/Veraticus/bnb-insights/internal/geo"
	"github.com/Veraticus/bnb-insights/internal/model"
)

const day = 24 * time.Hour

// Options configures a Deriver. Zero values select the defaults.
type Options struct {
	Host     *classify.HostClassifier
	Activity *classify.ActivityClassifier
	Bands    *geo.DistanceBands
	// AsOf is the date days-since-review is measured against. When nil the
	// latest last-review date in the table is used.
	AsOf      *time.Time
	Reference geo.Point
}

// Deriver computes model.Features from the base columns of a listing.
type Deriver struct {
	host      *classify.HostClassifier
	activity  *classify.ActivityClassifier
	bands     *geo.DistanceBands
	asOf      *time.Time
	reference geo.Point
}

// New returns a Deriver, filling unset options with the defaults.
func New(opts Options) (*Deriver, error) {
	d := &Deriver{
		host:      opts.Host,
		activity:  opts.Activity,
		bands:     opts.Bands,
		asOf:      opts.AsOf,
		reference: opts.Reference,
	}
	if d.reference == (geo.Point{}) {
		d.reference = geo.TimesSquare
	}
	if err := d.reference.Validate(); err != nil {
		return nil, fmt.Errorf("reference point: %w", err)
	}
	if d.host == nil {
		d.host = classify.NewHostClassifier()
	}
	if d.activity == nil {
		d.activity = classify.NewActivityClassifier()
	}
	if d.bands == nil {
		bands, err := geo.NewDistanceBands(geo.DefaultDistanceBounds)
		if err != nil {
			return nil, err
		}
		d.bands = bands
	}
	return d, nil
}

// Reference returns the distance origin.
func (d *Deriver) Reference() geo.Point {
	return d.reference
}

// Bands returns the distance bands used for DistanceBucket.
func (d *Deriver) Bands() *geo.DistanceBands {
	return d.bands
}

// Report counts adjustments made while deriving.
type Report struct {
	// ReviewsAfterAsOf counts listings reviewed after the as-of date. Their
	// day gap is clamped to zero, so they classify as Very Active.
	ReviewsAfterAsOf int
}

// Derive returns a copy of t with Features set on every row. The first
// classifier error aborts the derivation and names the offending listing.
func (d *Deriver) Derive(t *dataset.Table) (*dataset.Table, Report, error) {
	var report Report
	asOf := d.asOf
	if asOf == nil {
		if latest, ok := t.LatestReview(); ok {
			asOf = &latest
		}
	}

	out := t.Clone()
	for i := range out.Listings {
		l := &out.Listings[i]
		f, clamped, err := d.features(l, asOf)
		if err != nil {
			return nil, report, fmt.Errorf("listing %d: %w", l.ID, err)
		}
		if clamped {
			report.ReviewsAfterAsOf++
		}
		l.Features = f
	}
	return out, report, nil
}

// DeriveOne computes the features of a single listing against asOf. A nil
// asOf measures against the listing's own review date. A review after asOf
// counts as zero days.
func (d *Deriver) DeriveOne(l model.Listing, asOf *time.Time) (model.Features, error) {
	if asOf == nil {
		asOf = d.asOf
	}
	f, _, err := d.features(&l, asOf)
	return f, err
}

func (d *Deriver) features(l *model.Listing, asOf *time.Time) (f model.Features, clamped bool, err error) {
	km, err := geo.DistanceFrom(d.reference, l.Latitude, l.Longitude)
	if err != nil {
		return model.Features{}, false, err
	}

	host, err := d.host.Classify(l.HostListingsCount)
	if err != nil {
		return model.Features{}, false, err
	}

	days := DaysSince(l.LastReview, asOf)
	if days != nil && *days < 0 {
		zero := 0
		days = &zero
		clamped = true
	}
	activity, err := d.activity.Classify(days)
	if err != nil {
		return model.Features{}, false, err
	}

	return model.Features{
		DistanceKm:      km,
		DistanceBucket:  d.bands.Label(km),
		HostType:        host,
		DaysSinceReview: days,
		ActivityStatus:  activity,
		Season:          classify.SeasonOfDate(l.LastReview),
		Derived:         true,
	}, clamped, nil
}

// DaysSince returns the whole days from review to asOf, or nil when the
// listing was never reviewed. A nil asOf counts from the review itself. The
// result is negative when the review is later than asOf.
func DaysSince(review, asOf *time.Time) *int {
	if review == nil || review.IsZero() {
		return nil
	}
	ref := *review
	if asOf != nil {
		ref = *asOf
	}
	n := int(math.Floor(ref.Sub(*review).Hours() / day.Hours()))
	return &n
}
