// Package pipeline runs load, clean and feature derivation over a listings
// source and produces the enriched base table every view filters from.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/bnb-insights/internal/clean"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/dataset"
	"github.com/Veraticus/bnb-insights/internal/enrich"
	"github.com/Veraticus/bnb-insights/internal/model"
)

// Recorder stores run audits.
type Recorder interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// Source is either a file path or an open reader. Reader wins when both are
// set; Path then only labels the run.
type Source struct {
	Reader io.Reader
	Path   string
}

// Result is the output of one run.
type Result struct {
	Base     *dataset.Table
	Run      model.Run
	Load     dataset.LoadReport
	Clean    clean.Report
	Features enrich.Report
}

// Pipeline wires the stages together.
type Pipeline struct {
	cleaner  *clean.Cleaner
	deriver  *enrich.Deriver
	recorder Recorder
	load     dataset.LoadOptions
	now      func() time.Time
}

// Config holds the stage options. Recorder may be nil.
type Config struct {
	Recorder Recorder
	Load     dataset.LoadOptions
	Clean    clean.Options
	Features enrich.Options
}

// DefaultConfig returns the default stage options.
func DefaultConfig() Config {
	return Config{Clean: clean.DefaultOptions()}
}

// New validates cfg and builds a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	cleaner, err := clean.New(cfg.Clean)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cleaning: %w", err)
	}
	deriver, err := enrich.New(cfg.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to configure features: %w", err)
	}
	return &Pipeline{
		cleaner:  cleaner,
		deriver:  deriver,
		recorder: cfg.Recorder,
		load:     cfg.Load,
		now:      time.Now,
	}, nil
}

// Run loads, cleans and enriches src. A failure to record the audit is
// logged and does not fail the run.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Result, error) {
	started := p.now()
	slog.Info("Loading listings", "source", src.Path)

	var (
		raw    *dataset.Table
		report dataset.LoadReport
		err    error
	)
	switch {
	case src.Reader != nil:
		raw, report, err = dataset.Load(ctx, src.Reader, p.load)
		if raw != nil {
			raw.Source = src.Path
		}
	case src.Path != "":
		raw, report, err = dataset.LoadFile(ctx, src.Path, p.load)
	default:
		return nil, fmt.Errorf("%w: no listings source configured", common.ErrMissingConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	slog.Info("Loaded listings",
		"rows", report.Rows,
		"loaded", report.Loaded,
		"malformed", report.Malformed,
		"coerced_dates", report.CoercedDates)
	for _, sample := range report.Samples {
		common.LogDebug("Skipped malformed row", common.Fields{"error": sample})
	}

	cleaned, cleanReport, err := p.cleaner.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to clean listings: %w", err)
	}
	slog.Info("Cleaned listings",
		"rows_in", cleanReport.RowsIn,
		"invalid_coordinates", cleanReport.InvalidCoordinates,
		"invalid_prices", cleanReport.InvalidPrices,
		"invalid_counts", cleanReport.InvalidCounts,
		"price_outliers", cleanReport.PriceOutliers,
		"price_ceiling", cleanReport.PriceCeiling,
		"rows_out", cleanReport.RowsOut)

	base, features, err := p.deriver.Derive(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to derive features: %w", err)
	}
	if features.ReviewsAfterAsOf > 0 {
		slog.Warn("Listings reviewed after the as-of date count as reviewed that day",
			"listings", features.ReviewsAfterAsOf)
	}

	res := &Result{
		Base:     base,
		Load:     report,
		Clean:    cleanReport,
		Features: features,
		Run:      audit(src.Path, started, p.now(), report, cleanReport, features),
	}

	if p.recorder != nil {
		if err := p.recorder.SaveRun(ctx, &res.Run); err != nil {
			slog.Warn("Failed to record run", "run_id", res.Run.ID, "error", err)
		}
	}

	return res, nil
}

func audit(source string, started, finished time.Time, load dataset.LoadReport, c clean.Report, f enrich.Report) model.Run {
	return model.Run{
		ID:                 uuid.NewString(),
		Source:             source,
		StartedAt:          started,
		FinishedAt:         finished,
		RowsRead:           load.Rows,
		RowsLoaded:         load.Loaded,
		MalformedRows:      load.Malformed,
		CoercedDates:       load.CoercedDates,
		InvalidCoordinates: c.InvalidCoordinates,
		InvalidPrices:      c.InvalidPrices,
		InvalidCounts:      c.InvalidCounts,
		PriceOutliers:      c.PriceOutliers,
		FilledHostNames:    c.FilledHostNames,
		FilledNames:        c.FilledNames,
		FilledReviews:      c.FilledReviewsPerMonth,
		RowsOut:            c.RowsOut,
		PriceCeiling:       c.PriceCeiling,
		ReviewsAfterAsOf:   f.ReviewsAfterAsOf,
	}
}
