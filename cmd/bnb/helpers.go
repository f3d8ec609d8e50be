package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/bnb-insights/internal/classify"
	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/config"
	"github.com/Veraticus/bnb-insights/internal/dataset"
	"github.com/Veraticus/bnb-insights/internal/enrich"
	"github.com/Veraticus/bnb-insights/internal/geo"
	"github.com/Veraticus/bnb-insights/internal/pipeline"
	"github.com/Veraticus/bnb-insights/internal/query"
	"github.com/Veraticus/bnb-insights/internal/storage"
)

// loadSettings reads the validated settings from the global viper instance.
func loadSettings() (*config.Settings, error) {
	v := viper.GetViper()
	config.SetDefaults(v)

	settings, err := config.Load(v)
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	return settings, nil
}

// initStorage opens and migrates the run history database. It returns nil
// when history is disabled.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	if !settings.History.Enabled {
		return nil, nil
	}

	store, err := storage.NewSQLiteStorage(settings.History.Path)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// featureOptions builds the classifiers and distance bands from settings.
func featureOptions(settings *config.Settings) (enrich.Options, error) {
	opts := enrich.Options{
		AsOf:      settings.AsOf,
		Reference: settings.Reference,
	}

	if len(settings.HostBounds) > 0 {
		host, err := classify.NewHostClassifierWithBounds(settings.HostBounds)
		if err != nil {
			return opts, fmt.Errorf("features.host_bounds: %w", err)
		}
		opts.Host = host
	}
	if len(settings.ActivityBounds) > 0 {
		activity, err := classify.NewActivityClassifierWithBounds(settings.ActivityBounds)
		if err != nil {
			return opts, fmt.Errorf("features.activity_bounds: %w", err)
		}
		opts.Activity = activity
	}
	if len(settings.DistanceBounds) > 0 {
		bands, err := geo.NewDistanceBands(settings.DistanceBounds)
		if err != nil {
			return opts, fmt.Errorf("features.distance_bounds: %w", err)
		}
		opts.Bands = bands
	}

	return opts, nil
}

// pipelineConfig assembles the stage options. Recorder may be nil.
func pipelineConfig(settings *config.Settings, recorder pipeline.Recorder) (pipeline.Config, error) {
	features, err := featureOptions(settings)
	if err != nil {
		return pipeline.Config{}, common.NewUserError("Invalid feature thresholds", err)
	}

	return pipeline.Config{
		Recorder: recorder,
		Load:     dataset.LoadOptions{Encoding: settings.Encoding},
		Clean:    settings.Clean,
		Features: features,
	}, nil
}

// loadBase runs the pipeline over the configured source, recording the run
// in history when enabled. Progress goes to progressOut when it is a
// terminal.
func loadBase(ctx context.Context, settings *config.Settings, progressOut io.Writer) (*pipeline.Result, error) {
	store, err := initStorage(ctx, settings)
	if err != nil {
		slog.Warn("Run history unavailable", "path", settings.History.Path, "error", err)
		store = nil
	}
	if store != nil {
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				common.LogError(closeErr, "Failed to close storage", common.Fields{"path": store.Path()})
			}
		}()
	}

	var recorder pipeline.Recorder
	if store != nil {
		recorder = store
	}
	cfg, err := pipelineConfig(settings, recorder)
	if err != nil {
		return nil, err
	}

	var progress *cli.LoadProgress
	if isTerminal(progressOut) {
		progress = cli.NewLoadProgress(progressOut, "Loading listings...")
		cfg.Load.Progress = progress.Update
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}

	res, err := p.Run(ctx, pipeline.Source{Path: settings.Source})
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not load %s", settings.Source), err)
	}

	if store != nil && settings.History.Keep > 0 {
		removed, pruneErr := store.PruneRuns(ctx, settings.History.Keep)
		if pruneErr != nil {
			slog.Warn("Failed to prune run history", "error", pruneErr)
		} else if removed > 0 {
			slog.Debug("Pruned run history", "removed", removed)
		}
	}

	return res, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// filterFlags holds the filter flags shared by summary and export.
type filterFlags struct {
	boroughs   []string
	roomTypes  []string
	priceMin   float64
	priceMax   float64
	minReviews int
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringSliceVar(&f.boroughs, "borough", nil, "Only these boroughs (repeat or comma separate)")
	cmd.Flags().StringSliceVar(&f.roomTypes, "room-type", nil, "Only these room types (repeat or comma separate)")
	cmd.Flags().Float64Var(&f.priceMin, "price-min", 0, "Minimum nightly price")
	cmd.Flags().Float64Var(&f.priceMax, "price-max", 0, "Maximum nightly price")
	cmd.Flags().IntVar(&f.minReviews, "min-reviews", 0, "Minimum number of reviews")
}

// spec converts the flags the user actually set into a validated filter.
func (f *filterFlags) spec(cmd *cobra.Command) (query.FilterSpec, error) {
	spec := query.FilterSpec{
		Boroughs:  f.boroughs,
		RoomTypes: f.roomTypes,
	}
	if cmd.Flags().Changed("price-min") {
		spec.PriceMin = &f.priceMin
	}
	if cmd.Flags().Changed("price-max") {
		spec.PriceMax = &f.priceMax
	}
	if cmd.Flags().Changed("min-reviews") {
		spec.MinReviews = &f.minReviews
	}

	if err := spec.Validate(); err != nil {
		return spec, common.NewUserError("Invalid filter", err)
	}
	return spec, nil
}
