package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/enrich"
	"github.com/Veraticus/bnb-insights/internal/geo"
	"github.com/Veraticus/bnb-insights/internal/model"
)

const dateLayout = "2006-01-02"

func featuresCmd() *cobra.Command {
	var (
		lat, lon     float64
		hostListings int
		lastReview   string
		asOf         string
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Derive the features of a single listing",
		Long: `Compute host type, activity status, season and distance for one listing
described on the command line, without loading the listings file.

Example:
  bnb features --lat 40.7128 --lon -74.0060 --host-listings 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			opts, err := featureOptions(settings)
			if err != nil {
				return common.NewUserError("Invalid feature thresholds", err)
			}
			deriver, err := enrich.New(opts)
			if err != nil {
				return common.NewUserError("Invalid configuration", err)
			}

			l := model.Listing{
				Latitude:          lat,
				Longitude:         lon,
				HostListingsCount: hostListings,
			}
			if lastReview != "" {
				review, err := time.Parse(dateLayout, lastReview)
				if err != nil {
					return common.NewUserError("Invalid --last-review, expected YYYY-MM-DD", err)
				}
				l.LastReview = &review
			}

			reference := settings.AsOf
			if asOf != "" {
				t, err := time.Parse(dateLayout, asOf)
				if err != nil {
					return common.NewUserError("Invalid --as-of, expected YYYY-MM-DD", err)
				}
				reference = &t
			}
			if reference == nil {
				today := time.Now().UTC().Truncate(24 * time.Hour)
				reference = &today
			}

			features, err := deriver.DeriveOne(l, reference)
			if err != nil {
				return common.NewUserError("Could not derive features", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, cli.SubtleStyle.Render(fmt.Sprintf("Distance from (%.4f, %.4f), as of %s",
				deriver.Reference().Lat, deriver.Reference().Lon, reference.Format(dateLayout))))
			fmt.Fprintln(w, cli.RenderFeatures(features))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", geo.TimesSquare.Lat, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", geo.TimesSquare.Lon, "Longitude")
	cmd.Flags().IntVar(&hostListings, "host-listings", 1, "Listings operated by the host")
	cmd.Flags().StringVar(&lastReview, "last-review", "", "Date of the last review (YYYY-MM-DD); empty means never reviewed")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Date days-since-review is measured against (default: features.as_of or today)")

	return cmd
}
