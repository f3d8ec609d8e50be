package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/query"
	"github.com/Veraticus/bnb-insights/internal/tui"
	"github.com/Veraticus/bnb-insights/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	var (
		theme       string
		stakeholder string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Explore the listings in an interactive terminal dashboard",
		Long: `Open a dashboard over the cleaned and enriched listings. Toggle boroughs
and room types, move the price and review sliders, switch stakeholder and
grouping; every change recomputes the figures from the full table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			who, err := query.ParseStakeholder(stakeholder)
			if err != nil {
				return common.NewUserError("Invalid --stakeholder", err)
			}

			interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Load", settings.History.Enabled)
			res, err := loadBase(ctx, settings, cmd.ErrOrStderr())
			interruptHandler.Stop()
			if err != nil {
				return err
			}

			d := settings.Dashboard
			return tui.Run(cmd.Context(), res.Base.Listings,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithStakeholder(who),
				tui.WithPriceRange(d.PriceMin, d.PriceMax),
				tui.WithSteps(d.PriceStep, d.ReviewStep),
			)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "Color theme (default, catppuccin-mocha)")
	cmd.Flags().StringVar(&stakeholder, "stakeholder", string(query.Hosts),
		"Initial stakeholder: hosts, guests, investors, policymakers")

	return cmd
}
