package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/query"
)

func summaryCmd() *cobra.Command {
	var (
		filters     filterFlags
		by          string
		stakeholder string
		audit       bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print key metrics and a grouped summary of the listings",
		Long: `Load, clean and enrich the listings file, apply the filters and print
key metrics, a grouped summary table and insights for one stakeholder.

Examples:
  # Whole market grouped by borough
  bnb summary

  # Brooklyn private rooms between $50 and $150, grouped by host type
  bnb summary --borough Brooklyn --room-type "Private room" \
    --price-min 50 --price-max 150 --by host_type

  # Investor view with the cleaning audit
  bnb summary --stakeholder investors --audit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			dim, err := query.ParseDimension(by)
			if err != nil {
				return common.NewUserError("Invalid --by", err)
			}
			who, err := query.ParseStakeholder(stakeholder)
			if err != nil {
				return common.NewUserError("Invalid --stakeholder", err)
			}
			spec, err := filters.spec(cmd)
			if err != nil {
				return err
			}

			interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Load", settings.History.Enabled)
			defer interruptHandler.Stop()

			res, err := loadBase(ctx, settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			selection := query.Apply(res.Base.Listings, spec)
			summary, err := query.Summarize(selection, dim)
			if err != nil {
				return err
			}
			insight, err := query.Insights(selection, who)
			if err != nil {
				return err
			}

			report := cli.Report{
				Filter:   spec,
				Overview: query.NewOverview(selection),
				Summary:  summary,
				Insight:  &insight,
			}
			if audit {
				report.Run = &res.Run
			}
			return cli.WriteReport(cmd.OutOrStdout(), report)
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVar(&by, "by", string(query.ByBorough),
		"Group by: borough, room_type, distance_bucket, host_type, activity_status, season")
	cmd.Flags().StringVar(&stakeholder, "stakeholder", string(query.Hosts),
		"Insights for: hosts, guests, investors, policymakers")
	cmd.Flags().BoolVar(&audit, "audit", false, "Also print the load and cleaning audit")

	return cmd
}
