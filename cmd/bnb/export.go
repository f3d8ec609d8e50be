package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/common"
	"github.com/Veraticus/bnb-insights/internal/export"
	"github.com/Veraticus/bnb-insights/internal/query"
)

func exportCmd() *cobra.Command {
	var (
		filters     filterFlags
		out         string
		format      string
		by          string
		summaryOnly bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered, enriched listings to CSV, XLSX or JSON",
		Long: `Export the filtered listings with their derived features. XLSX and JSON
exports also carry the grouped summary; CSV carries the listings unless
--summary-only is given.

Examples:
  bnb export --out manhattan.csv --borough Manhattan
  bnb export --out market.xlsx --by room_type
  bnb export --out groups.csv --summary-only --by season`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			f, err := exportFormat(format, out)
			if err != nil {
				return common.NewUserError("Invalid export format", err)
			}
			dim, err := query.ParseDimension(by)
			if err != nil {
				return common.NewUserError("Invalid --by", err)
			}
			spec, err := filters.spec(cmd)
			if err != nil {
				return err
			}

			interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Export", settings.History.Enabled)
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

			doc := export.Document{Listings: selection, Summary: &summary, SummaryOnly: summaryOnly}
			if err := export.WriteFile(out, f, doc); err != nil {
				return err
			}
			common.LogInfo("Exported listings", common.Fields{
				"path":   out,
				"format": string(f),
				"rows":   len(selection),
			})

			w := cmd.OutOrStdout()
			if len(selection) == 0 {
				fmt.Fprintln(w, cli.FormatWarning(cli.EmptySelectionMessage))
			}
			fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Exported %s listings to %s", cli.Count(len(selection)), out)))
			return nil
		},
	}

	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (required)")
	cmd.Flags().StringVar(&format, "format", "", "csv, xlsx or json (default: from the file extension)")
	cmd.Flags().StringVar(&by, "by", string(query.ByBorough), "Grouping of the summary sheet")
	cmd.Flags().BoolVar(&summaryOnly, "summary-only", false, "Write only the grouped summary to CSV")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func exportFormat(format, out string) (export.Format, error) {
	if strings.TrimSpace(format) != "" {
		return export.ParseFormat(format)
	}
	return export.FormatFromPath(out)
}
