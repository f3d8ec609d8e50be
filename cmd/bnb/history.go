package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bnb-insights/internal/cli"
	"github.com/Veraticus/bnb-insights/internal/common"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded load and cleaning runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if !settings.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Run history is disabled (history.enabled=false)."))
				return nil
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx, settings)
			if err != nil {
				return common.NewUserError("Could not open run history", err)
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderHistory(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")

	return cmd
}
