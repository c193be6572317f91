package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
)

func newOverviewCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show the leakage summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options
			if cmd.Flags().Changed("days") {
				if days <= 0 {
					return fmt.Errorf("--days must be positive")
				}
				opts.OverviewDays = days
			}
			return printOverview(cmd, app, opts)
		},
	}

	cmd.Flags().IntVar(&days, "days", app.Options.OverviewDays, "Number of days to summarize")

	return cmd
}

func printOverview(cmd *cobra.Command, app *App, opts dashboard.Options) error {
	ctx := cmd.Context()
	ctrl := app.controller(opts)
	if err := app.requireSession(ctx, ctrl); err != nil {
		return err
	}

	stop := app.spinner(cmd, "Loading overview...")
	v, err := ctrl.LoadOverview(ctx)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(v, -1))
	return nil
}
