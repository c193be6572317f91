package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

func newAnomaliesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "anomalies",
		Aliases: []string{"anomaly"},
		Short:   "List and resolve billing anomalies",
	}

	cmd.AddCommand(
		newAnomaliesListCmd(app),
		newAnomaliesResolveCmd(app),
	)

	return cmd
}

func newAnomaliesListCmd(app *App) *cobra.Command {
	var f domain.AnomalyFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List anomalies, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			stop := app.spinner(cmd, "Loading anomalies...")
			v, err := ctrl.LoadAnomalies(ctx, f)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAnomalies(v, -1))
			return nil
		},
	}

	addFilterFlags(cmd.Flags(), &f)

	return cmd
}

func newAnomaliesResolveCmd(app *App) *cobra.Command {
	var notes string
	var yes bool

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark an anomaly as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			confirmer := app.confirmer()
			if yes {
				confirmer = dashboard.Preconfirmed
			}
			out, err := ctrl.ResolveAnomaly(ctx, dashboard.ResolveRequest{AnomalyID: id, Notes: notes}, confirmer)
			if errors.Is(err, dashboard.ErrCancelled) {
				fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(formatter.Dim("Cancelled.")))
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResolveOutcome(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Resolution notes")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// addFilterFlags binds the anomaly filter fields to fs.
func addFilterFlags(fs *pflag.FlagSet, f *domain.AnomalyFilter) {
	fs.StringVar(&f.Department, "department", "", "Only this department")
	fs.StringVar(&f.Priority, "priority", "", "Only this priority (high, medium, low)")
	fs.StringVar(&f.DateFrom, "from", "", "Detected on or after (YYYY-MM-DD)")
	fs.StringVar(&f.DateTo, "to", "", "Detected on or before (YYYY-MM-DD)")
	fs.IntVar(&f.Limit, "limit", 0, "Maximum number of anomalies")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
