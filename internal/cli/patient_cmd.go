package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
)

func newPatientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patient",
		Aliases: []string{"patients"},
		Short:   "Look up patients with anomalies",
	}

	cmd.AddCommand(
		newPatientShowCmd(app),
		newPatientListCmd(app),
	)

	return cmd
}

func newPatientShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show one patient's anomalies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			stop := app.spinner(cmd, "Loading patient...")
			v, err := ctrl.SearchPatient(ctx, args[0])
			stop()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPatient(v, -1))
			return nil
		},
	}
}

func newPatientListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients with anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options
			if cmd.Flags().Changed("limit") {
				if limit <= 0 {
					return fmt.Errorf("--limit must be positive")
				}
				opts.PatientLimit = limit
			}

			ctx := cmd.Context()
			ctrl := app.controller(opts)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			stop := app.spinner(cmd, "Loading patients...")
			v, err := ctrl.LoadPatientList(ctx)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPatientList(v, -1))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", app.Options.PatientLimit, "Maximum number of patients")

	return cmd
}
