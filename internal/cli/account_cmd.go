package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
)

func newSettingsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show account and plan details",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			v, err := ctrl.LoadSettings(ctx)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(v))
			return nil
		},
	}
}

func newUpgradeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Show what the next plan adds and how to get it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			info, err := ctrl.LoadUserInfo(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUpgrade(dashboard.UpgradePlan(info.Plan)))
			return nil
		},
	}
}
