package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

func newKeysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keys",
		Aliases: []string{"key", "api-keys"},
		Short:   "Manage API keys",
	}

	cmd.AddCommand(
		newKeysGenerateCmd(app),
		newKeysListCmd(app),
		newKeysRevokeCmd(app),
	)

	return cmd
}

func newKeysGenerateCmd(app *App) *cobra.Command {
	var req domain.APIKeyRequest
	var copyKey bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a new API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			v, err := ctrl.GenerateAPIKey(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatGeneratedKey(v))
			if copyKey {
				if err := app.clipboard()(v.Key); err != nil {
					fmt.Fprint(out, formatter.Alert(formatter.ErrorText("Failed to copy API key: "+err.Error())))
				} else {
					fmt.Fprint(out, formatter.Alert(formatter.Success("API key copied to clipboard!")))
				}
			}
			if v.RefreshErr != nil {
				fmt.Fprint(out, formatter.Alert(formatter.StyleYellow.Render(v.RefreshErr.Error())))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Key name")
	cmd.Flags().IntVar(&req.ExpiresDays, "expires-days", dashboard.DefaultKeyExpiryDays, "Days until the key expires")
	cmd.Flags().BoolVar(&copyKey, "copy", false, "Copy the new key to the clipboard")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newKeysListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			v, err := ctrl.ListAPIKeys(ctx)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAPIKeys(v, -1))
			return nil
		},
	}
}

func newKeysRevokeCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an API key",
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
			res, err := ctrl.RevokeAPIKey(ctx, id, confirmer)
			if errors.Is(err, dashboard.ErrCancelled) {
				fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(formatter.Dim("Cancelled.")))
				return nil
			}
			if err != nil {
				return err
			}

			lines := []string{formatter.Success(res.Message)}
			if res.RefreshErr != nil {
				lines = append(lines, formatter.StyleYellow.Render(res.RefreshErr.Error()))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(lines...))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
