package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				if err := app.promptLogin(&username, &password); err != nil {
					return err
				}
			}

			stop := app.spinner(cmd, "Signing in...")
			res, err := app.client().Login(cmd.Context(), strings.TrimSpace(username), password)
			stop()
			if err != nil {
				return err
			}
			if res.AccessToken == "" {
				return errors.New("login failed: no access token returned")
			}
			if err := app.Store.Save(cmd.Context(), res.AccessToken); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(formatter.Success("Logged in as "+formatter.Bold(strings.TrimSpace(username)))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account email or username")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")

	return cmd
}

func (a *App) promptLogin(username, password *string) error {
	if a.PromptLogin != nil {
		return a.PromptLogin(username, password)
	}
	if !a.interactive() {
		return errors.New("--username and --password are required when not running in a terminal")
	}
	in := &loginInput{Username: *username, Password: *password}
	if err := wizardLogin(in).Run(); err != nil {
		return err
	}
	*username, *password = in.Username, in.Password
	return nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logout always targets the stored login, even with --api-key.
			ctrl := dashboard.New(app.client(), app.Store, app.Options)
			if err := ctrl.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(formatter.Success("Logged out.")))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and plan",
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

			lines := []string{formatter.FormatUserInfo(info)}
			if info.Degraded {
				lines = append(lines, formatter.Dim("Profile unavailable; name taken from the session token."))
			}
			if h, ok := app.Store.(SessionHistory); ok && app.APIKey == "" {
				lines = append(lines, sessionHistoryLines(ctx, h, time.Now())...)
			}
			if app.APIKey != "" {
				lines = append(lines, formatter.Dim("Authenticated with an API key."))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(lines...))
			return nil
		},
	}
}

// whoamiHistory is how many journal entries whoami lists.
const whoamiHistory = 3

// sessionHistoryLines renders the last login and the recent journal. A
// failed read leaves its lines out.
func sessionHistoryLines(ctx context.Context, h SessionHistory, now time.Time) []string {
	var lines []string
	if last, err := h.LastLogin(ctx); err == nil && last != nil {
		lines = append(lines, formatter.Dim("Last login: "+formatter.HumanTimestamp(*last, now)))
	}
	events, err := h.History(ctx, whoamiHistory)
	if err != nil || len(events) == 0 {
		return lines
	}
	lines = append(lines, "", formatter.Bold("Recent sessions"))
	for _, e := range events {
		lines = append(lines, "  "+sessionEventLabel(e)+"  "+formatter.Dim(formatter.HumanTimestamp(e.CreatedAt, now)))
	}
	return lines
}

func sessionEventLabel(e session.Event) string {
	if e.Kind == "saved" {
		return "Signed in"
	}
	switch e.Reason {
	case session.ReasonExpired:
		return "Session expired"
	case session.ReasonLogout:
		return "Signed out"
	default:
		return "Session cleared"
	}
}
