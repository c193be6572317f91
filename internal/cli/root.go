package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/session"
)

// Backend is the API surface the commands use: everything the controllers
// call plus login.
type Backend interface {
	dashboard.API
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

// SessionHistory is implemented by session stores that journal logins.
type SessionHistory interface {
	LastLogin(ctx context.Context) (*time.Time, error)
	History(ctx context.Context, limit int) ([]session.Event, error)
}

// App holds the dependencies shared by all commands.
type App struct {
	Store session.Store
	// Connect builds a backend client. A non-empty apiKey selects API-key
	// authentication; otherwise the bearer token is read from Store on
	// every request.
	Connect func(apiKey string) Backend
	Options dashboard.Options
	// APIKey is the default for the --api-key flag.
	APIKey string

	IsInteractive func() bool
	// Clipboard receives a generated key; nil means the system clipboard.
	Clipboard func(string) error
	// Confirm asks before destructive commands; nil means a terminal prompt.
	Confirm dashboard.Confirmer
	// PromptLogin fills in missing credentials; nil means a terminal form.
	PromptLogin func(username, password *string) error

	backend Backend
}

func (a *App) client() Backend {
	if a.backend == nil {
		a.backend = a.Connect(a.APIKey)
	}
	return a.backend
}

// controller builds a page controller. API-key runs get a throwaway store
// so a rejected key never touches the stored login.
func (a *App) controller(opts dashboard.Options) *dashboard.Controller {
	if a.APIKey != "" {
		return dashboard.New(a.client(), session.NewMemoryStore(""), opts)
	}
	return dashboard.New(a.client(), a.Store, opts)
}

// requireSession fails with dashboard.ErrNoSession when neither an API key
// nor a stored token is available.
func (a *App) requireSession(ctx context.Context, ctrl *dashboard.Controller) error {
	if a.APIKey != "" {
		return nil
	}
	return ctrl.Bootstrap(ctx)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) clipboard() func(string) error {
	if a.Clipboard != nil {
		return a.Clipboard
	}
	return clipboard.WriteAll
}

func (a *App) confirmer() dashboard.Confirmer {
	if a.Confirm != nil {
		return a.Confirm
	}
	return dashboard.ConfirmFunc(func(prompt string) (bool, error) {
		var ok bool
		if err := wizardConfirm(prompt, &ok).Run(); err != nil {
			return false, err
		}
		return ok, nil
	})
}

// spinner starts a progress spinner on stderr for interactive terminals and
// returns its stop function.
func (a *App) spinner(cmd *cobra.Command, msg string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), msg)
}

// NewRootCmd creates the top-level "revint" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "revint",
		Short:         "Revenue integrity dashboard for hospital billing leakage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runDashboard(cmd, app)
			}
			return printOverview(cmd, app, app.Options)
		},
	}

	root.PersistentFlags().StringVar(&app.APIKey, "api-key", app.APIKey, "Authenticate with an API key instead of the stored session")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newOverviewCmd(app),
		newAnomaliesCmd(app),
		newPatientCmd(app),
		newKeysCmd(app),
		newSettingsCmd(app),
		newUpgradeCmd(app),
		newIngestCmd(app),
	)

	return root
}

// runDashboard runs the full-screen dashboard until the user quits.
func runDashboard(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	ctrl := app.controller(app.Options)
	if err := app.requireSession(ctx, ctrl); err != nil {
		return err
	}

	state := &SharedState{App: app, Ctrl: ctrl, Ctx: ctx}
	p := tea.NewProgram(newAppModel(state),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}

	m := final.(appModel)
	if m.exit.loggedOut {
		fmt.Fprint(cmd.OutOrStdout(), formatter.Alert(formatter.Success("Logged out. Run `revint login` to sign in again.")))
	}
	return m.exitError()
}
