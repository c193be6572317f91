// Package dashboard maps backend data onto the view models the terminal
// dashboard and the subcommands render. Every operation is independent and
// returns either a view model or an error; none keeps state between calls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/logging"
	"github.com/alexanderramin/revint/internal/session"
)

var (
	// ErrNoSession means no bearer token is stored; the user must log in.
	ErrNoSession = errors.New("not logged in: run `revint login` first")
	// ErrSessionExpired means the backend rejected the stored token, which
	// has been cleared.
	ErrSessionExpired = errors.New("session expired: run `revint login` again")
	// ErrCancelled means the user declined a confirmation; nothing was sent.
	ErrCancelled = errors.New("cancelled")
)

// API is the subset of the backend client the controllers use.
type API interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
	Overview(ctx context.Context, days int) (*domain.Overview, error)
	Anomalies(ctx context.Context, f domain.AnomalyFilter) ([]domain.Anomaly, error)
	Patient(ctx context.Context, patientID string) (*domain.Patient, error)
	Patients(ctx context.Context, limit int) ([]domain.PatientSummary, error)
	ResolveAnomaly(ctx context.Context, id int64, action, notes string) (*domain.Resolution, error)
	IngestData(ctx context.Context, patients, billing []map[string]any) (*domain.IngestResult, error)
	GenerateAPIKey(ctx context.Context, name string, expiresDays int) (*domain.GeneratedKey, error)
	APIKeys(ctx context.Context) ([]domain.APIKey, error)
	RevokeAPIKey(ctx context.Context, id int64) error
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Preconfirmed answers every prompt with yes. Used when the host already
// asked (TUI confirmation overlay, --yes flag).
var Preconfirmed Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

type Options struct {
	OverviewDays     int
	PatientLimit     int
	UserInfoFallback time.Duration
}

func DefaultOptions() Options {
	return Options{
		OverviewDays:     30,
		PatientLimit:     50,
		UserInfoFallback: 3 * time.Second,
	}
}

type Controller struct {
	api   API
	store session.Store
	opts  Options
	log   zerolog.Logger
}

// New builds a Controller. Zero option fields take their defaults.
func New(api API, store session.Store, opts Options) *Controller {
	def := DefaultOptions()
	if opts.OverviewDays <= 0 {
		opts.OverviewDays = def.OverviewDays
	}
	if opts.PatientLimit <= 0 {
		opts.PatientLimit = def.PatientLimit
	}
	if opts.UserInfoFallback <= 0 {
		opts.UserInfoFallback = def.UserInfoFallback
	}
	return &Controller{
		api:   api,
		store: store,
		opts:  opts,
		log:   logging.Component("dashboard"),
	}
}

func (c *Controller) Options() Options { return c.opts }

// Bootstrap checks that a session exists. It makes no network calls.
func (c *Controller) Bootstrap(ctx context.Context) error {
	token, err := c.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	if token == "" {
		c.log.Info().Msg("no session token")
		return ErrNoSession
	}
	return nil
}

// Logout clears the stored session token.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx, session.ReasonLogout); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	c.log.Info().Msg("logged out")
	return nil
}

func (c *Controller) confirm(confirmer Confirmer, prompt string) error {
	if confirmer == nil {
		return ErrCancelled
	}
	ok, err := confirmer.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
