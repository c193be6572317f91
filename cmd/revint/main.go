package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/revint/internal/api"
	"github.com/alexanderramin/revint/internal/cli"
	"github.com/alexanderramin/revint/internal/config"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/db"
	"github.com/alexanderramin/revint/internal/logging"
	"github.com/alexanderramin/revint/internal/session"
	"github.com/alexanderramin/revint/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logging.Close()

	shutdown := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log := logging.Component("telemetry")
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	// Open the local state database holding the session token.
	database, err := db.OpenDB(cfg.Session.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := session.NewSQLiteStore(database)
	apiCfg := api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Transport: telemetry.Transport(http.DefaultTransport),
	}

	app := &cli.App{
		Store: store,
		Connect: func(apiKey string) cli.Backend {
			var creds api.Credentials = api.BearerToken{Tokens: store}
			if apiKey != "" {
				creds = api.APIKey{Key: apiKey}
			}
			return api.NewClient(apiCfg, creds, api.LogObserver{})
		},
		Options: dashboard.Options{
			OverviewDays:     cfg.Dashboard.OverviewDays,
			PatientLimit:     cfg.Dashboard.PatientLimit,
			UserInfoFallback: cfg.Dashboard.UserInfoFallback,
		},
		APIKey: cfg.API.Key,
	}

	// The dashboard needs a terminal on both ends; piped runs print instead.
	app.IsInteractive = func() bool {
		in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		out := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		return in && out
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
