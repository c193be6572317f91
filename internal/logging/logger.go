// Package logging owns the process-wide zerolog logger.
//
// The dashboard draws on stdout, so diagnostics go to a log file or stderr.
// Until Init runs only warnings and above reach stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config selects where log lines go and how they look.
type Config struct {
	Level  string // trace, debug, info, warn, error, off
	Format string // json or console
	File   string // appended to when set; otherwise Output
	Output io.Writer
}

var (
	mu      sync.RWMutex
	logFile *os.File
)

var root = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()

// Init replaces the root logger. A log file opened by an earlier Init is
// closed.
func Init(cfg Config) error {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var f *os.File
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		out = f
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: f != nil}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	root = zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return nil
}

// Close releases the log file opened by Init and silences the root logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	root = zerolog.Nop()
	return err
}

// ParseLevel maps a level name to a zerolog.Level. Unknown names and ""
// mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with component=name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With().Str("component", name).Logger()
}
