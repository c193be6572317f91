// Package config loads revint settings from defaults, an optional YAML file
// and REVINT_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/alexanderramin/revint/internal/validation"
)

// PathEnvVar overrides the config file search.
const PathEnvVar = "REVINT_CONFIG"

const DefaultBaseURL = "http://localhost:8000/api/v1"

type Config struct {
	API       APIConfig       `koanf:"api"`
	Session   SessionConfig   `koanf:"session"`
	Log       LogConfig       `koanf:"log"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type APIConfig struct {
	BaseURL   string        `koanf:"base_url" validate:"required,url"`
	Key       string        `koanf:"key"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	UserAgent string        `koanf:"user_agent"`
}

type SessionConfig struct {
	DBPath string `koanf:"db_path" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
	File   string `koanf:"file"`
}

type DashboardConfig struct {
	OverviewDays     int           `koanf:"overview_days" validate:"min=1,max=365"`
	PatientLimit     int           `koanf:"patient_limit" validate:"min=1,max=1000"`
	UserInfoFallback time.Duration `koanf:"user_info_fallback" validate:"gt=0"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	ServiceName  string `koanf:"service_name" validate:"required"`
}

// Dir is the per-user state directory, ~/.revint.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".revint"
	}
	return filepath.Join(home, ".revint")
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: "revint",
		},
		Session: SessionConfig{
			DBPath: filepath.Join(Dir(), "session.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(Dir(), "revint.log"),
		},
		Dashboard: DashboardConfig{
			OverviewDays:     30,
			PatientLimit:     50,
			UserInfoFallback: 3 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "revint",
		},
	}
}

// Load builds the configuration. Tracing stays disabled unless an OTLP
// endpoint is configured.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("REVINT_", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range []string{"revint.yaml", filepath.Join(Dir(), "config.yaml")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"revint_api_base_url":       "api.base_url",
	"revint_api_key":            "api.key",
	"revint_api_timeout":        "api.timeout",
	"revint_user_agent":         "api.user_agent",
	"revint_session_db":         "session.db_path",
	"revint_log_level":          "log.level",
	"revint_log_format":         "log.format",
	"revint_log_file":           "log.file",
	"revint_overview_days":      "dashboard.overview_days",
	"revint_patient_limit":      "dashboard.patient_limit",
	"revint_user_info_fallback": "dashboard.user_info_fallback",
	"revint_otlp_endpoint":      "telemetry.otlp_endpoint",
	"revint_otel_service_name":  "telemetry.service_name",
}

// envTransformFunc maps REVINT_* variables onto config paths. Unknown
// variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
