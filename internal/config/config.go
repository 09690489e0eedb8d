// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings. Every field can be set through a
// GROUPLEDGER_* environment variable; cmd/server flags override them.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `env:"GROUPLEDGER_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file.
	DBPath string `env:"GROUPLEDGER_DB_PATH" envDefault:"./data/groupledger.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"GROUPLEDGER_LOG_LEVEL" envDefault:"info"`

	// LogFormat is "text" for colored development output or "json".
	LogFormat string `env:"GROUPLEDGER_LOG_FORMAT" envDefault:"text"`

	// Locale and Currency select how money labels are rendered.
	Locale   string `env:"GROUPLEDGER_LOCALE" envDefault:"en-US"`
	Currency string `env:"GROUPLEDGER_CURRENCY" envDefault:"USD"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `env:"GROUPLEDGER_METRICS" envDefault:"true"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"GROUPLEDGER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot check by itself.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.LogFormat)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}
