// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Values come from environment
// variables, optionally seeded from a .env file by the caller.
type Config struct {
	DBPath     string `env:"MEETCAL_DB_PATH" envDefault:"meetcal.db"`
	ExportFile string `env:"MEETCAL_EXPORT_FILE" envDefault:"meetings.ics"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
