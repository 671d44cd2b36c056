package config

import (
	"errors"

	"github.com/caarlos0/env/v6"
)

// Config holds the reports module configuration.
type Config struct {
	// Directory completed report documents are written to.
	ReportsDir string `env:"REPORTS_DIR" envDefault:"reports"`

	// Maximum articles collected per report.
	SearchLimit int `env:"REPORT_SEARCH_LIMIT" envDefault:"100"`

	// Redis Stream trim threshold for progress events.
	StreamMaxLength int64 `env:"REPORT_STREAM_MAX_LENGTH" envDefault:"10000"`
}

// LoadConfig loads the reports configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load reports configuration from environment: " + err.Error())
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = "reports"
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 100
	}
	if cfg.StreamMaxLength <= 0 {
		cfg.StreamMaxLength = 10000
	}
	return cfg, nil
}
