// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Persistence
	DataDir string `envconfig:"CODEBAKERS_DATA_DIR"` // empty means ~/.codebakers
	Store   string `envconfig:"CODEBAKERS_STORE" default:"sqlite"`

	// ProjectKey identifies the project commands act on. Empty means the
	// project root around the working directory.
	ProjectKey string `envconfig:"CODEBAKERS_PROJECT_KEY"`

	// HTTP API
	HTTPAddr string `envconfig:"CODEBAKERS_HTTP_ADDR" default:":8787"`
}

// Load reads configuration from environment variables and fills the
// data directory default.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".codebakers")
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("invalid CODEBAKERS_STORE %q: want sqlite, file or memory", c.Store)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("CODEBAKERS_HTTP_ADDR must not be empty")
	}
	return nil
}

// IsDevelopment reports whether human-readable console logs are wanted.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
