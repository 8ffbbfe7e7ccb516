package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codebakers/codebakers/internal/config"
	cbserver "github.com/codebakers/codebakers/internal/server"
)

// newLogger builds the process logger. Logs go to w (stderr in every
// mode, since stdout carries the MCP protocol or command output).
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).With().Timestamp().Caller().Logger()

	if cfg.IsDevelopment() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w})
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Logger = logger
	return logger
}

// withDeps loads configuration, builds every dependency and runs fn.
func withDeps(cmd *cobra.Command, fn func(cfg *config.Config, d *cbserver.Deps) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	d, cleanup, err := cbserver.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating dependencies: %w", err)
	}
	defer cleanup()

	return fn(cfg, d)
}

// projectKey returns the --project flag when set, otherwise the
// configured key resolution.
func projectKey(ctx context.Context, cmd *cobra.Command, d *cbserver.Deps) (string, error) {
	if flag, _ := cmd.Flags().GetString("project"); strings.TrimSpace(flag) != "" {
		return strings.TrimSpace(flag), nil
	}
	key, err := d.KeyFn(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving project key: %w", err)
	}
	return key, nil
}

func addProjectFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("project", "p", "", "Project key (overrides CODEBAKERS_PROJECT_KEY)")
}

// readArgs returns the JSON argument text: the positional value, stdin
// when it is "-", or "{}" when absent.
func readArgs(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 {
		return []byte("{}"), nil
	}
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading arguments from stdin: %w", err)
		}
		return data, nil
	}
	return []byte(args[0]), nil
}
