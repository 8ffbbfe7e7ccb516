package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codebakers/codebakers/internal/config"
	"github.com/codebakers/codebakers/internal/httpapi"
	cbserver "github.com/codebakers/codebakers/internal/server"
)

func httpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Start the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(cfg *config.Config, d *cbserver.Deps) error {
				addr := cfg.HTTPAddr
				if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
					addr = flag
				}

				srv := httpapi.NewServer(httpapi.Config{ListenAddr: addr}, d.Orchestrator, d.Store, d.Metrics, d.Logger)

				errCh := make(chan error, 1)
				go func() { errCh <- srv.Start() }()

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(sigCh)

				select {
				case err := <-errCh:
					if err != nil {
						return fmt.Errorf("http server: %w", err)
					}
					return nil
				case sig := <-sigCh:
					d.Logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
					return srv.Shutdown()
				}
			})
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides CODEBAKERS_HTTP_ADDR)")

	return cmd
}
