package main

import (
	stdlog "log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/codebakers/codebakers/internal/config"
	cbserver "github.com/codebakers/codebakers/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(cfg *config.Config, d *cbserver.Deps) error {
				s := cbserver.New(d)
				d.Logger.Info().Str("version", cbserver.Version).Msg("MCP server starting on stdio")

				// stdio server handles SIGINT/SIGTERM itself.
				return server.ServeStdio(s, server.WithErrorLogger(stdlog.New(d.Logger, "", 0)))
			})
		},
	}
}
