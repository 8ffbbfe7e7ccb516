// CodeBakers: Engineering Session Orchestrator
//
// An MCP server that walks an AI coding tool through a gated, multi-phase
// engineering workflow: scoping, requirements, architecture, reviews,
// testing and launch, with a decision log and a file dependency graph.
//
// Usage:
//
//	codebakers serve                    # Start MCP server (stdio transport)
//	codebakers http                     # Start the JSON HTTP API
//	codebakers run status               # Run one command against the store
//	codebakers export --format yaml     # Dump the project record
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cbserver "github.com/codebakers/codebakers/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "codebakers",
		Short: "CodeBakers - engineering session orchestrator",
		Long: `CodeBakers guides an AI coding tool through a gated engineering workflow.

Configuration comes from the environment:
  ENVIRONMENT              development enables console logs (default production)
  LOG_LEVEL                zerolog level (default info)
  CODEBAKERS_STORE         sqlite | file | memory (default sqlite)
  CODEBAKERS_DATA_DIR      store directory (default ~/.codebakers)
  CODEBAKERS_PROJECT_KEY   project key (default: the project root directory)
  CODEBAKERS_HTTP_ADDR     HTTP API address (default :8787)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "codebakers": {
        "command": "codebakers",
        "args": ["serve"]
      }
    }
  }`,
		Version:       cbserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(httpCmd())
	root.AddCommand(runCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(projectsCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codebakers v%s\n", cbserver.Version)
		},
	}
}
