package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codebakers/codebakers/internal/config"
	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
	cbserver "github.com/codebakers/codebakers/internal/server"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <command> [json-args|-]",
		Short: "Run one engineering command",
		Long: `Run one engineering command against the configured store.

Commands: ` + strings.Join(orchestrator.Commands, ", ") + `

Arguments are a JSON object, e.g.
  codebakers run start '{"project_name":"Shop"}'
  codebakers run scope '{"step_id":"platforms","answer":["web","api"]}'
Pass "-" to read the arguments from stdin.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readArgs(cmd, args[1:])
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			return withDeps(cmd, func(cfg *config.Config, d *cbserver.Deps) error {
				ctx := cmd.Context()
				key, err := projectKey(ctx, cmd, d)
				if err != nil {
					return err
				}

				res, err := d.Orchestrator.Execute(ctx, key, args[0], raw)
				if err != nil {
					if remedy := engineering.RemedyOf(err); remedy != "" {
						return fmt.Errorf("%w\n\nNext: %s", err, remedy)
					}
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(res)
				}
				_, err = fmt.Fprintln(out, res.Summary)
				return err
			})
		},
	}

	addProjectFlag(cmd)
	cmd.Flags().BoolP("json", "j", false, "Output the result as JSON")

	return cmd
}
