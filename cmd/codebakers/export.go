package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codebakers/codebakers/internal/config"
	"github.com/codebakers/codebakers/internal/engineering"
	cbserver "github.com/codebakers/codebakers/internal/server"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the full project record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q: must be json or yaml", format)
			}

			return withDeps(cmd, func(cfg *config.Config, d *cbserver.Deps) error {
				ctx := cmd.Context()
				key, err := projectKey(ctx, cmd, d)
				if err != nil {
					return err
				}
				p, err := d.Store.Load(ctx, key)
				if err != nil {
					return err
				}

				data, err := exportProject(p, format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}

	addProjectFlag(cmd)
	cmd.Flags().StringP("format", "f", "json", "Output format (json or yaml)")

	return cmd
}

// exportProject renders p. YAML goes through the JSON form so both
// formats share the same field names.
func exportProject(p *engineering.Project, format string) ([]byte, error) {
	data, err := engineering.EncodeProject(p)
	if err != nil {
		return nil, err
	}
	if format == "json" {
		return append(data, '\n'), nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("converting project: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling project yaml: %w", err)
	}
	return out, nil
}
