package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codebakers/codebakers/internal/config"
	"github.com/codebakers/codebakers/internal/engineering"
	cbserver "github.com/codebakers/codebakers/internal/server"
	"github.com/codebakers/codebakers/internal/storage"
)

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the projects in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(cfg *config.Config, d *cbserver.Deps) error {
				lister, ok := d.Store.(engineering.Lister)
				if !ok {
					return fmt.Errorf("store %q cannot list projects", cfg.Store)
				}
				list, err := lister.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects yet. Start one with `codebakers run start`.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KEY\tNAME\tPHASE\tPROGRESS\tVERSION")
				for _, s := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%d\n", s.Key, s.Name, s.Phase, s.Progress, s.Version)
				}
				return w.Flush()
			})
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the save history of a project (sqlite store)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(cfg *config.Config, d *cbserver.Deps) error {
				hs, ok := d.Store.(interface {
					History(ctx context.Context, key string) ([]storage.HistoryEntry, error)
				})
				if !ok {
					return errors.New("history needs CODEBAKERS_STORE=sqlite")
				}
				ctx := cmd.Context()
				key, err := projectKey(ctx, cmd, d)
				if err != nil {
					return err
				}
				entries, err := hs.History(ctx, key)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return engineering.NoProject(key)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tPHASE\tSAVED AT")
				for _, e := range entries {
					fmt.Fprintf(w, "%d\t%s\t%s\n", e.Version, e.Phase, e.SavedAt)
				}
				return w.Flush()
			})
		},
	}

	addProjectFlag(cmd)

	return cmd
}
