package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var limit int
	var project string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a semantic search against the indexed projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, cleanup, err := setupLogger()
			if err != nil {
				return err
			}
			defer cleanup()

			d, err := buildDispatcher(cfg, logger)
			if err != nil {
				return err
			}

			results, err := d.SemanticSearch(cmd.Context(), query, limit, project)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "no results")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "%.4f  %s:%d-%d  [%s]\n", r.Score, r.File, r.StartLine, r.EndLine, r.Project)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	cmd.Flags().StringVar(&project, "project", "", "restrict results to one project")
	return cmd
}
