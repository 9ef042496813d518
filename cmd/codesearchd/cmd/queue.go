package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codesearchcore/codesearchcore/internal/model"
	"github.com/codesearchcore/codesearchcore/internal/ui"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the indexing queue and registered projects",
	}
	cmd.AddCommand(newQueueListCmd())
	cmd.AddCommand(newQueueStatusCmd())
	cmd.AddCommand(newProjectsCmd())
	return cmd
}

func newQueueListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every known indexing job",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			v, err := d.IndexingProgress("")
			if err != nil {
				return err
			}
			jobs := v.([]*model.Job)
			ui.NewRenderer(cmd.OutOrStdout()).Render(jobs)
			return nil
		},
	}
}

func newQueueStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show one indexing job's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			job, err := d.IndexingProgress(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", job)
			return nil
		},
	}
}

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List every registered project",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			for _, meta := range d.ListProjects() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-10s %6d files %6d chunks\n",
					meta.Name, meta.IndexStatus, meta.FileCount, meta.ChunkCount)
			}
			return nil
		},
	}
}
