package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Index a project directory, or reindex it if already known",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

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

			// ReloadIndex reindexes a known project by name, or indexes a
			// fresh root by path; resolve which one this already-registered
			// root corresponds to before calling it.
			target := path
			name := filepath.Base(filepath.Clean(path))
			if meta, ok := d.Registry.Lookup(name); ok && meta.RootPath == path {
				target = name
			}

			jobID, err := d.ReloadIndex(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scheduled indexing job %s for %s\n", jobID, path)
			return nil
		},
	}
	return cmd
}
