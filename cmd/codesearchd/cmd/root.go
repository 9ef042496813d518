// Package cmd provides the codesearchd CLI commands, a thin cobra layer
// over internal/dispatcher (spec §1: the command surface carries no core
// logic of its own).
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/codesearchcore/codesearchcore/internal/config"
	"github.com/codesearchcore/codesearchcore/internal/logging"
	"github.com/codesearchcore/codesearchcore/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the codesearchd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "codesearchd",
		Short:   "Local semantic code search core",
		Version: version.Version,
		Long: `codesearchd indexes source trees into searchable chunk embeddings
and answers semantic search, file-context, and indexing-status requests
entirely from local state.`,
	}
	cmd.SetVersionTemplate("codesearchd version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging to ~/.codesearchd/logs/")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newQueueCmd())

	return cmd
}

// setupLogger builds the shared slog.Logger for a command invocation.
func setupLogger() (*slog.Logger, func(), error) {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
	}
	return logging.Setup(logCfg)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
