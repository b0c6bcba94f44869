// Command captionctl inspects and exports a caption dataset directory without running the server.
package main

import (
	"fmt"
	"os"

	"github.com/captionset/backend/internal/app"
	"github.com/captionset/backend/internal/config"
	"github.com/captionset/backend/internal/logger"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all subcommands
type cli struct {
	dataDir  string
	logLevel string

	cfg     *config.Config
	dataset *app.Dataset
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "captionctl",
		Short:         "Inspect and export a multilingual image caption dataset.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "dataset directory (default is $DATA_DIR or ./data)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (default is $LOG_LEVEL or info)")

	rootCmd.AddCommand(newStatsCmd(c))
	rootCmd.AddCommand(newExportCmd(c))
	rootCmd.AddCommand(newByLanguageCmd(c))
	rootCmd.AddCommand(newLanguagesCmd(c))

	return rootCmd
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.dataDir != "" {
		cfg.Storage.DataDir = c.dataDir
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.cfg = cfg
	c.dataset = app.NewDataset(cfg.Storage, logger.Logger)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
