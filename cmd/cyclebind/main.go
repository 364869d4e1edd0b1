package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cyclebind/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	plugins   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cyclebind",
	Short: "cyclebind - workload template compiler and per-cycle binder",
	Long: `cyclebind compiles operation templates into replayable commands.

A workload document maps field names to literal values or template
strings with {binding} markers. cyclebind classifies every field once,
at compile time, and then realizes the full field mapping for any cycle
number without re-parsing anything.

Use validate to check a workload, render to produce per-cycle output,
and bindings to inspect the registered binding functions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, _ = os.Getwd()
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("File logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace directory (default: cwd)")
	rootCmd.PersistentFlags().StringVar(&plugins, "plugins", "", "directory of binding-function plugins to load")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(bindingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
