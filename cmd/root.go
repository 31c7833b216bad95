package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"jobdash/internal/logger"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// configPath holds the path to the configuration YAML file,
// passed via the `--config` or `-c` flag.
var configPath string

// rootCmd is the base command for the jobdash CLI.
var rootCmd = &cobra.Command{
	Use:   "jobdash",
	Short: "Job-search dashboard setup and publishing tool",

	// Commands log their own errors with context; cobra's extra output would
	// just duplicate them.
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRun runs before any subcommand and initializes the logger
	// based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
}

// Execute registers global flags and runs the selected subcommand. A fatal
// error from any command yields a non-zero exit status.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "jobdash.yaml", "Path to configuration file")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
