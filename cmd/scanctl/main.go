package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudscan/dupescan/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// configPath, logLevel, and logPretty are bound to persistent flags on the
// root command, so every subcommand sees the same config file and starts
// with the global zerolog logger already configured.
var (
	configPath string
	logLevel   string
	logPretty  bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "scanctl",
		Short:   "Find and resolve duplicate files across a cloud storage account",
		Version: version + " (" + commit + ")",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logging.Configure(logLevel, logPretty)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (YAML/JSON/TOML)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&logPretty, "log-pretty", true, "Human-readable console logs instead of JSON")

	root.AddCommand(newScanCmd())
	root.AddCommand(newApproveCmd())
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
