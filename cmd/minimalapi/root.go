package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"minimalapi/internal/config"
	"minimalapi/internal/slogutil"
	"minimalapi/internal/version"
)

var (
	// configPath is the --config flag value
	configPath string
	verbosity  int
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "minimalapi",
	Short: "Minimal API - parameter binding and named service demo",
	Long: `Minimal API is a small HTTP service that shows how request values are
bound from the query string, form fields, JSON bodies and headers, and how
handlers receive cache services resolved by label from a registry.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("minimalapi version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: minimalapi.{toml,json,yaml} in the working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
}

// loadConfig loads configuration from --config or the working directory
func loadConfig() (*config.LoadResult, error) {
	return config.Load(configPath, ".")
}

// levelOverride returns the log level forced by -v/--quiet, if any
func levelOverride() *slog.Level {
	level, ok := slogutil.LevelFromVerbosity(verbosity, quiet)
	if !ok {
		return nil
	}
	return &level
}
