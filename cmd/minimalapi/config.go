package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"minimalapi/internal/config"
)

var (
	configFormat   string
	configInitPath string
	configForce    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and create the minimalapi configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration after file and environment overrides.

Examples:
  minimalapi config show                # Pretty-print current config
  minimalapi config show --format json  # JSON output
  minimalapi config show --format toml  # TOML, suitable as a config file`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Long:  "Display all supported MINIMALAPI_* environment variable overrides",
	Args:  cobra.NoArgs,
	Run:   runConfigEnv,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (human, json, yaml, toml)")
	configInitCmd.Flags().StringVar(&configInitPath, "path", "minimalapi.toml", "Where to write the config file")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show --format json
type ConfigShowResponse struct {
	ConfigPath   string               `json:"configPath,omitempty"`
	UsedDefaults bool                 `json:"usedDefaults"`
	EnvOverrides []config.EnvOverride `json:"envOverrides,omitempty"`
	Config       *config.Config       `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	result, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	return writeConfig(cmd.OutOrStdout(), result, configFormat)
}

func writeConfig(w io.Writer, result *config.LoadResult, format string) error {
	switch format {
	case "human":
		writeConfigHuman(w, result)
		return nil
	case "json":
		data, err := json.MarshalIndent(ConfigShowResponse{
			ConfigPath:   result.ConfigPath,
			UsedDefaults: result.UsedDefaults,
			EnvOverrides: result.EnvOverrides,
			Config:       result.Config,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(result.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "toml":
		data, err := toml.Marshal(result.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal TOML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeConfigHuman(w io.Writer, result *config.LoadResult) {
	fmt.Fprintln(w, "Minimal API Configuration")
	fmt.Fprintln(w, strings.Repeat("─", 50))

	if result.UsedDefaults {
		fmt.Fprintln(w, "Source: defaults (no config file found)")
	} else if result.ConfigPath != "" {
		fmt.Fprintf(w, "Source: %s\n", result.ConfigPath)
	}

	if len(result.EnvOverrides) > 0 {
		fmt.Fprintln(w, "\nEnvironment Overrides:")
		for _, ov := range result.EnvOverrides {
			fmt.Fprintf(w, "  %s=%s → %s\n", ov.Var, ov.Value, ov.Key)
		}
	}
	fmt.Fprintln(w)

	cfg := result.Config
	defaults := config.DefaultConfig()

	printConfigSection(w, "environment", cfg.Environment, defaults.Environment)

	fmt.Fprintln(w, "\nserver:")
	printConfigSection(w, "  host", cfg.Server.Host, defaults.Server.Host)
	printConfigSection(w, "  port", cfg.Server.Port, defaults.Server.Port)
	printConfigSection(w, "  readTimeoutSeconds", cfg.Server.ReadTimeoutSeconds, defaults.Server.ReadTimeoutSeconds)
	printConfigSection(w, "  writeTimeoutSeconds", cfg.Server.WriteTimeoutSeconds, defaults.Server.WriteTimeoutSeconds)
	printConfigSection(w, "  idleTimeoutSeconds", cfg.Server.IdleTimeoutSeconds, defaults.Server.IdleTimeoutSeconds)
	printConfigSection(w, "  shutdownTimeoutSeconds", cfg.Server.ShutdownTimeoutSeconds, defaults.Server.ShutdownTimeoutSeconds)
	printConfigSection(w, "  compression", cfg.Server.Compression, defaults.Server.Compression)

	fmt.Fprintln(w, "\nlogging:")
	printConfigSection(w, "  format", cfg.Logging.Format, defaults.Logging.Format)
	printConfigSection(w, "  level", cfg.Logging.Level, defaults.Logging.Level)
	printConfigSection(w, "  file", valueOrDefault(cfg.Logging.File, "(stderr)"), "(stderr)")

	fmt.Fprintln(w, "\nmetrics:")
	printConfigSection(w, "  enabled", cfg.Metrics.Enabled, defaults.Metrics.Enabled)

	fmt.Fprintln(w, "\ntracing:")
	printConfigSection(w, "  enabled", cfg.Tracing.Enabled, defaults.Tracing.Enabled)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use 'minimalapi config show --format json' for machine-readable output")
	fmt.Fprintln(w, "Use 'minimalapi config env' to see supported environment variables")
}

func printConfigSection(w io.Writer, name string, value, defaultValue interface{}) {
	modified := ""
	if !isEqual(value, defaultValue) {
		modified = fmt.Sprintf(" (default: %v)", defaultValue)
	}
	fmt.Fprintf(w, "%s: %v%s\n", name, value, modified)
}

func isEqual(a, b interface{}) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := initConfigFile(configInitPath, configForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", configInitPath)
	return nil
}

func initConfigFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return config.DefaultConfig().Save(path)
}

func runConfigEnv(cmd *cobra.Command, args []string) {
	writeConfigEnv(cmd.OutOrStdout(), os.LookupEnv)
}

func writeConfigEnv(w io.Writer, lookup func(string) (string, bool)) {
	fmt.Fprintln(w, "Supported Environment Variables")
	fmt.Fprintln(w, strings.Repeat("─", 50))
	for _, key := range config.SupportedKeys() {
		name := config.EnvVarName(key)
		if val, ok := lookup(name); ok {
			fmt.Fprintf(w, "  %-42s %s (set: %s)\n", name, key, val)
			continue
		}
		fmt.Fprintf(w, "  %-42s %s\n", name, key)
	}
}
