package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	// FileName is the base name searched for when no explicit path is given
	FileName = "minimalapi"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "MINIMALAPI"

	// Development enables the API documentation endpoints
	Development = "development"
	// Production disables them
	Production = "production"
)

// Config represents the complete service configuration
type Config struct {
	Environment string        `json:"environment" toml:"environment" yaml:"environment" mapstructure:"environment"`
	Server      ServerConfig  `json:"server" toml:"server" yaml:"server" mapstructure:"server"`
	Logging     LoggingConfig `json:"logging" toml:"logging" yaml:"logging" mapstructure:"logging"`
	Metrics     MetricsConfig `json:"metrics" toml:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Tracing     TracingConfig `json:"tracing" toml:"tracing" yaml:"tracing" mapstructure:"tracing"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host                   string `json:"host" toml:"host" yaml:"host" mapstructure:"host"`
	Port                   int    `json:"port" toml:"port" yaml:"port" mapstructure:"port"`
	ReadTimeoutSeconds     int    `json:"readTimeoutSeconds" toml:"readTimeoutSeconds" yaml:"readTimeoutSeconds" mapstructure:"readTimeoutSeconds"`
	WriteTimeoutSeconds    int    `json:"writeTimeoutSeconds" toml:"writeTimeoutSeconds" yaml:"writeTimeoutSeconds" mapstructure:"writeTimeoutSeconds"`
	IdleTimeoutSeconds     int    `json:"idleTimeoutSeconds" toml:"idleTimeoutSeconds" yaml:"idleTimeoutSeconds" mapstructure:"idleTimeoutSeconds"`
	ShutdownTimeoutSeconds int    `json:"shutdownTimeoutSeconds" toml:"shutdownTimeoutSeconds" yaml:"shutdownTimeoutSeconds" mapstructure:"shutdownTimeoutSeconds"`
	Compression            bool   `json:"compression" toml:"compression" yaml:"compression" mapstructure:"compression"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" toml:"format" yaml:"format" mapstructure:"format"`
	Level  string `json:"level" toml:"level" yaml:"level" mapstructure:"level"`
	File   string `json:"file" toml:"file" yaml:"file" mapstructure:"file"`
}

// MetricsConfig contains metrics configuration
type MetricsConfig struct {
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled bool `json:"enabled" toml:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Host:                   "localhost",
			Port:                   5000,
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    15,
			IdleTimeoutSeconds:     60,
			ShutdownTimeoutSeconds: 10,
			Compression:            true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			Enabled: false,
		},
	}
}

// defaults flattens DefaultConfig into viper keys. Viper only maps
// environment variables onto keys it already knows about.
func defaults() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"environment":                   d.Environment,
		"server.host":                   d.Server.Host,
		"server.port":                   d.Server.Port,
		"server.readTimeoutSeconds":     d.Server.ReadTimeoutSeconds,
		"server.writeTimeoutSeconds":    d.Server.WriteTimeoutSeconds,
		"server.idleTimeoutSeconds":     d.Server.IdleTimeoutSeconds,
		"server.shutdownTimeoutSeconds": d.Server.ShutdownTimeoutSeconds,
		"server.compression":            d.Server.Compression,
		"logging.format":                d.Logging.Format,
		"logging.level":                 d.Logging.Level,
		"logging.file":                  d.Logging.File,
		"metrics.enabled":               d.Metrics.Enabled,
		"tracing.enabled":               d.Tracing.Enabled,
	}
}

// EnvOverride records an environment variable that changed a setting
type EnvOverride struct {
	Var   string `json:"var"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LoadResult is the outcome of Load
type LoadResult struct {
	Config       *Config
	ConfigPath   string
	UsedDefaults bool
	EnvOverrides []EnvOverride
}

// Load reads configuration from path, or searches dir for minimalapi.{toml,json,yaml}
// when path is empty. Environment variables override file values.
func Load(path, dir string) (*LoadResult, error) {
	v := viper.New()
	for key, val := range defaults() {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
	}

	result := &LoadResult{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		result.UsedDefaults = true
	} else {
		result.ConfigPath = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	result.Config = &cfg
	result.EnvOverrides = envOverrides()

	return result, nil
}

// LoadConfig is Load without the details
func LoadConfig(path, dir string) (*Config, error) {
	res, err := Load(path, dir)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// EnvVarName returns the environment variable that overrides key
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SupportedKeys returns every configuration key in sorted order
func SupportedKeys() []string {
	keys := make([]string, 0, len(defaults()))
	for k := range defaults() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func envOverrides() []EnvOverride {
	var out []EnvOverride
	for _, key := range SupportedKeys() {
		name := EnvVarName(key)
		if val, ok := os.LookupEnv(name); ok {
			out = append(out, EnvOverride{Var: name, Key: key, Value: val})
		}
	}
	return out
}

// Save writes the configuration to path as TOML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Environment != Development && c.Environment != Production {
		return &ConfigError{Field: "environment", Message: "must be 'development' or 'production'"}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 ||
		c.Server.IdleTimeoutSeconds < 0 || c.Server.ShutdownTimeoutSeconds < 0 {
		return &ConfigError{Field: "server", Message: "timeouts must be non-negative"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be 'human' or 'json'"}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "must be one of debug, info, warn, error"}
	}
	return nil
}

// IsDevelopment reports whether development-only features are on
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ShutdownTimeout returns the graceful shutdown budget
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
