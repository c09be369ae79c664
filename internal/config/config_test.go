package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Environment != Development {
		t.Errorf("Environment = %q, want %q", cfg.Environment, Development)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host = %q, want localhost", cfg.Server.Host)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if !cfg.Server.Compression {
		t.Error("Compression should be enabled by default")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics should be enabled by default")
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, "", false},
		{"production", func(c *Config) { c.Environment = Production }, "", false},
		{"port zero allowed", func(c *Config) { c.Server.Port = 0 }, "", false},
		{"bad environment", func(c *Config) { c.Environment = "staging" }, "environment", true},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "server.port", true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port", true},
		{"negative timeout", func(c *Config) { c.Server.IdleTimeoutSeconds = -5 }, "server", true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format", true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level", true},
		{"uppercase level ok", func(c *Config) { c.Logging.Level = "DEBUG" }, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "server.port", Message: "bad"}
	want := "config error in field 'server.port': bad"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLoad_Default(t *testing.T) {
	res, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !res.UsedDefaults {
		t.Error("UsedDefaults should be true when no file exists")
	}
	if res.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty", res.ConfigPath)
	}
	if res.Config.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", res.Config.Server.Port)
	}
	if res.Config.Logging.Format != "human" {
		t.Errorf("Logging.Format = %q, want human", res.Config.Logging.Format)
	}
}

func TestLoad_FromTOMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `environment = "production"

[server]
host = "0.0.0.0"
port = 8081

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(filepath.Join(dir, "minimalapi.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := res.Config
	if res.UsedDefaults {
		t.Error("UsedDefaults should be false")
	}
	if !strings.HasSuffix(res.ConfigPath, "minimalapi.toml") {
		t.Errorf("ConfigPath = %q, want minimalapi.toml", res.ConfigPath)
	}
	if cfg.Environment != Production {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8081 {
		t.Errorf("Server = %s:%d, want 0.0.0.0:8081", cfg.Server.Host, cfg.Server.Port)
	}
	// Unset keys keep their defaults
	if cfg.Server.ReadTimeoutSeconds != 15 {
		t.Errorf("ReadTimeoutSeconds = %d, want 15", cfg.Server.ReadTimeoutSeconds)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "")
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, ""); err == nil {
		t.Fatal("expected error for invalid config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MINIMALAPI_SERVER_PORT", "9090")
	t.Setenv("MINIMALAPI_LOGGING_LEVEL", "warn")
	t.Setenv("MINIMALAPI_METRICS_ENABLED", "false")

	res, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Config.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", res.Config.Server.Port)
	}
	if res.Config.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", res.Config.Logging.Level)
	}
	if res.Config.Metrics.Enabled {
		t.Error("Metrics.Enabled should be overridden to false")
	}
	if len(res.EnvOverrides) != 3 {
		t.Fatalf("len(EnvOverrides) = %d, want 3: %+v", len(res.EnvOverrides), res.EnvOverrides)
	}
	seen := map[string]string{}
	for _, o := range res.EnvOverrides {
		seen[o.Var] = o.Value
	}
	if seen["MINIMALAPI_SERVER_PORT"] != "9090" {
		t.Errorf("override for port = %q, want 9090", seen["MINIMALAPI_SERVER_PORT"])
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "minimalapi.toml")

	cfg := DefaultConfig()
	cfg.Environment = Production
	cfg.Server.Port = 7070
	cfg.Logging.File = "/tmp/minimalapi.log"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(path, "")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Environment != Production {
		t.Errorf("Environment = %q, want production", loaded.Environment)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", loaded.Server.Port)
	}
	if loaded.Logging.File != "/tmp/minimalapi.log" {
		t.Errorf("Logging.File = %q", loaded.Logging.File)
	}
	if !loaded.Server.Compression {
		t.Error("Compression should survive the round trip")
	}
}

func TestEnvVarName(t *testing.T) {
	tests := map[string]string{
		"environment":               "MINIMALAPI_ENVIRONMENT",
		"server.port":               "MINIMALAPI_SERVER_PORT",
		"server.readTimeoutSeconds": "MINIMALAPI_SERVER_READTIMEOUTSECONDS",
	}
	for key, want := range tests {
		if got := EnvVarName(key); got != want {
			t.Errorf("EnvVarName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestSupportedKeys(t *testing.T) {
	keys := SupportedKeys()
	if len(keys) != len(defaults()) {
		t.Fatalf("len(SupportedKeys) = %d, want %d", len(keys), len(defaults()))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("SupportedKeys not sorted at %d: %q > %q", i, keys[i-1], keys[i])
		}
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "localhost", Port: 5000}
	if s.Addr() != "localhost:5000" {
		t.Errorf("Addr() = %q, want localhost:5000", s.Addr())
	}
	s = ServerConfig{Host: "::1", Port: 80}
	if s.Addr() != "[::1]:80" {
		t.Errorf("Addr() = %q, want [::1]:80", s.Addr())
	}
}
