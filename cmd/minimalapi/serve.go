package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"minimalapi/internal/api"
	"minimalapi/internal/cache"
	"minimalapi/internal/config"
	"minimalapi/internal/slogutil"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Start the HTTP API server. Settings come from the config file and
MINIMALAPI_* environment variables; --host and --port override both.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config: 5000)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config: localhost)")
}

// applyServeFlags copies explicitly set flags over the loaded config
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	result, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := result.Config
	applyServeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := slogutil.FromConfig(cfg.Logging, os.Stderr, levelOverride())
	if err != nil {
		return err
	}
	defer closer.Close()

	if result.UsedDefaults {
		logger.Debug("No config file found, using defaults")
	} else {
		logger.Debug("Loaded config", "path", result.ConfigPath)
	}
	for _, ov := range result.EnvOverrides {
		logger.Debug("Environment override", "var", ov.Var, "key", ov.Key)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err.Error())
		}
	}()

	caches, err := cache.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to build cache registry: %w", err)
	}

	server, err := api.NewServer(cfg, caches, logger)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Minimal API listening on http://%s\n", cfg.Server.Addr())
		fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to stop")
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err.Error())
			return err
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()

		if err := server.Shutdown(sctx); err != nil {
			logger.Error("Error during shutdown", "error", err.Error())
			return err
		}
		logger.Info("Server stopped gracefully")
	}

	return nil
}
