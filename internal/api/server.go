package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"minimalapi/internal/cache"
	"minimalapi/internal/config"
	"minimalapi/internal/registry"
)

// Server represents the HTTP API server
type Server struct {
	router  chi.Router
	handler http.Handler
	server  *http.Server
	config  *config.Config
	logger  *slog.Logger
	caches  *registry.Registry[cache.Cache]
	metrics *MetricsCollector
	routes  []Route
	openAPI map[string]interface{}

	startTime time.Time
}

// NewServer creates a new HTTP server instance. It fails when cfg is invalid
// or caches lacks a label one of the routes resolves.
func NewServer(cfg *config.Config, caches *registry.Registry[cache.Cache], logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if caches == nil {
		return nil, fmt.Errorf("cache registry is required")
	}
	if err := caches.Require(RequiredServices...); err != nil {
		return nil, fmt.Errorf("cache registry: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		caches:    caches,
		startTime: time.Now(),
	}
	if cfg.Metrics.Enabled {
		s.metrics = NewMetricsCollector()
	}

	// Middleware must be installed before any route is mounted.
	s.router.Use(
		CORSMiddleware(),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger, s.metrics),
		RecoveryMiddleware(s.logger),
	)

	s.routes = s.buildRoutes()
	s.registerRoutes()
	s.openAPI = GenerateOpenAPISpec(s.routes, "http://"+cfg.Server.Addr())

	var handler http.Handler = s.router
	if cfg.Server.Compression {
		handler = CompressionMiddleware()(handler)
	}
	handler = otelhttp.NewHandler(handler, "minimalapi",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	s.handler = handler

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return s, nil
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(ln)
}

// Serve serves requests from ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server",
		"addr", ln.Addr().String(),
		"environment", s.config.Environment,
		"services", s.caches.Len(),
	)

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully")
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Metrics returns the collector, nil when metrics are disabled
func (s *Server) Metrics() *MetricsCollector {
	return s.metrics
}
