package api

import (
	"net/http"
	"time"

	"minimalapi/internal/version"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []string  `json:"services"`
	Missing   string    `json:"missing,omitempty"`
}

// handleHealth is a liveness check for load balancers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Info(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}, http.StatusOK)
}

// handleReady reports whether every label the routes resolve is bound
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	labels := s.caches.Labels()
	services := make([]string, len(labels))
	for i, l := range labels {
		services[i] = serviceName(l)
	}

	resp := ReadyResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
	status := http.StatusOK
	if err := s.caches.Require(RequiredServices...); err != nil {
		resp.Status = "not_ready"
		resp.Missing = err.Error()
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, resp, status)
}
