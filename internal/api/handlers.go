package api

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"minimalapi/internal/cache"
	"minimalapi/internal/errors"
	"minimalapi/internal/registry"
	"minimalapi/internal/users"
)

// tracerName identifies spans started by this package
const tracerName = "minimalapi/api"

// GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteText(w, users.Root(), http.StatusOK)
}

// GET /users?id=
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := QueryInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.GetByID(id), http.StatusOK)
}

// POST /users?id=&name=
func (s *Server) handleCreateUserByParams(w http.ResponseWriter, r *http.Request) {
	id, err := QueryInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := QueryString(r, "name")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.CreateByParams(id, name), http.StatusOK)
}

// POST /users2 (form id, name)
func (s *Server) handleCreateUserByForm(w http.ResponseWriter, r *http.Request) {
	form, err := FormValues(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := FormInt(form, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := FormString(form, "name")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.CreateByForm(id, name), http.StatusOK)
}

// POST /users3 (form User)
func (s *Server) handleCreateUserByFormModel(w http.ResponseWriter, r *http.Request) {
	form, err := FormValues(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := BindFormUser(form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.CreateByModel(u), http.StatusOK)
}

// POST /users4 (JSON UserId)
func (s *Server) handleCreateUserByBodyID(w http.ResponseWriter, r *http.Request) {
	body, err := DecodeJSON[users.UserID](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.CreateByID(body), http.StatusOK)
}

// POST /users5 (JSON User)
func (s *Server) handleCreateUserByBodyModel(w http.ResponseWriter, r *http.Request) {
	body, err := DecodeJSON[users.User](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.CreateByModel(body), http.StatusOK)
}

// POST /users6 (header id)
func (s *Server) handleCreateUserByHeader(w http.ResponseWriter, r *http.Request) {
	id, err := HeaderInt(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	WriteJSON(w, users.CreateByHeader(id), http.StatusOK)
}

// handleUserWithCache serves GET /users7 and /users8. The cache is
// resolved per request so a missing binding yields a 500, not a crash.
func (s *Server) handleUserWithCache(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := QueryInt(r, "id")
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		_, span := otel.Tracer(tracerName).Start(r.Context(), "cache.get",
			trace.WithAttributes(
				attribute.String("cache.label", serviceName(service)),
				attribute.String("cache.key", cache.Key(id)),
			),
		)
		defer span.End()

		c, err := s.caches.Resolve(service)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.writeError(w, r, err)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordCacheResolution(serviceName(service))
		}
		WriteJSON(w, users.GetWithCache(id, c), http.StatusOK)
	}
}

// writeError logs err, counts it, and writes the JSON envelope
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := MapErrorToStatus(code)

	if s.metrics != nil {
		s.metrics.RecordError(string(code))
	}
	attrs := []any{
		"code", string(code),
		"status", status,
		"path", r.URL.Path,
		"requestID", GetRequestID(r.Context()),
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", attrs...)
	} else {
		s.logger.Warn("Request rejected", attrs...)
	}

	WriteError(w, err, status)
}

// serviceName renders a registry label for logs, spans and metrics
func serviceName(label string) string {
	if label == registry.Default {
		return "default"
	}
	return label
}
