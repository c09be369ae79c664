package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"minimalapi/internal/cache"
	"minimalapi/internal/errors"
	"minimalapi/internal/registry"
)

// Param describes one bound scalar for documentation
type Param struct {
	Name string `json:"name"`
	In   string `json:"in"` // query, header or form
	Type string `json:"type"`
}

// Route is one entry of the HTTP surface
type Route struct {
	Method  string  `json:"method"`
	Path    string  `json:"path"`
	Summary string  `json:"summary"`
	Params  []Param `json:"params,omitempty"`
	// Body names the component schema bound from the request body
	Body string `json:"body,omitempty"`
	// BodyType is the accepted body content type when Body is set
	BodyType string `json:"bodyType,omitempty"`
	// Response names the response schema; empty means plain text
	Response string `json:"response,omitempty"`
	// Service is the registry label injected into the handler, if any
	Service *string `json:"service,omitempty"`
	// DisableAntiforgery accepts form posts from other sites
	DisableAntiforgery bool `json:"disableAntiforgery,omitempty"`

	handler http.HandlerFunc
}

const (
	formType = "application/x-www-form-urlencoded"
	jsonType = "application/json"
)

func label(l string) *string { return &l }

// RequiredServices are the registry labels the routes resolve
var RequiredServices = []string{registry.Default, cache.BigLabel}

// buildRoutes returns the application routes bound to s
func (s *Server) buildRoutes() []Route {
	idQuery := Param{Name: "id", In: "query", Type: "integer"}

	routes := []Route{
		{
			Method: http.MethodGet, Path: "/", Summary: "Service status",
			handler: s.handleRoot,
		},
		{
			Method: http.MethodGet, Path: "/users", Summary: "Echo an id from the query string",
			Params: []Param{idQuery}, Response: "Message",
			handler: s.handleGetUser,
		},
		{
			Method: http.MethodPost, Path: "/users", Summary: "Echo an id and name from the query string",
			Params:   []Param{idQuery, {Name: "name", In: "query", Type: "string"}},
			Response: "Message",
			handler:  s.handleCreateUserByParams,
		},
		{
			Method: http.MethodPost, Path: "/users2", Summary: "Echo an id and name from form fields",
			Params: []Param{
				{Name: "id", In: "form", Type: "integer"},
				{Name: "name", In: "form", Type: "string"},
			},
			BodyType: formType, Response: "Message", DisableAntiforgery: true,
			handler: s.handleCreateUserByForm,
		},
		{
			Method: http.MethodPost, Path: "/users3", Summary: "Echo a User bound from a form",
			Body: "User", BodyType: formType, Response: "Message", DisableAntiforgery: true,
			handler: s.handleCreateUserByFormModel,
		},
		{
			Method: http.MethodPost, Path: "/users4", Summary: "Echo a UserId JSON body",
			Body: "UserId", BodyType: jsonType, Response: "Message",
			handler: s.handleCreateUserByBodyID,
		},
		{
			Method: http.MethodPost, Path: "/users5", Summary: "Echo a User JSON body",
			Body: "User", BodyType: jsonType, Response: "Message",
			handler: s.handleCreateUserByBodyModel,
		},
		{
			Method: http.MethodPost, Path: "/users6", Summary: "Echo an id from a request header",
			Params:   []Param{{Name: "id", In: "header", Type: "integer"}},
			Response: "Message",
			handler:  s.handleCreateUserByHeader,
		},
		{
			Method: http.MethodGet, Path: "/users7", Summary: "Echo an id and look it up in the default cache",
			Params: []Param{idQuery}, Response: "CacheMessage", Service: label(registry.Default),
			handler: s.handleUserWithCache(registry.Default),
		},
		{
			Method: http.MethodGet, Path: "/users8", Summary: "Echo an id and look it up in the big cache",
			Params: []Param{idQuery}, Response: "CacheMessage", Service: label(cache.BigLabel),
			handler: s.handleUserWithCache(cache.BigLabel),
		},
		{
			Method: http.MethodGet, Path: "/health", Summary: "Liveness check",
			Response: "Health",
			handler:  s.handleHealth,
		},
		{
			Method: http.MethodGet, Path: "/ready", Summary: "Readiness check",
			Response: "Ready",
			handler:  s.handleReady,
		},
	}

	if s.metrics != nil {
		routes = append(routes, Route{
			Method: http.MethodGet, Path: "/metrics", Summary: "Prometheus metrics",
			handler: s.handleMetrics,
		})
	}
	if s.config.IsDevelopment() {
		routes = append(routes,
			Route{
				Method: http.MethodGet, Path: "/swagger/openapi.json", Summary: "OpenAPI document (JSON)",
				handler: s.handleOpenAPIJSON,
			},
			Route{
				Method: http.MethodGet, Path: "/swagger/openapi.yaml", Summary: "OpenAPI document (YAML)",
				handler: s.handleOpenAPIYAML,
			},
		)
	}

	return routes
}

// needsAntiforgery reports whether rt binds a form body without opting out
// of the cross-site check
func needsAntiforgery(rt Route) bool {
	return isUnsafeMethod(rt.Method) && rt.BodyType == formType && !rt.DisableAntiforgery
}

// registerRoutes mounts routes on the router. Routes that bind a form body
// get the antiforgery check unless they opt out.
func (s *Server) registerRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.RouteNotFound, "no route for "+r.URL.Path, nil))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.MethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path, nil))
	})

	protected := s.router.With(AntiforgeryMiddleware())
	for _, rt := range s.routes {
		var mux chi.Router = s.router
		if needsAntiforgery(rt) {
			mux = protected
		}
		mux.Method(rt.Method, rt.Path, rt.handler)
	}
}

// Routes returns the mounted routes
func (s *Server) Routes() []Route {
	out := make([]Route, len(s.routes))
	copy(out, s.routes)
	return out
}
