package api

import (
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"minimalapi/internal/version"
)

// handleOpenAPIJSON returns the OpenAPI document as JSON
func (s *Server) handleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, s.openAPI, http.StatusOK)
}

// handleOpenAPIYAML returns the OpenAPI document as YAML
func (s *Server) handleOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	data, err := yaml.Marshal(s.openAPI)
	if err != nil {
		InternalError(w, "failed to render OpenAPI document", err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GenerateOpenAPISpec builds an OpenAPI 3.0 document from the route table
func GenerateOpenAPISpec(routes []Route, serverURL string) map[string]interface{} {
	paths := map[string]interface{}{}
	for _, rt := range routes {
		item, ok := paths[rt.Path].(map[string]interface{})
		if !ok {
			item = map[string]interface{}{}
			paths[rt.Path] = item
		}
		item[strings.ToLower(rt.Method)] = operation(rt)
	}

	return map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Minimal API",
			"version":     version.Version,
			"description": "Demonstration API for parameter binding and named service resolution",
		},
		"servers": []map[string]interface{}{
			{
				"url":         serverURL,
				"description": "Local development server",
			},
		},
		"paths": paths,
		"components": map[string]interface{}{
			"schemas": schemas(),
		},
	}
}

func operation(rt Route) map[string]interface{} {
	op := map[string]interface{}{
		"summary":   rt.Summary,
		"responses": responses(rt),
	}

	var params []map[string]interface{}
	formFields := map[string]interface{}{}
	var formRequired []string
	for _, p := range rt.Params {
		if p.In == "form" {
			formFields[p.Name] = map[string]interface{}{"type": p.Type}
			formRequired = append(formRequired, p.Name)
			continue
		}
		params = append(params, map[string]interface{}{
			"name":     p.Name,
			"in":       p.In,
			"required": true,
			"schema":   map[string]interface{}{"type": p.Type},
		})
	}
	if len(params) > 0 {
		op["parameters"] = params
	}

	switch {
	case rt.Body != "":
		op["requestBody"] = map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				rt.BodyType: map[string]interface{}{"schema": ref(rt.Body)},
			},
		}
	case len(formFields) > 0:
		op["requestBody"] = map[string]interface{}{
			"required": true,
			"content": map[string]interface{}{
				rt.BodyType: map[string]interface{}{
					"schema": map[string]interface{}{
						"type":       "object",
						"properties": formFields,
						"required":   formRequired,
					},
				},
			},
		}
	}

	if rt.Service != nil {
		op["x-service"] = serviceName(*rt.Service)
	}
	return op
}

func responses(rt Route) map[string]interface{} {
	ok := map[string]interface{}{"description": "OK"}
	switch rt.Response {
	case "":
		ok["content"] = map[string]interface{}{
			"text/plain": map[string]interface{}{"schema": map[string]interface{}{"type": "string"}},
		}
	default:
		ok["content"] = map[string]interface{}{
			"application/json": map[string]interface{}{"schema": ref(rt.Response)},
		}
	}

	out := map[string]interface{}{"200": ok}
	errBody := map[string]interface{}{
		"application/json": map[string]interface{}{"schema": ref("Error")},
	}
	if len(rt.Params) > 0 || rt.Body != "" {
		out["400"] = map[string]interface{}{"description": "Binding failed", "content": errBody}
	}
	if rt.BodyType != "" {
		out["415"] = map[string]interface{}{"description": "Unsupported media type", "content": errBody}
	}
	if rt.Service != nil {
		out["500"] = map[string]interface{}{"description": "Service not registered", "content": errBody}
	}
	if rt.Path == "/ready" {
		out["503"] = map[string]interface{}{"description": "Not ready"}
	}
	return out
}

func ref(name string) map[string]interface{} {
	return map[string]interface{}{"$ref": "#/components/schemas/" + name}
}

func object(required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for name, typ := range props {
		properties[name] = map[string]interface{}{"type": typ}
	}
	s := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func schemas() map[string]interface{} {
	return map[string]interface{}{
		"User":         object(nil, map[string]string{"id": "integer", "name": "string"}),
		"UserId":       object(nil, map[string]string{"id": "integer"}),
		"Message":      object([]string{"message"}, map[string]string{"message": "string"}),
		"CacheMessage": object([]string{"message", "cache"}, map[string]string{"message": "string", "cache": "string"}),
		"Health":       object([]string{"status"}, map[string]string{"status": "string", "timestamp": "string", "version": "string", "uptime": "string"}),
		"Ready":        object([]string{"status"}, map[string]string{"status": "string", "timestamp": "string", "missing": "string"}),
		"Error":        object([]string{"error", "code"}, map[string]string{"error": "string", "code": "string"}),
	}
}
