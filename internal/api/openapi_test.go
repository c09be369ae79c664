package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOpenAPIJSON(t *testing.T) {
	server := newTestServer(t)

	w := do(t, server, httptest.NewRequest(http.MethodGet, "/swagger/openapi.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	if doc["openapi"] != "3.0.0" {
		t.Errorf("openapi = %v", doc["openapi"])
	}

	paths, ok := doc["paths"].(map[string]interface{})
	if !ok {
		t.Fatalf("paths missing: %T", doc["paths"])
	}
	for _, p := range []string{"/", "/users", "/users2", "/users3", "/users4", "/users5", "/users6", "/users7", "/users8"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("path %s not documented", p)
		}
	}

	users, _ := paths["/users"].(map[string]interface{})
	if _, ok := users["get"]; !ok {
		t.Error("/users get missing")
	}
	if _, ok := users["post"]; !ok {
		t.Error("/users post missing")
	}

	users8, _ := paths["/users8"].(map[string]interface{})
	get, _ := users8["get"].(map[string]interface{})
	if get["x-service"] != "big" {
		t.Errorf("/users8 x-service = %v", get["x-service"])
	}
}

func TestOpenAPIYAML(t *testing.T) {
	server := newTestServer(t)

	w := do(t, server, httptest.NewRequest(http.MethodGet, "/swagger/openapi.yaml", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if doc["openapi"] != "3.0.0" {
		t.Errorf("openapi = %v", doc["openapi"])
	}
}

func TestGenerateOpenAPISpec_Operations(t *testing.T) {
	server := newTestServer(t)
	doc := GenerateOpenAPISpec(server.Routes(), "http://localhost:5000")

	paths := doc["paths"].(map[string]interface{})
	op := func(path, method string) map[string]interface{} {
		t.Helper()
		item, ok := paths[path].(map[string]interface{})
		if !ok {
			t.Fatalf("path %s missing", path)
		}
		o, ok := item[method].(map[string]interface{})
		if !ok {
			t.Fatalf("%s %s missing", method, path)
		}
		return o
	}

	t.Run("header parameter", func(t *testing.T) {
		params := op("/users6", "post")["parameters"].([]map[string]interface{})
		if len(params) != 1 || params[0]["in"] != "header" || params[0]["name"] != "id" {
			t.Errorf("parameters = %v", params)
		}
	})

	t.Run("form fields become request body", func(t *testing.T) {
		o := op("/users2", "post")
		if _, ok := o["parameters"]; ok {
			t.Error("form fields must not be listed as parameters")
		}
		body := o["requestBody"].(map[string]interface{})
		content := body["content"].(map[string]interface{})
		if _, ok := content[formType]; !ok {
			t.Errorf("request body content = %v", content)
		}
	})

	t.Run("json body references schema", func(t *testing.T) {
		body := op("/users4", "post")["requestBody"].(map[string]interface{})
		content := body["content"].(map[string]interface{})
		schema := content[jsonType].(map[string]interface{})["schema"].(map[string]interface{})
		if !strings.HasSuffix(schema["$ref"].(string), "/UserId") {
			t.Errorf("schema = %v", schema)
		}
	})

	t.Run("root returns text", func(t *testing.T) {
		responses := op("/", "get")["responses"].(map[string]interface{})
		if _, ok := responses["400"]; ok {
			t.Error("root has no binding errors")
		}
		ok200 := responses["200"].(map[string]interface{})
		if _, ok := ok200["content"].(map[string]interface{})["text/plain"]; !ok {
			t.Errorf("200 content = %v", ok200["content"])
		}
	})

	t.Run("cache routes document 500", func(t *testing.T) {
		responses := op("/users7", "get")["responses"].(map[string]interface{})
		if _, ok := responses["500"]; !ok {
			t.Error("missing 500 response")
		}
	})

	schemas := doc["components"].(map[string]interface{})["schemas"].(map[string]interface{})
	for _, name := range []string{"User", "UserId", "Message", "CacheMessage", "Error"} {
		if _, ok := schemas[name]; !ok {
			t.Errorf("schema %s missing", name)
		}
	}
}
