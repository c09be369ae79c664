package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"minimalapi/internal/errors"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want int
	}{
		{errors.BindingFailed, http.StatusBadRequest},
		{errors.AntiforgeryRejected, http.StatusBadRequest},
		{errors.RouteNotFound, http.StatusNotFound},
		{errors.MethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.UnsupportedMediaType, http.StatusUnsupportedMediaType},
		{errors.ServiceNotRegistered, http.StatusInternalServerError},
		{errors.DuplicateService, http.StatusInternalServerError},
		{errors.InternalError, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError}, // default case
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got := MapErrorToStatus(tt.code)
			if got != tt.want {
				t.Errorf("MapErrorToStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("writes basic error", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := fmt.Errorf("something went wrong")

		WriteError(w, err, http.StatusInternalServerError)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var resp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Error != "something went wrong" {
			t.Errorf("error = %q", resp.Error)
		}
		if resp.Code != "INTERNAL_ERROR" {
			t.Errorf("code = %q, want INTERNAL_ERROR", resp.Code)
		}
	})

	t.Run("uses api error message and details", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := errors.New(errors.BindingFailed, "bad id", fmt.Errorf("strconv: invalid syntax")).
			WithDetails(map[string]string{"name": "id"})

		WriteError(w, err, http.StatusBadRequest)

		var resp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Error != "bad id" {
			t.Errorf("error = %q, cause must not leak", resp.Error)
		}
		if resp.Code != "BINDING_FAILED" {
			t.Errorf("code = %q", resp.Code)
		}
		details, ok := resp.Details.(map[string]interface{})
		if !ok || details["name"] != "id" {
			t.Errorf("details = %#v", resp.Details)
		}
	})

	t.Run("wrapped api error", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := fmt.Errorf("resolve: %w", errors.New(errors.ServiceNotRegistered, "no big", nil))

		WriteAPIError(w, err)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d", w.Code)
		}
		var resp ErrorResponse
		_ = json.NewDecoder(w.Body).Decode(&resp)
		if resp.Code != "SERVICE_NOT_REGISTERED" {
			t.Errorf("code = %q", resp.Code)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, map[string]int{"n": 1}, http.StatusCreated)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.String() != "{\"n\":1}\n" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestBadRequestAndInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	BadRequest(w, "nope")
	if w.Code != http.StatusBadRequest {
		t.Errorf("BadRequest status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	InternalError(w, "failed", fmt.Errorf("secret detail"))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("InternalError status = %d", w.Code)
	}
	var resp ErrorResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error != "failed" {
		t.Errorf("error = %q", resp.Error)
	}
}
