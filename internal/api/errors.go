package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"minimalapi/internal/errors"
)

// ErrorResponse represents an HTTP error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// WriteError writes an error response with an explicit status
func WriteError(w http.ResponseWriter, err error, status int) {
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  string(errors.InternalError),
	}

	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		resp.Error = apiErr.Message
		resp.Code = string(apiErr.Code)
		resp.Details = apiErr.Details
	}

	WriteJSON(w, resp, status)
}

// WriteAPIError writes err with the status mapped from its code
func WriteAPIError(w http.ResponseWriter, err error) {
	WriteError(w, err, MapErrorToStatus(errors.CodeOf(err)))
}

// MapErrorToStatus maps error codes to HTTP status codes
func MapErrorToStatus(code errors.ErrorCode) int {
	switch code {
	case errors.BindingFailed:
		return http.StatusBadRequest // 400
	case errors.AntiforgeryRejected:
		return http.StatusBadRequest // 400
	case errors.RouteNotFound:
		return http.StatusNotFound // 404
	case errors.MethodNotAllowed:
		return http.StatusMethodNotAllowed // 405
	case errors.UnsupportedMediaType:
		return http.StatusUnsupportedMediaType // 415
	case errors.ServiceNotRegistered:
		return http.StatusInternalServerError // 500
	case errors.InternalError:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, body string, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// BadRequest writes a 400 Bad Request error
func BadRequest(w http.ResponseWriter, message string) {
	WriteAPIError(w, errors.New(errors.BindingFailed, message, nil))
}

// InternalError writes a 500 Internal Server Error. The cause is not sent
// to the client.
func InternalError(w http.ResponseWriter, message string, err error) {
	WriteAPIError(w, errors.New(errors.InternalError, message, err))
}
