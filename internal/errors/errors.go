package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// BindingFailed indicates request data did not parse into the declared shape
	BindingFailed ErrorCode = "BINDING_FAILED"
	// UnsupportedMediaType indicates a body in a content type the route cannot bind
	UnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	// ServiceNotRegistered indicates no registry binding exists for a label
	ServiceNotRegistered ErrorCode = "SERVICE_NOT_REGISTERED"
	// DuplicateService indicates a label was registered twice
	DuplicateService ErrorCode = "DUPLICATE_SERVICE"
	// RegistryFrozen indicates a registration after the registry was built
	RegistryFrozen ErrorCode = "REGISTRY_FROZEN"
	// RouteNotFound indicates no route matches the request path
	RouteNotFound ErrorCode = "ROUTE_NOT_FOUND"
	// MethodNotAllowed indicates the path exists but not for this method
	MethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// AntiforgeryRejected indicates a cross-site form post on a protected route
	AntiforgeryRejected ErrorCode = "ANTIFORGERY_REJECTED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// APIError carries a stable code alongside a human readable message
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new APIError
func New(code ErrorCode, message string, cause error) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details interface{}) *APIError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first APIError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return InternalError
}

// HasCode reports whether err's chain contains an APIError with code.
func HasCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return stderrors.As(err, &apiErr) && apiErr.Code == code
}
