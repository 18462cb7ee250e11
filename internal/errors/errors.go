package errors

import (
	"net/http"
	"strings"
)

// Codes carried by APIError and exposed as the problem's error_code
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
)

// APIError is a rejected request. ErrorHandler answers it with StatusCode
// and passes Details through to the problem.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Details    interface{}
}

// Error includes the field messages, so the CLI can print it as is
func (e *APIError) Error() string {
	v, ok := e.Details.(ValidationErrors)
	if !ok || len(v.Errors) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(v.Errors))
	for _, fe := range v.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// ValidationError is one rejected query parameter
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a VALIDATION_FAILED problem
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// InvalidRequestWithError reports a query that could not be inspected at all
func InvalidRequestWithError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeInvalidRequest,
		Message:    "Invalid request format",
		Details:    err.Error(),
	}
}

// ErrValidation rejects a single field
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors rejects several fields at once
func NewValidationErrors(errors []ValidationError) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  CodeValidationFailed,
		Message:    "Request validation failed",
		Details:    ValidationErrors{Errors: errors},
	}
}
