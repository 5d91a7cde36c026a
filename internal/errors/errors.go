// ABOUTME: Standardized error response types and helpers for HTTP handlers
// ABOUTME: Provides consistent error formatting across platform and runner surfaces

package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2389/packkit/packs/core"
)

// ErrorResponse is the standardized error response structure used by every
// HTTP surface. A consistent shape makes errors easy for clients to parse.
//
// Usage:
//   WriteError(w, http.StatusBadRequest, "invalid_request", "The request body is malformed")
type ErrorResponse struct {
	Code    string `json:"code"`              // Machine-readable error code (e.g., "invalid_request", "not_found")
	Message string `json:"message"`           // Human-readable error message
	Status  int    `json:"status"`            // HTTP status code
	Details string `json:"details,omitempty"` // Optional: additional error details
}

// WriteError writes a standardized error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
	})
}

// WriteErrorWithDetails writes a standardized error response with additional
// context about the failure.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
		Details: details,
	})
}

// WriteForError classifies a pack error and writes the matching response.
// Unrecognized errors become 500s with a generic message so internals do not
// leak to clients.
func WriteForError(w http.ResponseWriter, err error) {
	var notFound *core.NotFoundError
	if errors.As(err, &notFound) {
		WriteError(w, http.StatusNotFound, ErrNotFound, notFound.Error())
		return
	}
	var config *core.ConfigurationError
	if errors.As(err, &config) {
		WriteError(w, http.StatusBadRequest, ErrInvalidRequest, config.Error())
		return
	}
	var visible *core.UserVisibleError
	if errors.As(err, &visible) {
		WriteError(w, http.StatusBadRequest, ErrInvalidRequest, visible.Message)
		return
	}
	var transport *core.TransportError
	if errors.As(err, &transport) {
		WriteErrorWithDetails(w, http.StatusBadGateway, ErrUpstreamError, "upstream request failed", transport.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, ErrInternal, "internal error")
}

func writeErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}

// CommonErrorCodes defines standard error codes used across surfaces
const (
	// Client errors (4xx)
	ErrInvalidRequest   = "invalid_request"
	ErrInvalidBody      = "invalid_request_body"
	ErrMissingField     = "missing_field"
	ErrValidationFailed = "validation_failed"
	ErrNotFound         = "not_found"
	ErrUnauthorized     = "unauthorized"

	// Server errors (5xx)
	ErrInternal      = "internal_error"
	ErrDatabaseError = "database_error"
	ErrUpstreamError = "upstream_error"
)
