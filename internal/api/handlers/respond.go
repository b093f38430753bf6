// Package handlers implements the HTTP handlers for the record and
// generation endpoints. Every error response uses the structured envelope
// {"error": {"code", "message", "details"}}.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/learnforge/learnforge/internal/domain"
)

// Context keys
type contextKey string

// ContextKeyUser carries the authenticated *domain.User set by the router.
const ContextKeyUser contextKey = "user"

// UserFrom retrieves the authenticated user from context.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*domain.User)
	return user, ok
}

// APIError represents a structured API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError creates a new API error
func NewAPIError(code string, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// ErrorResponse is the JSON structure for error responses
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int, apiErr *APIError) {
	// Log the error with request context
	logger := slog.Default()
	logAttrs := []any{
		"code", apiErr.Code,
		"message", apiErr.Message,
		"status", statusCode,
		"method", r.Method,
		"path", r.URL.Path,
	}

	if apiErr.cause != nil {
		logAttrs = append(logAttrs, "cause", apiErr.cause.Error())
	}

	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		logAttrs = append(logAttrs, "request_id", requestID)
	}

	// Log at appropriate level based on status code
	if statusCode >= 500 {
		logger.Error("api error", logAttrs...)
	} else if statusCode >= 400 {
		logger.Warn("api error", logAttrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: apiErr})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Helper functions for common responses
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, NewAPIError("BAD_REQUEST", message))
}

func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusUnauthorized, NewAPIError("UNAUTHORIZED", message))
}

func Conflict(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusConflict, NewAPIError("CONFLICT", message))
}

func InternalError(w http.ResponseWriter, r *http.Request, message string, cause error) {
	WriteError(w, r, http.StatusInternalServerError,
		NewAPIError("INTERNAL_ERROR", message).WithCause(cause))
}

// ProviderUnconfigured reports a missing LLM credential. Written before
// any outbound provider call is attempted.
func ProviderUnconfigured(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusServiceUnavailable,
		NewAPIError("PROVIDER_UNCONFIGURED", "no language model provider is configured"))
}

// UpstreamError reports a non-2xx reply from the LLM provider, carrying
// the upstream status and body in the details.
func UpstreamError(w http.ResponseWriter, r *http.Request, status int, body string, cause error) {
	WriteError(w, r, http.StatusBadGateway,
		NewAPIError("UPSTREAM_ERROR", "language model provider request failed").
			WithDetails(map[string]any{"status": status, "body": body}).
			WithCause(cause))
}

// ProcessingError reports provider output that could not be parsed into
// the expected shape, carrying the raw text in the details.
func ProcessingError(w http.ResponseWriter, r *http.Request, raw string, cause error) {
	WriteError(w, r, http.StatusBadGateway,
		NewAPIError("PROCESSING_ERROR", "language model output could not be processed").
			WithDetails(map[string]any{"raw": raw}).
			WithCause(cause))
}
