// Package api provides HTTP handlers for the WKND Warrior API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wkndwarrior/api/internal/middleware"
)

// Common error codes used throughout the API.
const (
	// ErrCodeValidation indicates input validation failure.
	ErrCodeValidation = "validation_error"

	// ErrCodeAuthFailed indicates authentication failure.
	ErrCodeAuthFailed = "auth_failed"

	// ErrCodeInvalidCredentials indicates a failed login attempt.
	ErrCodeInvalidCredentials = "invalid_credentials"

	// ErrCodeUserExists indicates the email or username is already registered.
	ErrCodeUserExists = "user_exists"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound = "not_found"

	// ErrCodeRateLimited indicates rate limit exceeded.
	ErrCodeRateLimited = "rate_limited"

	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"

	// ErrCodeForbidden indicates the request is forbidden.
	ErrCodeForbidden = "forbidden"

	// ErrCodeConflict indicates a conflict with the current state.
	ErrCodeConflict = "conflict"

	// ErrCodeBadRequest indicates a malformed request.
	ErrCodeBadRequest = "bad_request"

	// ErrCodeInvalidWeekendDays indicates a weekend-day set outside 0..6.
	ErrCodeInvalidWeekendDays = "invalid_weekend_days"

	// ErrCodeInvalidDate indicates a date parameter that is not YYYY-MM-DD.
	ErrCodeInvalidDate = "invalid_date"

	// ErrCodeUnknownLeague indicates a league without a schedule source.
	ErrCodeUnknownLeague = "unknown_league"

	// ErrCodeProviderUnavailable indicates an upstream music or ticketing
	// provider rejected the request or is unreachable.
	ErrCodeProviderUnavailable = "provider_unavailable"

	// ErrCodeMusicNotConnected indicates no linked streaming service for a
	// call that requires one.
	ErrCodeMusicNotConnected = "music_not_connected"
)

// ErrorResponse represents the standard error response format.
// All API errors return JSON in this structure: {"error": {"code": "...", "message": "..."}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes a standardized JSON error response.
// It writes the appropriate HTTP status code and returns a JSON error body.
//
// Format: {"error": {"code": "error_code", "message": "Error description"}}
//
// The error_code will be automatically logged by the logging middleware
// for all 4xx and 5xx responses if you call SetErrorCode on the context
// and pass the updated context to WriteError.
//
// Example:
//
//	ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
//	WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "Team not found")
func WriteError(w http.ResponseWriter, ctx context.Context, status int, code, message string) {
	// Update the context in the response writer if supported (for logging middleware)
	middleware.UpdateResponseContext(w, ctx)

	// Create error response
	errResp := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}

	// Marshal to JSON
	data, err := json.Marshal(errResp)
	if err != nil {
		// Fallback to plain text if JSON marshaling fails
		slog.ErrorContext(ctx, "failed to marshal error response", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal server error"))
		return
	}

	// Write response
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}

// WriteErrorCode writes the error envelope with the HTTP status implied by
// the error code. Handlers needing a status the mapping cannot express call
// WriteError directly; an unconfigured provider reports 503 while upstream
// failures report 502, both under provider_unavailable.
func WriteErrorCode(w http.ResponseWriter, ctx context.Context, code, message string) {
	WriteError(w, ctx, StatusCodeMapping(code), code, message)
}

// writeJSON writes a JSON success response with the given status code.
func writeJSON(w http.ResponseWriter, ctx context.Context, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// StatusCodeMapping returns the recommended HTTP status code for common error codes.
// This is a convenience function to map error codes to HTTP status codes.
func StatusCodeMapping(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidWeekendDays, ErrCodeInvalidDate:
		return http.StatusBadRequest
	case ErrCodeAuthFailed, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeNotFound, ErrCodeUnknownLeague:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeConflict, ErrCodeUserExists:
		return http.StatusConflict
	case ErrCodeProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
