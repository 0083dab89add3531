package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidWeekendDays, http.StatusBadRequest},
		{ErrCodeInvalidDate, http.StatusBadRequest},
		{ErrCodeAuthFailed, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnknownLeague, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeUserExists, http.StatusConflict},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeProviderUnavailable, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"something_unmapped", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := StatusCodeMapping(tt.code); got != tt.want {
				t.Errorf("StatusCodeMapping(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	WriteError(rec, req.Context(), http.StatusServiceUnavailable, ErrCodeProviderUnavailable, "Spotify is not configured")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := decodeError(t, rec)
	if body.Error.Code != ErrCodeProviderUnavailable {
		t.Errorf("error code = %q, want %q", body.Error.Code, ErrCodeProviderUnavailable)
	}
	if body.Error.Message != "Spotify is not configured" {
		t.Errorf("error message = %q", body.Error.Message)
	}
}

func TestWriteErrorCode(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sports/teams/XFL", nil)

	WriteErrorCode(rec, req.Context(), ErrCodeUnknownLeague, "Unsupported league")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d from the code mapping", rec.Code, http.StatusNotFound)
	}
	body := decodeError(t, rec)
	if body.Error.Code != ErrCodeUnknownLeague {
		t.Errorf("error code = %q, want %q", body.Error.Code, ErrCodeUnknownLeague)
	}
}
