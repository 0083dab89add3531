package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wkndwarrior/api/internal/auth"
)

func newAuthedHandler(t *testing.T) (http.Handler, *auth.JWTService) {
	t.Helper()
	svc := auth.NewJWTService("test-secret")
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(GetUserID(r.Context())))
	}))
	return handler, svc
}

func TestAuthenticate_ValidToken(t *testing.T) {
	handler, svc := newAuthedHandler(t)

	token, err := svc.GenerateSessionToken("user-123", "fan@example.com")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "user-123" {
		t.Errorf("expected user ID in context, got %q", rr.Body.String())
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	handler, _ := newAuthedHandler(t)

	otherSvc := auth.NewJWTService("other-secret")
	foreign, err := otherSvc.GenerateSessionToken("user-123", "")
	if err != nil {
		t.Fatalf("GenerateSessionToken() error: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-token"},
		{name: "wrong secret", header: "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}

			var body authErrorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse error body: %v", err)
			}
			if body.Error.Code != "auth_failed" {
				t.Errorf("expected code auth_failed, got %q", body.Error.Code)
			}
		})
	}
}
