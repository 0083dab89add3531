package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wkndwarrior/api/internal/auth"
	"github.com/wkndwarrior/api/internal/user"
)

func newAuthHandlers(t *testing.T) (*AuthHandlers, *user.MemoryRepository) {
	t.Helper()
	repo := user.NewMemoryRepository()
	tokens := auth.NewJWTService("test-secret")
	return NewAuthHandlers(repo, repo, tokens, 30), repo
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

func TestRegister(t *testing.T) {
	handlers, repo := newAuthHandlers(t)

	rec := postJSON(t, handlers.Register, "/api/auth/register", map[string]any{
		"email":          "fan@example.com",
		"password":       "correct-horse",
		"location_city":  "Austin",
		"location_state": "TX",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User == nil || resp.User.ID == "" {
		t.Fatal("expected user with generated ID")
	}
	if resp.Token == "" {
		t.Fatal("expected session token")
	}
	if resp.User.SearchRadius != 30 {
		t.Errorf("SearchRadius = %d, want default 30", resp.User.SearchRadius)
	}

	// New accounts get the default Friday-Sunday weekend.
	days, err := repo.WeekendDays(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("WeekendDays() error = %v", err)
	}
	if len(days) != 3 {
		t.Errorf("weekend days = %v, want default set of 3", days)
	}
}

func TestRegisterConfiguredDefaultRadius(t *testing.T) {
	repo := user.NewMemoryRepository()
	handlers := NewAuthHandlers(repo, repo, auth.NewJWTService("test-secret"), 45)

	rec := postJSON(t, handlers.Register, "/api/auth/register", map[string]any{
		"email":    "fan@example.com",
		"password": "correct-horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.SearchRadius != 45 {
		t.Errorf("SearchRadius = %d, want configured default 45", resp.User.SearchRadius)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{
			name:     "missing email",
			body:     map[string]any{"password": "correct-horse"},
			wantCode: ErrCodeValidation,
		},
		{
			name:     "invalid email",
			body:     map[string]any{"email": "not-an-email", "password": "correct-horse"},
			wantCode: ErrCodeValidation,
		},
		{
			name:     "short password",
			body:     map[string]any{"email": "fan@example.com", "password": "short"},
			wantCode: ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlers, _ := newAuthHandlers(t)
			rec := postJSON(t, handlers.Register, "/api/auth/register", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if body := decodeError(t, rec); body.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handlers, _ := newAuthHandlers(t)

	body := map[string]any{"email": "fan@example.com", "password": "correct-horse"}
	if rec := postJSON(t, handlers.Register, "/api/auth/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}

	rec := postJSON(t, handlers.Register, "/api/auth/register", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if body := decodeError(t, rec); body.Error.Code != ErrCodeUserExists {
		t.Errorf("error code = %q, want %q", body.Error.Code, ErrCodeUserExists)
	}
}

func TestLogin(t *testing.T) {
	handlers, _ := newAuthHandlers(t)

	register := map[string]any{"email": "fan@example.com", "password": "correct-horse"}
	if rec := postJSON(t, handlers.Register, "/api/auth/register", register); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	rec := postJSON(t, handlers.Login, "/api/auth/login", register)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected session token")
	}
	if resp.User.Email != "fan@example.com" {
		t.Errorf("email = %q", resp.User.Email)
	}
}

func TestLoginRejections(t *testing.T) {
	handlers, _ := newAuthHandlers(t)

	register := map[string]any{"email": "fan@example.com", "password": "correct-horse"}
	if rec := postJSON(t, handlers.Register, "/api/auth/register", register); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "wrong password",
			body:       map[string]any{"email": "fan@example.com", "password": "wrong-password"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeInvalidCredentials,
		},
		{
			name:       "unknown email",
			body:       map[string]any{"email": "nobody@example.com", "password": "correct-horse"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   ErrCodeInvalidCredentials,
		},
		{
			name:       "missing fields",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handlers.Login, "/api/auth/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if body := decodeError(t, rec); body.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}
