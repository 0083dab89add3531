package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/wkndwarrior/api/internal/auth"
	"github.com/wkndwarrior/api/internal/match"
	"github.com/wkndwarrior/api/internal/middleware"
	"github.com/wkndwarrior/api/internal/user"
)

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 8

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	users         user.Repository
	prefs         user.PreferenceRepository
	tokens        *auth.JWTService
	defaultRadius int
}

// NewAuthHandlers creates handlers for the auth endpoints. defaultRadius is
// the search radius (miles) assigned to accounts that register without one.
func NewAuthHandlers(users user.Repository, prefs user.PreferenceRepository, tokens *auth.JWTService, defaultRadius int) *AuthHandlers {
	return &AuthHandlers{users: users, prefs: prefs, tokens: tokens, defaultRadius: defaultRadius}
}

type registerRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Username      string `json:"username"`
	LocationCity  string `json:"location_city"`
	LocationState string `json:"location_state"`
	SearchRadius  int    `json:"search_radius"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// Register handles POST /api/auth/register.
// Creates an account, seeds the default weekend days, and returns a session
// token.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx = middleware.SetErrorCode(ctx, ErrCodeBadRequest)
		WriteErrorCode(w, ctx, ErrCodeBadRequest, "Invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "A valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(ctx, "password hash failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Registration failed")
		return
	}

	u := &user.User{
		Email:         req.Email,
		Username:      strings.TrimSpace(req.Username),
		PasswordHash:  hash,
		LocationCity:  req.LocationCity,
		LocationState: req.LocationState,
		SearchRadius:  req.SearchRadius,
	}
	if u.SearchRadius <= 0 {
		u.SearchRadius = h.defaultRadius
	}

	if err := h.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateUser) {
			ctx = middleware.SetErrorCode(ctx, ErrCodeUserExists)
			WriteErrorCode(w, ctx, ErrCodeUserExists, "An account with that email already exists")
			return
		}
		slog.ErrorContext(ctx, "user create failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Registration failed")
		return
	}

	// New accounts start with the standard Friday through Sunday weekend.
	if err := h.prefs.SetWeekendDays(ctx, u.ID, match.DefaultWeekendDays); err != nil {
		slog.WarnContext(ctx, "seeding weekend days failed", "user_id", u.ID, "error", err)
	}

	token, err := h.tokens.GenerateSessionToken(u.ID, u.Email)
	if err != nil {
		slog.ErrorContext(ctx, "token generation failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Registration failed")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, authResponse{User: u, Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx = middleware.SetErrorCode(ctx, ErrCodeBadRequest)
		WriteErrorCode(w, ctx, ErrCodeBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Email and password are required")
		return
	}

	u, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidCredentials)
			WriteErrorCode(w, ctx, ErrCodeInvalidCredentials, "Invalid email or password")
			return
		}
		slog.ErrorContext(ctx, "user lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Login failed")
		return
	}

	if !auth.CheckPassword(req.Password, u.PasswordHash) {
		ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidCredentials)
		WriteErrorCode(w, ctx, ErrCodeInvalidCredentials, "Invalid email or password")
		return
	}

	token, err := h.tokens.GenerateSessionToken(u.ID, u.Email)
	if err != nil {
		slog.ErrorContext(ctx, "token generation failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Login failed")
		return
	}

	writeJSON(w, ctx, http.StatusOK, authResponse{User: u, Token: token})
}
