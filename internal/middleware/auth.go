package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wkndwarrior/api/internal/auth"
)

// TokenValidator validates a session token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// authErrorBody is the JSON body written for authentication failures.
// It matches the error envelope used by the api package.
type authErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeAuthError(w http.ResponseWriter, message string) {
	var body authErrorBody
	body.Error.Code = "auth_failed"
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}

// Authenticate is a middleware that requires a valid Bearer session token.
// On success, the user ID from the token's subject claim is stored in the
// request context and can be read with GetUserID. On failure, it writes a
// 401 response with the standard error envelope.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				ctx := SetErrorCode(r.Context(), "auth_failed")
				UpdateResponseContext(w, ctx)
				writeAuthError(w, "Missing Authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				ctx := SetErrorCode(r.Context(), "auth_failed")
				UpdateResponseContext(w, ctx)
				writeAuthError(w, "Authorization header must be a Bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				ctx := SetErrorCode(r.Context(), "auth_failed")
				UpdateResponseContext(w, ctx)
				writeAuthError(w, "Invalid or expired token")
				return
			}

			ctx := SetUserID(r.Context(), claims.Subject)
			UpdateResponseContext(w, ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
