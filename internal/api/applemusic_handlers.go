package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wkndwarrior/api/internal/middleware"
	"github.com/wkndwarrior/api/internal/music"
	"github.com/wkndwarrior/api/internal/user"
)

// AppleMusicService is the subset of the Apple Music client the handlers use.
type AppleMusicService interface {
	MusicKitConfig() (*music.MusicKitConfig, error)
	ValidateUserToken(ctx context.Context, userToken string) (*music.TokenValidation, error)
	TopArtists(ctx context.Context, userToken string, limit int) ([]music.Artist, error)
	SearchArtists(ctx context.Context, term string, limit int) ([]music.Artist, error)
}

// AppleMusicHandlers handles the Apple Music connection flow.
// All endpoints return 503 style provider errors when the client is nil,
// which happens when the Apple credentials are not configured.
type AppleMusicHandlers struct {
	apple AppleMusicService
	prefs user.PreferenceRepository
}

// NewAppleMusicHandlers creates handlers for the Apple Music endpoints.
// apple may be nil when the integration is not configured.
func NewAppleMusicHandlers(apple AppleMusicService, prefs user.PreferenceRepository) *AppleMusicHandlers {
	return &AppleMusicHandlers{apple: apple, prefs: prefs}
}

func (h *AppleMusicHandlers) notConfigured(w http.ResponseWriter, r *http.Request) bool {
	if h.apple != nil {
		return false
	}
	ctx := middleware.SetErrorCode(r.Context(), ErrCodeProviderUnavailable)
	WriteError(w, ctx, http.StatusServiceUnavailable, ErrCodeProviderUnavailable, "Apple Music is not configured")
	return true
}

// Config handles GET /api/apple-music/config.
// Returns the developer token and app identity MusicKit needs on the
// frontend.
func (h *AppleMusicHandlers) Config(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}
	ctx := r.Context()

	cfg, err := h.apple.MusicKitConfig()
	if err != nil {
		slog.ErrorContext(ctx, "musickit config failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not generate developer token")
		return
	}
	writeJSON(w, ctx, http.StatusOK, cfg)
}

type appleConnectRequest struct {
	UserToken string `json:"user_token"`
}

// Connect handles POST /api/apple-music/connect.
// Validates the Music-User-Token, stores the connection, and syncs the
// user's top artists.
func (h *AppleMusicHandlers) Connect(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req appleConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserToken == "" {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Music user token is required")
		return
	}

	validation, err := h.apple.ValidateUserToken(ctx, req.UserToken)
	if err != nil || !validation.Valid {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Music user token is invalid or expired")
		return
	}

	conn := &user.MusicConnection{
		UserID:      userID,
		Service:     user.ServiceAppleMusic,
		AccessToken: req.UserToken,
		ServiceUser: validation.Storefront,
		Active:      true,
	}
	if err := h.prefs.UpsertConnection(ctx, conn); err != nil {
		slog.ErrorContext(ctx, "storing apple music connection failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not store connection")
		return
	}

	artists, err := h.apple.TopArtists(ctx, req.UserToken, topArtistSyncLimit)
	if err != nil {
		slog.WarnContext(ctx, "apple music top-artist sync failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeProviderUnavailable)
		WriteErrorCode(w, ctx, ErrCodeProviderUnavailable, "Could not fetch listening history from Apple Music")
		return
	}

	stored := make([]user.TopArtist, 0, len(artists))
	for _, a := range artists {
		stored = append(stored, user.TopArtist{
			Name:       a.Name,
			ProviderID: a.ProviderID,
			Rank:       a.Rank,
		})
	}
	if err := h.prefs.ReplaceTopArtists(ctx, userID, user.ServiceAppleMusic, stored); err != nil {
		slog.ErrorContext(ctx, "storing top artists failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not store top artists")
		return
	}

	sample := make([]string, 0, 5)
	for _, a := range artists {
		if len(sample) == 5 {
			break
		}
		sample = append(sample, a.Name)
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"connected":      true,
		"storefront":     validation.Storefront,
		"artists_found":  len(artists),
		"sample_artists": sample,
	})
}

// Status handles GET /api/apple-music/status.
func (h *AppleMusicHandlers) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	configured := h.apple != nil

	conn, err := h.prefs.Connection(ctx, userID, user.ServiceAppleMusic)
	if errors.Is(err, user.ErrUserNotFound) {
		writeJSON(w, ctx, http.StatusOK, map[string]any{
			"configured": configured,
			"connected":  false,
		})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "connection lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load connection status")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"configured": configured,
		"connected":  conn.Active,
		"storefront": conn.ServiceUser,
	})
}

// Search handles GET /api/apple-music/search?q=term.
// Searches the Apple Music catalog for artists. Useful for verifying the
// developer token works without a user connection.
func (h *AppleMusicHandlers) Search(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}
	ctx := r.Context()

	term := r.URL.Query().Get("q")
	if term == "" {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Query parameter q is required")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 25 {
			limit = n
		}
	}

	artists, err := h.apple.SearchArtists(ctx, term, limit)
	if err != nil {
		slog.WarnContext(ctx, "apple music search failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeProviderUnavailable)
		WriteErrorCode(w, ctx, ErrCodeProviderUnavailable, "Apple Music search failed")
		return
	}
	if artists == nil {
		artists = []music.Artist{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"artists": artists,
	})
}
