package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wkndwarrior/api/internal/middleware"
	"github.com/wkndwarrior/api/internal/music"
	"github.com/wkndwarrior/api/internal/user"
)

// topArtistSyncLimit is how many artists are pulled from a streaming service
// when a connection is established.
const topArtistSyncLimit = 20

// SpotifyService is the subset of the Spotify client the handlers use.
type SpotifyService interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*music.TokenResponse, error)
	TopArtists(ctx context.Context, accessToken string, limit int) ([]music.Artist, error)
}

// SpotifyHandlers handles the Spotify connection flow.
type SpotifyHandlers struct {
	spotify SpotifyService
	prefs   user.PreferenceRepository
}

// NewSpotifyHandlers creates handlers for the Spotify endpoints.
// spotify may be nil when the integration is not configured.
func NewSpotifyHandlers(spotify SpotifyService, prefs user.PreferenceRepository) *SpotifyHandlers {
	return &SpotifyHandlers{spotify: spotify, prefs: prefs}
}

func (h *SpotifyHandlers) notConfigured(w http.ResponseWriter, r *http.Request) bool {
	if h.spotify != nil {
		return false
	}
	ctx := middleware.SetErrorCode(r.Context(), ErrCodeProviderUnavailable)
	WriteError(w, ctx, http.StatusServiceUnavailable, ErrCodeProviderUnavailable, "Spotify is not configured")
	return true
}

// AuthURL handles GET /api/spotify/auth.
// Returns the authorization URL the frontend redirects the user to. The
// state parameter carries the user ID back through the OAuth round trip.
func (h *SpotifyHandlers) AuthURL(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	writeJSON(w, ctx, http.StatusOK, map[string]string{
		"auth_url": h.spotify.AuthURL(userID),
	})
}

type spotifyCallbackRequest struct {
	Code string `json:"code"`
}

// Callback handles POST /api/spotify/callback.
// Exchanges the authorization code, stores the connection, and syncs the
// user's top artists.
func (h *SpotifyHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.notConfigured(w, r) {
		return
	}
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req spotifyCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Authorization code is required")
		return
	}

	token, err := h.spotify.ExchangeCode(ctx, req.Code)
	if err != nil {
		slog.WarnContext(ctx, "spotify code exchange failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeProviderUnavailable)
		WriteErrorCode(w, ctx, ErrCodeProviderUnavailable, "Spotify authorization failed")
		return
	}

	expires := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	conn := &user.MusicConnection{
		UserID:       userID,
		Service:      user.ServiceSpotify,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    &expires,
		Active:       true,
	}
	if err := h.prefs.UpsertConnection(ctx, conn); err != nil {
		slog.ErrorContext(ctx, "storing spotify connection failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not store connection")
		return
	}

	artists, err := h.spotify.TopArtists(ctx, token.AccessToken, topArtistSyncLimit)
	if err != nil {
		slog.WarnContext(ctx, "spotify top-artist sync failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeProviderUnavailable)
		WriteErrorCode(w, ctx, ErrCodeProviderUnavailable, "Could not fetch top artists from Spotify")
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
	if err := h.prefs.ReplaceTopArtists(ctx, userID, user.ServiceSpotify, stored); err != nil {
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
		"artists_found":  len(artists),
		"sample_artists": sample,
	})
}

// Status handles GET /api/spotify/status.
// Reports whether the user has a Spotify connection and returns their synced
// top artists.
func (h *SpotifyHandlers) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	conn, err := h.prefs.Connection(ctx, userID, user.ServiceSpotify)
	if errors.Is(err, user.ErrUserNotFound) {
		writeJSON(w, ctx, http.StatusOK, map[string]any{
			"connected":   false,
			"top_artists": []user.TopArtist{},
		})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "connection lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load connection status")
		return
	}

	artists, err := h.prefs.TopArtists(ctx, userID, 10)
	if err != nil {
		slog.ErrorContext(ctx, "top artist lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load top artists")
		return
	}
	if artists == nil {
		artists = []user.TopArtist{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"connected":   conn.Active,
		"top_artists": artists,
	})
}
