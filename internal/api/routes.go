package api

import (
	"net/http"

	"github.com/wkndwarrior/api/internal/middleware"
)

// RouterConfig bundles the handlers and cross-cutting dependencies the API
// mux needs. MetricsHandler is optional; when nil the /metrics route is not
// registered.
type RouterConfig struct {
	Auth       *AuthHandlers
	Spotify    *SpotifyHandlers
	AppleMusic *AppleMusicHandlers
	Sports     *SportsHandlers
	Concerts   *ConcertHandlers
	Weekend    *WeekendHandlers
	Health     *HealthHandlers

	TokenValidator middleware.TokenValidator
	RateLimitStore middleware.RateLimitStore

	MetricsHandler http.Handler
}

// NewRouter builds the API route table. Auth endpoints are IP rate limited,
// endpoints that fan out to external providers get a tighter per-user limit,
// and everything under /api except the auth endpoints requires a session
// token. Process-wide middleware (request IDs, logging, metrics, the global
// rate limit) wraps the returned handler in main.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.Authenticate(cfg.TokenValidator)
	authLimit := middleware.RateLimiter(cfg.RateLimitStore, middleware.DefaultAuthLimit(), middleware.IPKeyFunc())
	searchLimit := middleware.RateLimiter(cfg.RateLimitStore, middleware.DefaultSearchLimit(), middleware.UserKeyFunc())

	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}
	searchProtected := func(h http.HandlerFunc) http.Handler {
		// Auth runs first so the search limit can key on the user ID.
		return requireAuth(searchLimit(h))
	}

	// Auth
	mux.Handle("POST /api/auth/register", authLimit(http.HandlerFunc(cfg.Auth.Register)))
	mux.Handle("POST /api/auth/login", authLimit(http.HandlerFunc(cfg.Auth.Login)))

	// Spotify connection flow
	mux.Handle("GET /api/spotify/auth", protected(cfg.Spotify.AuthURL))
	mux.Handle("POST /api/spotify/callback", searchProtected(cfg.Spotify.Callback))
	mux.Handle("GET /api/spotify/status", protected(cfg.Spotify.Status))

	// Apple Music connection flow
	mux.Handle("GET /api/apple-music/config", protected(cfg.AppleMusic.Config))
	mux.Handle("POST /api/apple-music/connect", searchProtected(cfg.AppleMusic.Connect))
	mux.Handle("GET /api/apple-music/status", protected(cfg.AppleMusic.Status))
	mux.Handle("GET /api/apple-music/search", searchProtected(cfg.AppleMusic.Search))

	// Sports catalog, schedules, favorites
	mux.Handle("GET /api/sports/teams", protected(cfg.Sports.Teams))
	mux.Handle("GET /api/sports/teams/{league}", protected(cfg.Sports.TeamsByLeague))
	mux.Handle("GET /api/sports/schedule/{league}", searchProtected(cfg.Sports.Schedule))
	mux.Handle("GET /api/sports/favorites", protected(cfg.Sports.Favorites))
	mux.Handle("POST /api/sports/favorites", protected(cfg.Sports.AddFavorite))
	mux.Handle("DELETE /api/sports/favorites/{team_id}", protected(cfg.Sports.RemoveFavorite))
	mux.Handle("DELETE /api/sports/favorites", protected(cfg.Sports.ClearFavorites))

	// Concerts
	mux.Handle("GET /api/concerts/search", searchProtected(cfg.Concerts.Search))

	// Weekend matching
	mux.Handle("GET /api/weekend-events", searchProtected(cfg.Weekend.Events))
	mux.Handle("PUT /api/weekend-preferences", protected(cfg.Weekend.UpdatePreferences))
	mux.Handle("GET /api/dashboard", protected(cfg.Weekend.Dashboard))

	// Probes and metrics
	mux.HandleFunc("GET /health", cfg.Health.Health)
	mux.HandleFunc("GET /ready", cfg.Health.Ready)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	return mux
}
