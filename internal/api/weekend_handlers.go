package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wkndwarrior/api/internal/match"
	"github.com/wkndwarrior/api/internal/middleware"
	"github.com/wkndwarrior/api/internal/user"
)

// MatchEngine runs one weekend matching call.
type MatchEngine interface {
	FindWeekendEvents(ctx context.Context, userID string, start time.Time) (*match.Result, error)
}

// WeekendHandlers handles the matching endpoint, weekend-day preferences,
// and the dashboard.
type WeekendHandlers struct {
	engine MatchEngine
	users  user.Repository
	prefs  user.PreferenceRepository
}

// NewWeekendHandlers creates handlers for the weekend endpoints.
func NewWeekendHandlers(engine MatchEngine, users user.Repository, prefs user.PreferenceRepository) *WeekendHandlers {
	return &WeekendHandlers{engine: engine, users: users, prefs: prefs}
}

// Events handles GET /api/weekend-events?date=YYYY-MM-DD.
// Runs the matching engine over the week starting at date (default today)
// and logs the search for the dashboard counters.
func (h *WeekendHandlers) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	start := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidDate)
			WriteErrorCode(w, ctx, ErrCodeInvalidDate, "date must be YYYY-MM-DD")
			return
		}
		start = parsed
	}

	result, err := h.engine.FindWeekendEvents(ctx, userID, start)
	if err != nil {
		if errors.Is(err, match.ErrUserNotFound) {
			ctx = middleware.SetErrorCode(ctx, ErrCodeNotFound)
			WriteErrorCode(w, ctx, ErrCodeNotFound, "User not found")
			return
		}
		slog.ErrorContext(ctx, "weekend matching failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not find weekend events")
		return
	}

	if err := h.prefs.LogActivity(ctx, userID, user.ActivityWeekendSearch, map[string]any{
		"weekend_start":  result.WeekendStart,
		"matched_events": len(result.MatchedEvents),
	}); err != nil {
		slog.WarnContext(ctx, "activity log failed", "error", err)
	}

	writeJSON(w, ctx, http.StatusOK, result)
}

type weekendPreferencesRequest struct {
	WeekendDays []int `json:"weekend_days"`
}

// UpdatePreferences handles PUT /api/weekend-preferences.
// Replaces the user's weekend-day set. Days follow time.Weekday numbering,
// 0=Sunday through 6=Saturday.
func (h *WeekendHandlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req weekendPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctx = middleware.SetErrorCode(ctx, ErrCodeBadRequest)
		WriteErrorCode(w, ctx, ErrCodeBadRequest, "Invalid JSON body")
		return
	}

	if len(req.WeekendDays) == 0 {
		ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidWeekendDays)
		WriteErrorCode(w, ctx, ErrCodeInvalidWeekendDays, "weekend_days must not be empty")
		return
	}
	seen := make(map[int]bool, len(req.WeekendDays))
	for _, day := range req.WeekendDays {
		if day < 0 || day > 6 {
			ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidWeekendDays)
			WriteErrorCode(w, ctx, ErrCodeInvalidWeekendDays, "weekend_days values must be between 0 and 6")
			return
		}
		if seen[day] {
			ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidWeekendDays)
			WriteErrorCode(w, ctx, ErrCodeInvalidWeekendDays, "weekend_days must not repeat")
			return
		}
		seen[day] = true
	}

	if err := h.prefs.SetWeekendDays(ctx, userID, req.WeekendDays); err != nil {
		slog.ErrorContext(ctx, "storing weekend days failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not store weekend days")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"weekend_days": req.WeekendDays,
	})
}

// Dashboard handles GET /api/dashboard.
// Returns the user's profile, preferences, and activity counters in one
// call for the app's landing view.
func (h *WeekendHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			ctx = middleware.SetErrorCode(ctx, ErrCodeNotFound)
			WriteErrorCode(w, ctx, ErrCodeNotFound, "User not found")
			return
		}
		slog.ErrorContext(ctx, "user lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load dashboard")
		return
	}

	days, err := h.prefs.WeekendDays(ctx, userID)
	if err != nil || len(days) == 0 {
		days = match.DefaultWeekendDays
	}

	teams, err := h.prefs.FavoriteTeams(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "favorite team lookup failed", "error", err)
	}
	if teams == nil {
		teams = []user.Team{}
	}

	artists, err := h.prefs.TopArtists(ctx, userID, match.MaxArtists)
	if err != nil {
		slog.WarnContext(ctx, "top artist lookup failed", "error", err)
	}

	searches, err := h.prefs.ActivityCount(ctx, userID, user.ActivityWeekendSearch)
	if err != nil {
		slog.WarnContext(ctx, "activity count failed", "error", err)
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"user":           u,
		"weekend_days":   days,
		"favorite_teams": teams,
		"stats": map[string]int{
			"top_artists_connected": len(artists),
			"weekend_searches":      searches,
			"favorite_teams":        len(teams),
		},
	})
}
