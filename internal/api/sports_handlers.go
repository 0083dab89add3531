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
	"github.com/wkndwarrior/api/internal/sports"
	"github.com/wkndwarrior/api/internal/user"
)

// ScheduleSource returns the game schedule for one league on one date.
type ScheduleSource interface {
	ScheduleFor(ctx context.Context, league string, date time.Time) ([]match.SportsEvent, error)
}

// SportsHandlers handles the team catalog, live schedules, and favorites.
type SportsHandlers struct {
	catalog  user.TeamCatalog
	prefs    user.PreferenceRepository
	schedule ScheduleSource
}

// NewSportsHandlers creates handlers for the sports endpoints.
func NewSportsHandlers(catalog user.TeamCatalog, prefs user.PreferenceRepository, schedule ScheduleSource) *SportsHandlers {
	return &SportsHandlers{catalog: catalog, prefs: prefs, schedule: schedule}
}

// Teams handles GET /api/sports/teams.
// Returns every league with its teams.
func (h *SportsHandlers) Teams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leagues, err := h.catalog.Leagues(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "league catalog lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load teams")
		return
	}
	if leagues == nil {
		leagues = []user.League{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"leagues": leagues,
	})
}

// TeamsByLeague handles GET /api/sports/teams/{league}.
func (h *SportsHandlers) TeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	league := r.PathValue("league")

	teams, err := h.catalog.LeagueTeams(ctx, league)
	if err != nil {
		slog.ErrorContext(ctx, "team catalog lookup failed", "league", league, "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load teams")
		return
	}
	if len(teams) == 0 {
		ctx = middleware.SetErrorCode(ctx, ErrCodeUnknownLeague)
		WriteErrorCode(w, ctx, ErrCodeUnknownLeague, "Unknown league")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"league": teams[0].League,
		"teams":  teams,
	})
}

// Schedule handles GET /api/sports/schedule/{league}?date=YYYY-MM-DD.
// Date defaults to today.
func (h *SportsHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	league := r.PathValue("league")

	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			ctx = middleware.SetErrorCode(ctx, ErrCodeInvalidDate)
			WriteErrorCode(w, ctx, ErrCodeInvalidDate, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	games, err := h.schedule.ScheduleFor(ctx, league, date)
	if err != nil {
		if errors.Is(err, sports.ErrUnknownLeague) {
			ctx = middleware.SetErrorCode(ctx, ErrCodeUnknownLeague)
			WriteErrorCode(w, ctx, ErrCodeUnknownLeague, "Unknown league")
			return
		}
		slog.WarnContext(ctx, "schedule fetch failed", "league", league, "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeProviderUnavailable)
		WriteErrorCode(w, ctx, ErrCodeProviderUnavailable, "Could not fetch schedule")
		return
	}
	if games == nil {
		games = []match.SportsEvent{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"league": league,
		"date":   date.Format("2006-01-02"),
		"games":  games,
	})
}

// Favorites handles GET /api/sports/favorites.
func (h *SportsHandlers) Favorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	teams, err := h.prefs.FavoriteTeams(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "favorite team lookup failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not load favorite teams")
		return
	}
	if teams == nil {
		teams = []user.Team{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"favorite_teams": teams,
	})
}

type addFavoriteRequest struct {
	TeamID string `json:"team_id"`
}

// AddFavorite handles POST /api/sports/favorites.
func (h *SportsHandlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TeamID == "" {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "team_id is required")
		return
	}

	if err := h.prefs.AddFavoriteTeam(ctx, userID, req.TeamID); err != nil {
		slog.ErrorContext(ctx, "adding favorite team failed", "team_id", req.TeamID, "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not add favorite team")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, map[string]any{
		"added": req.TeamID,
	})
}

// RemoveFavorite handles DELETE /api/sports/favorites/{team_id}.
func (h *SportsHandlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	teamID := r.PathValue("team_id")

	if err := h.prefs.RemoveFavoriteTeam(ctx, userID, teamID); err != nil {
		slog.ErrorContext(ctx, "removing favorite team failed", "team_id", teamID, "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not remove favorite team")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"removed": teamID,
	})
}

// ClearFavorites handles DELETE /api/sports/favorites.
func (h *SportsHandlers) ClearFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.prefs.ClearFavoriteTeams(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "clearing favorite teams failed", "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeInternal)
		WriteErrorCode(w, ctx, ErrCodeInternal, "Could not clear favorite teams")
		return
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"cleared": true,
	})
}
