package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wkndwarrior/api/internal/match"
	"github.com/wkndwarrior/api/internal/middleware"
	"github.com/wkndwarrior/api/internal/user"
)

// ConcertHandlers handles ad-hoc concert searches outside the matching flow.
type ConcertHandlers struct {
	concerts      match.ConcertSource
	users         user.Repository
	defaultRadius int
}

// NewConcertHandlers creates handlers for the concert endpoints.
// defaultRadius is the search radius (miles) used when neither the query nor
// the user's profile provides one.
func NewConcertHandlers(concerts match.ConcertSource, users user.Repository, defaultRadius int) *ConcertHandlers {
	return &ConcertHandlers{concerts: concerts, users: users, defaultRadius: defaultRadius}
}

// Search handles GET /api/concerts/search?artist=&city=&state=&radius=.
// City, state, and radius default to the user's stored location.
func (h *ConcertHandlers) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	q := r.URL.Query()
	artist := q.Get("artist")
	if artist == "" {
		ctx = middleware.SetErrorCode(ctx, ErrCodeValidation)
		WriteErrorCode(w, ctx, ErrCodeValidation, "Query parameter artist is required")
		return
	}

	city := q.Get("city")
	state := q.Get("state")
	radius := 0
	if v := q.Get("radius"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			radius = n
		}
	}

	// Fill gaps from the user's stored location.
	if city == "" || state == "" || radius == 0 {
		u, err := h.users.GetByID(ctx, userID)
		if err == nil {
			if city == "" {
				city = u.LocationCity
			}
			if state == "" {
				state = u.LocationState
			}
			if radius == 0 {
				radius = u.SearchRadius
			}
		}
	}
	if radius == 0 {
		radius = h.defaultRadius
	}

	events, err := h.concerts.SearchByArtist(ctx, artist, city, state, radius)
	if err != nil {
		slog.WarnContext(ctx, "concert search failed", "artist", artist, "error", err)
		ctx = middleware.SetErrorCode(ctx, ErrCodeProviderUnavailable)
		WriteErrorCode(w, ctx, ErrCodeProviderUnavailable, "Concert search failed")
		return
	}
	if events == nil {
		events = []match.ConcertEvent{}
	}

	writeJSON(w, ctx, http.StatusOK, map[string]any{
		"artist": artist,
		"city":   city,
		"state":  state,
		"radius": radius,
		"events": events,
	})
}
