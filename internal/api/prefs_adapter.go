package api

import (
	"context"
	"errors"

	"github.com/wkndwarrior/api/internal/match"
	"github.com/wkndwarrior/api/internal/user"
)

// preferenceStoreAdapter adapts the user repositories to match.PreferenceStore
// so the engine stays decoupled from the storage layer.
type preferenceStoreAdapter struct {
	users user.Repository
	prefs user.PreferenceRepository
}

// NewPreferenceStore wraps the user repositories as a match.PreferenceStore.
func NewPreferenceStore(users user.Repository, prefs user.PreferenceRepository) match.PreferenceStore {
	return &preferenceStoreAdapter{users: users, prefs: prefs}
}

// Location returns the user's search origin.
func (a *preferenceStoreAdapter) Location(ctx context.Context, userID string) (match.Location, error) {
	u, err := a.users.GetByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return match.Location{}, match.ErrUserNotFound
	}
	if err != nil {
		return match.Location{}, err
	}
	return match.Location{
		City:        u.LocationCity,
		State:       u.LocationState,
		RadiusMiles: u.SearchRadius,
	}, nil
}

// WeekendDays returns the user's configured weekend-day set.
func (a *preferenceStoreAdapter) WeekendDays(ctx context.Context, userID string) ([]int, error) {
	return a.prefs.WeekendDays(ctx, userID)
}

// TopArtists returns up to limit artist names ordered by rank.
func (a *preferenceStoreAdapter) TopArtists(ctx context.Context, userID string, limit int) ([]string, error) {
	artists, err := a.prefs.TopArtists(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return names, nil
}

// FavoriteTeams returns the user's favorite teams.
func (a *preferenceStoreAdapter) FavoriteTeams(ctx context.Context, userID string) ([]match.Team, error) {
	teams, err := a.prefs.FavoriteTeams(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]match.Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, match.Team{
			Name:   t.Name,
			City:   t.City,
			League: t.League,
		})
	}
	return out, nil
}
