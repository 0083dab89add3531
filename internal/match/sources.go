package match

import (
	"context"
	"time"
)

// ConcertSource searches for concerts by artist around a location. A source
// is expected to swallow upstream provider errors into an empty result; a
// returned error is treated the same as an empty contribution.
type ConcertSource interface {
	SearchByArtist(ctx context.Context, artist, city, state string, radiusMiles int) ([]ConcertEvent, error)
}

// SportsSource returns the game schedule for one league on one date.
type SportsSource interface {
	ScheduleFor(ctx context.Context, league string, date time.Time) ([]SportsEvent, error)
}

// PreferenceStore provides the stored user preferences the engine reads at
// the start of every matching call.
type PreferenceStore interface {
	// Location returns the user's search origin, or ErrUserNotFound.
	Location(ctx context.Context, userID string) (Location, error)

	// WeekendDays returns the user's configured weekend-day set. An empty
	// set or an error degrades to DefaultWeekendDays inside the engine.
	WeekendDays(ctx context.Context, userID string) ([]int, error)

	// TopArtists returns up to limit artist names ordered by rank.
	TopArtists(ctx context.Context, userID string, limit int) ([]string, error)

	// FavoriteTeams returns the user's favorite teams.
	FavoriteTeams(ctx context.Context, userID string) ([]Team, error)
}
