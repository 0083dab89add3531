package user

import (
	"context"
	"errors"
)

// Common errors for user operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

// Repository defines account storage operations.
type Repository interface {
	// Create inserts a new user. Returns ErrDuplicateUser when the email or
	// username is already taken.
	Create(ctx context.Context, u *User) error

	// GetByEmail retrieves an active user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*User, error)
}

// TeamCatalog lists the sports teams available to favorite.
type TeamCatalog interface {
	// Leagues returns every league with its teams, ordered by league then
	// team name.
	Leagues(ctx context.Context) ([]League, error)

	// LeagueTeams returns the teams of one league (case-insensitive name).
	// Returns an empty slice for unknown leagues.
	LeagueTeams(ctx context.Context, league string) ([]Team, error)
}

// PreferenceRepository defines storage for the preference data the matching
// engine and the preference endpoints read and write.
type PreferenceRepository interface {
	// WeekendDays returns the user's configured weekend-day set (0=Sunday).
	WeekendDays(ctx context.Context, userID string) ([]int, error)

	// SetWeekendDays replaces the user's weekend-day set.
	SetWeekendDays(ctx context.Context, userID string, days []int) error

	// TopArtists returns up to limit artists ordered by rank position.
	TopArtists(ctx context.Context, userID string, limit int) ([]TopArtist, error)

	// ReplaceTopArtists drops the user's artists from the given source and
	// inserts the new ranked list.
	ReplaceTopArtists(ctx context.Context, userID, source string, artists []TopArtist) error

	// UpsertConnection inserts or updates a music-service connection keyed
	// by (user, service).
	UpsertConnection(ctx context.Context, conn *MusicConnection) error

	// Connection returns the user's connection for a service, or
	// ErrUserNotFound when none exists.
	Connection(ctx context.Context, userID, service string) (*MusicConnection, error)

	// FavoriteTeams returns the user's favorite teams with league names.
	FavoriteTeams(ctx context.Context, userID string) ([]Team, error)

	// AddFavoriteTeam favorites a team; adding twice is a no-op.
	AddFavoriteTeam(ctx context.Context, userID, teamID string) error

	// RemoveFavoriteTeam unfavorites a team.
	RemoveFavoriteTeam(ctx context.Context, userID, teamID string) error

	// ClearFavoriteTeams removes all of the user's favorites.
	ClearFavoriteTeams(ctx context.Context, userID string) error

	// LogActivity appends an activity log entry for analytics.
	LogActivity(ctx context.Context, userID, activityType string, metadata map[string]any) error

	// ActivityCount returns how many entries of a type the user has logged.
	ActivityCount(ctx context.Context, userID, activityType string) (int, error)
}
