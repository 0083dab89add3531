package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

// PostgresRepository is the PostgreSQL implementation of Repository and
// PreferenceRepository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository over an open database handle.
// The handle is owned by the caller.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user row and returns the generated ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, username, location_city, location_state, search_radius)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.Username, u.LocationCity, u.LocationState, u.SearchRadius,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	u.Active = true
	return nil
}

const userColumns = `id, email, COALESCE(username, ''), password_hash,
	COALESCE(location_city, ''), COALESCE(location_state, ''), COALESCE(location_country, ''),
	COALESCE(timezone, ''), search_radius, COALESCE(subscription_tier, ''), is_active,
	created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.LocationCity, &u.LocationState, &u.LocationCountry,
		&u.Timezone, &u.SearchRadius, &u.SubscriptionTier, &u.Active,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// GetByEmail retrieves an active user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) AND is_active = true`, email)
	return scanUser(row)
}

// GetByID retrieves a user by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Leagues returns every league with its teams, ordered by league then team
// name.
func (r *PostgresRepository) Leagues(ctx context.Context) ([]League, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sl.name, COALESCE(sl.full_name, sl.name),
		        st.id, st.name, COALESCE(st.city, ''), COALESCE(st.abbreviation, '')
		 FROM sports_leagues sl
		 JOIN sports_teams st ON st.league_id = sl.id
		 ORDER BY sl.name, st.name`)
	if err != nil {
		return nil, fmt.Errorf("querying leagues: %w", err)
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var leagueName, fullName string
		var t Team
		if err := rows.Scan(&leagueName, &fullName, &t.ID, &t.Name, &t.City, &t.Abbreviation); err != nil {
			return nil, fmt.Errorf("scanning league team: %w", err)
		}
		t.League = leagueName
		if len(leagues) == 0 || leagues[len(leagues)-1].Name != leagueName {
			leagues = append(leagues, League{Name: leagueName, FullName: fullName})
		}
		last := &leagues[len(leagues)-1]
		last.Teams = append(last.Teams, t)
	}
	return leagues, rows.Err()
}

// LeagueTeams returns the teams of one league.
func (r *PostgresRepository) LeagueTeams(ctx context.Context, league string) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT st.id, st.name, COALESCE(st.city, ''), COALESCE(st.abbreviation, ''), sl.name
		 FROM sports_teams st
		 JOIN sports_leagues sl ON st.league_id = sl.id
		 WHERE lower(sl.name) = lower($1)
		 ORDER BY st.name`, league)
	if err != nil {
		return nil, fmt.Errorf("querying league teams: %w", err)
	}
	defer rows.Close()

	teams := make([]Team, 0)
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Abbreviation, &t.League); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// WeekendDays returns the user's weekend-day set.
func (r *PostgresRepository) WeekendDays(ctx context.Context, userID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day_of_week FROM user_weekend_preferences WHERE user_id = $1 ORDER BY day_of_week`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying weekend days: %w", err)
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scanning weekend day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// SetWeekendDays replaces the user's weekend-day set atomically.
func (r *PostgresRepository) SetWeekendDays(ctx context.Context, userID string, days []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_weekend_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing weekend days: %w", err)
	}
	for _, day := range days {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_weekend_preferences (user_id, day_of_week) VALUES ($1, $2)`, userID, day); err != nil {
			return fmt.Errorf("inserting weekend day: %w", err)
		}
	}
	return tx.Commit()
}

// TopArtists returns up to limit artists ordered by rank position.
func (r *PostgresRepository) TopArtists(ctx context.Context, userID string, limit int) ([]TopArtist, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT artist_name, COALESCE(provider_artist_id, ''), rank_position, COALESCE(source_service, '')
		 FROM user_top_artists WHERE user_id = $1 ORDER BY rank_position LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var artists []TopArtist
	for rows.Next() {
		var a TopArtist
		if err := rows.Scan(&a.Name, &a.ProviderID, &a.Rank, &a.Source); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// ReplaceTopArtists drops the user's artists from the given source and
// inserts the new ranked list atomically.
func (r *PostgresRepository) ReplaceTopArtists(ctx context.Context, userID, source string, artists []TopArtist) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_top_artists WHERE user_id = $1 AND source_service = $2`, userID, source); err != nil {
		return fmt.Errorf("clearing top artists: %w", err)
	}
	for _, a := range artists {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_top_artists (user_id, artist_name, provider_artist_id, rank_position, source_service)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5)`,
			userID, a.Name, a.ProviderID, a.Rank, source); err != nil {
			return fmt.Errorf("inserting artist: %w", err)
		}
	}
	return tx.Commit()
}

// UpsertConnection inserts or updates a music-service connection keyed by
// (user, service).
func (r *PostgresRepository) UpsertConnection(ctx context.Context, conn *MusicConnection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_music_connections (user_id, service_type, access_token, refresh_token, expires_at, service_user_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, true)
		 ON CONFLICT (user_id, service_type) DO UPDATE SET
		   access_token = EXCLUDED.access_token,
		   refresh_token = EXCLUDED.refresh_token,
		   expires_at = EXCLUDED.expires_at,
		   service_user_id = EXCLUDED.service_user_id,
		   is_active = true,
		   updated_at = CURRENT_TIMESTAMP`,
		conn.UserID, conn.Service, conn.AccessToken, conn.RefreshToken, conn.ExpiresAt, conn.ServiceUser)
	if err != nil {
		return fmt.Errorf("upserting connection: %w", err)
	}
	return nil
}

// Connection returns the user's connection for a service.
func (r *PostgresRepository) Connection(ctx context.Context, userID, service string) (*MusicConnection, error) {
	var conn MusicConnection
	var expires sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, service_type, COALESCE(access_token, ''), COALESCE(refresh_token, ''),
		        expires_at, COALESCE(service_user_id, ''), is_active, updated_at
		 FROM user_music_connections WHERE user_id = $1 AND service_type = $2`,
		userID, service,
	).Scan(&conn.UserID, &conn.Service, &conn.AccessToken, &conn.RefreshToken,
		&expires, &conn.ServiceUser, &conn.Active, &conn.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying connection: %w", err)
	}
	if expires.Valid {
		t := expires.Time
		conn.ExpiresAt = &t
	}
	return &conn, nil
}

// FavoriteTeams returns the user's favorite teams with league names.
func (r *PostgresRepository) FavoriteTeams(ctx context.Context, userID string) ([]Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT st.id, st.name, COALESCE(st.city, ''), COALESCE(st.abbreviation, ''), sl.name
		 FROM user_favorite_teams uft
		 JOIN sports_teams st ON uft.team_id = st.id
		 JOIN sports_leagues sl ON st.league_id = sl.id
		 WHERE uft.user_id = $1
		 ORDER BY st.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favorite teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Abbreviation, &t.League); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// AddFavoriteTeam favorites a team; adding twice is a no-op.
func (r *PostgresRepository) AddFavoriteTeam(ctx context.Context, userID, teamID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_favorite_teams (user_id, team_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, teamID)
	if err != nil {
		return fmt.Errorf("adding favorite team: %w", err)
	}
	return nil
}

// RemoveFavoriteTeam unfavorites a team.
func (r *PostgresRepository) RemoveFavoriteTeam(ctx context.Context, userID, teamID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_favorite_teams WHERE user_id = $1 AND team_id = $2`, userID, teamID)
	if err != nil {
		return fmt.Errorf("removing favorite team: %w", err)
	}
	return nil
}

// ClearFavoriteTeams removes all of the user's favorites.
func (r *PostgresRepository) ClearFavoriteTeams(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_favorite_teams WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clearing favorite teams: %w", err)
	}
	return nil
}

// LogActivity appends an activity log entry with JSON metadata.
func (r *PostgresRepository) LogActivity(ctx context.Context, userID, activityType string, metadata map[string]any) error {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding activity metadata: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO user_activity_logs (user_id, activity_type, metadata) VALUES ($1, $2, $3)`,
		userID, activityType, payload); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// ActivityCount returns how many entries of a type the user has logged.
func (r *PostgresRepository) ActivityCount(ctx context.Context, userID, activityType string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_activity_logs WHERE user_id = $1 AND activity_type = $2`,
		userID, activityType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting activity: %w", err)
	}
	return count, nil
}
