package user

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation of Repository and
// PreferenceRepository. Thread-safe via RWMutex. Used in tests and for
// development without a database.
type MemoryRepository struct {
	mu          sync.RWMutex
	users       map[string]*User // ID -> User
	emails      map[string]string
	usernames   map[string]string
	weekendDays map[string][]int
	artists     map[string][]TopArtist
	connections map[string]*MusicConnection // userID+"\x00"+service
	favorites   map[string]map[string]bool  // userID -> teamID set
	teams       map[string]Team             // catalog: teamID -> Team
	activity    map[string]map[string]int   // userID -> type -> count
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[string]*User),
		emails:      make(map[string]string),
		usernames:   make(map[string]string),
		weekendDays: make(map[string][]int),
		artists:     make(map[string][]TopArtist),
		connections: make(map[string]*MusicConnection),
		favorites:   make(map[string]map[string]bool),
		teams:       make(map[string]Team),
		activity:    make(map[string]map[string]int),
	}
}

// SeedTeam adds a team to the in-memory catalog so it can be favorited.
func (r *MemoryRepository) SeedTeam(team Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if team.ID == "" {
		team.ID = uuid.New().String()
	}
	r.teams[team.ID] = team
}

// Leagues returns every seeded league with its teams.
func (r *MemoryRepository) Leagues(ctx context.Context) ([]League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byLeague := make(map[string][]Team)
	for _, team := range r.teams {
		byLeague[team.League] = append(byLeague[team.League], team)
	}

	leagues := make([]League, 0, len(byLeague))
	for name, teams := range byLeague {
		sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
		leagues = append(leagues, League{Name: name, FullName: name, Teams: teams})
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].Name < leagues[j].Name })
	return leagues, nil
}

// LeagueTeams returns the seeded teams of one league.
func (r *MemoryRepository) LeagueTeams(ctx context.Context, league string) ([]Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]Team, 0)
	for _, team := range r.teams {
		if strings.EqualFold(team.League, league) {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func connKey(userID, service string) string {
	return userID + "\x00" + service
}

// Create inserts a new user, assigning an ID when absent.
func (r *MemoryRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := r.emails[email]; exists {
		return ErrDuplicateUser
	}
	if u.Username != "" {
		if _, exists := r.usernames[u.Username]; exists {
			return ErrDuplicateUser
		}
	}

	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Active = true

	userCopy := *u
	r.users[u.ID] = &userCopy
	r.emails[email] = u.ID
	if u.Username != "" {
		r.usernames[u.Username] = u.ID
	}
	return nil
}

// GetByEmail retrieves an active user by email.
func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := r.users[id]
	if u == nil || !u.Active {
		return nil, ErrUserNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

// GetByID retrieves a user by ID.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

// WeekendDays returns the user's weekend-day set.
func (r *MemoryRepository) WeekendDays(ctx context.Context, userID string) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int(nil), r.weekendDays[userID]...), nil
}

// SetWeekendDays replaces the user's weekend-day set.
func (r *MemoryRepository) SetWeekendDays(ctx context.Context, userID string, days []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weekendDays[userID] = append([]int(nil), days...)
	return nil
}

// TopArtists returns up to limit artists ordered by rank position.
func (r *MemoryRepository) TopArtists(ctx context.Context, userID string, limit int) ([]TopArtist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artists := append([]TopArtist(nil), r.artists[userID]...)
	sort.SliceStable(artists, func(i, j int) bool { return artists[i].Rank < artists[j].Rank })
	if len(artists) > limit {
		artists = artists[:limit]
	}
	return artists, nil
}

// ReplaceTopArtists drops the user's artists from the given source and
// inserts the new ranked list.
func (r *MemoryRepository) ReplaceTopArtists(ctx context.Context, userID, source string, artists []TopArtist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]TopArtist, 0, len(r.artists[userID])+len(artists))
	for _, a := range r.artists[userID] {
		if a.Source != source {
			kept = append(kept, a)
		}
	}
	for _, a := range artists {
		a.Source = source
		kept = append(kept, a)
	}
	r.artists[userID] = kept
	return nil
}

// UpsertConnection inserts or updates a music-service connection.
func (r *MemoryRepository) UpsertConnection(ctx context.Context, conn *MusicConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	connCopy := *conn
	connCopy.UpdatedAt = time.Now()
	r.connections[connKey(conn.UserID, conn.Service)] = &connCopy
	return nil
}

// Connection returns the user's connection for a service.
func (r *MemoryRepository) Connection(ctx context.Context, userID, service string) (*MusicConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[connKey(userID, service)]
	if !ok {
		return nil, ErrUserNotFound
	}
	connCopy := *conn
	return &connCopy, nil
}

// FavoriteTeams returns the user's favorite teams from the catalog.
func (r *MemoryRepository) FavoriteTeams(ctx context.Context, userID string) ([]Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var teams []Team
	for teamID := range r.favorites[userID] {
		if team, ok := r.teams[teamID]; ok {
			teams = append(teams, team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// AddFavoriteTeam favorites a team; adding twice is a no-op.
func (r *MemoryRepository) AddFavoriteTeam(ctx context.Context, userID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[string]bool)
	}
	r.favorites[userID][teamID] = true
	return nil
}

// RemoveFavoriteTeam unfavorites a team.
func (r *MemoryRepository) RemoveFavoriteTeam(ctx context.Context, userID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites[userID], teamID)
	return nil
}

// ClearFavoriteTeams removes all of the user's favorites.
func (r *MemoryRepository) ClearFavoriteTeams(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, userID)
	return nil
}

// LogActivity appends an activity log entry.
func (r *MemoryRepository) LogActivity(ctx context.Context, userID, activityType string, metadata map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activity[userID] == nil {
		r.activity[userID] = make(map[string]int)
	}
	r.activity[userID][activityType]++
	return nil
}

// ActivityCount returns how many entries of a type the user has logged.
func (r *MemoryRepository) ActivityCount(ctx context.Context, userID, activityType string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activity[userID][activityType], nil
}
