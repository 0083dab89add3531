// Package user provides models and repositories for user accounts and the
// stored preferences the matching engine reads: weekend days, top artists,
// favorite teams, and music-service connections.
package user

import "time"

// Music service identifiers for connections and artist provenance.
const (
	ServiceSpotify    = "spotify"
	ServiceAppleMusic = "apple_music"
)

// ActivityWeekendSearch is the activity type logged for each matching call.
const ActivityWeekendSearch = "weekend_search"

// User is a registered account.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username,omitempty"`
	PasswordHash     string    `json:"-"`
	LocationCity     string    `json:"location_city,omitempty"`
	LocationState    string    `json:"location_state,omitempty"`
	LocationCountry  string    `json:"location_country,omitempty"`
	Timezone         string    `json:"timezone,omitempty"`
	SearchRadius     int       `json:"search_radius"`
	SubscriptionTier string    `json:"subscription_tier,omitempty"`
	Active           bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Team is a sports team a user can favorite.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Abbreviation string `json:"abbreviation"`
	League       string `json:"league"`
}

// League groups the teams available to favorite.
type League struct {
	Name     string `json:"league"`
	FullName string `json:"league_full_name"`
	Teams    []Team `json:"teams"`
}

// TopArtist is one entry of a user's ranked artist list.
type TopArtist struct {
	Name       string `json:"name"`
	ProviderID string `json:"provider_id,omitempty"`
	Rank       int    `json:"rank"`
	Source     string `json:"source,omitempty"`
}

// MusicConnection records a linked streaming account. Tokens are stored
// opaque; refresh policy belongs to the music clients.
type MusicConnection struct {
	UserID       string
	Service      string
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	ServiceUser  string
	Active       bool
	UpdatedAt    time.Time
}
