// Package match implements the weekend matching engine: it combines a user's
// music and sports preferences with candidate events from external sources and
// produces a ranked, time-windowed recommendation set with explainable scores.
package match

import (
	"errors"
	"time"
)

// Day-of-week values follow time.Weekday numbering: 0=Sunday .. 6=Saturday.

// Engine limits and defaults.
const (
	// WindowDays is the lookahead window: [start, start+6] inclusive, so that
	// whichever weekend days fall within the coming week are captured even
	// when the start date is mid-week.
	WindowDays = 7

	// MaxArtists caps how many top artists are searched per matching call.
	MaxArtists = 20

	// MaxMatches caps the number of events returned in a result.
	MaxMatches = 20
)

// DefaultWeekendDays is the fallback weekend-day set (Friday, Saturday,
// Sunday) used when a user has no configured preference or the lookup fails.
var DefaultWeekendDays = []int{5, 6, 0}

// SupportedLeagues lists the leagues queried during sports aggregation.
var SupportedLeagues = []string{"NFL", "NBA", "MLB"}

// ErrUserNotFound is returned when the user or its preferences do not exist.
// It is the only error class that surfaces from a matching call.
var ErrUserNotFound = errors.New("user not found")

// Team is a favorite sports team as stored in user preferences.
type Team struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	League string `json:"league"`
}

// Location is a user's search origin.
type Location struct {
	City        string
	State       string
	RadiusMiles int
}

// Preferences is the resolved per-user input to a matching call. It is read
// fresh per request and never mutated while the call is in flight.
type Preferences struct {
	Location      Location
	WeekendDays   []int
	TopArtists    []string
	FavoriteTeams []Team
}

// ConcertEvent is a normalized concert candidate from the concert source.
type ConcertEvent struct {
	ID           string    `json:"id"`
	ArtistName   string    `json:"artist_name"`
	EventName    string    `json:"event_name"`
	Date         time.Time `json:"date"`
	VenueName    string    `json:"venue_name"`
	VenueCity    string    `json:"venue_city"`
	VenueState   string    `json:"venue_state"`
	VenueAddress string    `json:"venue_address,omitempty"`
	TicketURL    string    `json:"ticket_url,omitempty"`
	PriceMin     *float64  `json:"price_min,omitempty"`
	PriceMax     *float64  `json:"price_max,omitempty"`
	Genre        string    `json:"genre,omitempty"`
	Status       string    `json:"status,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
}

// SportsEvent is a normalized game candidate from the sports source.
type SportsEvent struct {
	ID           string    `json:"id"`
	League       string    `json:"league"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	HomeTeamAbbr string    `json:"home_team_abbr,omitempty"`
	AwayTeamAbbr string    `json:"away_team_abbr,omitempty"`
	Date         time.Time `json:"date"`
	VenueName    string    `json:"venue_name,omitempty"`
	VenueCity    string    `json:"venue_city,omitempty"`
	VenueState   string    `json:"venue_state,omitempty"`
	Status       string    `json:"status,omitempty"`
	Week         int       `json:"week,omitempty"`
	SeasonYear   int       `json:"season_year,omitempty"`
}

// EventType discriminates the two cases of ScoredEvent.
type EventType string

// ScoredEvent case tags.
const (
	EventTypeConcert EventType = "concert"
	EventTypeSports  EventType = "sports"
)

// ConcertDetail carries the concert-specific fields of a scored event.
type ConcertDetail struct {
	Artist    string   `json:"artist"`
	Name      string   `json:"name"`
	Venue     string   `json:"venue"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	TicketURL string   `json:"ticket_url,omitempty"`
	PriceMin  *float64 `json:"price_min,omitempty"`
	PriceMax  *float64 `json:"price_max,omitempty"`
	Genre     string   `json:"genre,omitempty"`
}

// SportsDetail carries the game-specific fields of a scored event.
type SportsDetail struct {
	Teams  string `json:"teams"`
	Name   string `json:"name"`
	Venue  string `json:"venue"`
	City   string `json:"city"`
	State  string `json:"state"`
	League string `json:"league"`
	Status string `json:"status,omitempty"`
}

// ScoredEvent is a tagged union over {concert, sports}. Exactly one of
// Concert or Sports is non-nil, matching Type. MatchScore is always in
// [0, 100].
type ScoredEvent struct {
	Type       EventType      `json:"type"`
	Date       time.Time      `json:"date"`
	DayOfWeek  int            `json:"day_of_week"`
	MatchScore int            `json:"match_score"`
	Concert    *ConcertDetail `json:"concert,omitempty"`
	Sports     *SportsDetail  `json:"sports,omitempty"`
}

// Summary breaks a result down by event type and input-preference size.
type Summary struct {
	ConcertsFound      int `json:"concerts_found"`
	SportsFound        int `json:"sports_found"`
	TopArtistsSearched int `json:"top_artists_searched"`
	FavoriteTeams      int `json:"favorite_teams"`
}

// Result is the outcome of a matching call: the request echo, aggregate
// counts of everything considered, and the top matches.
type Result struct {
	WeekendStart  string        `json:"weekend_start"`
	UserLocation  string        `json:"user_location"`
	SearchRadius  int           `json:"search_radius"`
	WeekendDays   []int         `json:"weekend_days"`
	TotalConcerts int           `json:"total_concerts"`
	TotalSports   int           `json:"total_sports"`
	MatchedEvents []ScoredEvent `json:"matched_events"`
	Summary       Summary       `json:"summary"`
}
