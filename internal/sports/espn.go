// Package sports provides game schedules backed by ESPN's public
// scoreboard API.
package sports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wkndwarrior/api/internal/cache"
	"github.com/wkndwarrior/api/internal/match"
)

// DefaultBaseURL is the ESPN site API root.
const DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports"

// leaguePaths maps league codes to their scoreboard URL segments.
var leaguePaths = map[string]string{
	"NFL": "football/nfl",
	"NBA": "basketball/nba",
	"MLB": "baseball/mlb",
}

// ErrUnknownLeague is returned for leagues without a scoreboard mapping.
var ErrUnknownLeague = errors.New("unknown league")

// Client fetches game schedules from ESPN scoreboards.
// It implements match.SportsSource.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.EventCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache enables response caching.
func WithCache(ec *cache.EventCache) Option {
	return func(c *Client) { c.cache = ec }
}

// NewClient creates an ESPN scoreboard client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// scoreboardResponse mirrors the subset of the ESPN payload we read.
type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Week struct {
		Number int `json:"number"`
	} `json:"week"`
	Season struct {
		Year int `json:"year"`
	} `json:"season"`
	Competitions []struct {
		Venue struct {
			FullName string `json:"fullName"`
			Address  struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"address"`
		} `json:"venue"`
		Status struct {
			Type struct {
				Description string `json:"description"`
			} `json:"type"`
		} `json:"status"`
		Competitors []struct {
			HomeAway string `json:"homeAway"`
			Team     struct {
				DisplayName  string `json:"displayName"`
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
		} `json:"competitors"`
	} `json:"competitions"`
}

// ScheduleFor returns the games scheduled for a league on a given date.
func (c *Client) ScheduleFor(ctx context.Context, league string, date time.Time) ([]match.SportsEvent, error) {
	path, ok := leaguePaths[strings.ToUpper(league)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLeague, league)
	}

	key := cache.ScheduleKey(league, date)
	var cached []match.SportsEvent
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.DebugContext(ctx, "schedule cache read failed", "error", err)
	}

	url := fmt.Sprintf("%s/%s/scoreboard?dates=%s", c.baseURL, path, date.Format("20060102"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build espn request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("espn scoreboard for %s: %w", league, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("espn scoreboard for %s: unexpected status %d", league, resp.StatusCode)
	}

	var body scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode espn response: %w", err)
	}

	events := parseEvents(strings.ToUpper(league), body)

	if err := c.cache.Set(ctx, key, events, cache.ScheduleTTL); err != nil {
		slog.DebugContext(ctx, "schedule cache write failed", "error", err)
	}
	return events, nil
}

// parseEvents converts scoreboard events into domain events. Events without
// a competition entry are skipped.
func parseEvents(league string, body scoreboardResponse) []match.SportsEvent {
	events := make([]match.SportsEvent, 0, len(body.Events))
	for _, ev := range body.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]

		out := match.SportsEvent{
			ID:         ev.ID,
			League:     league,
			VenueName:  comp.Venue.FullName,
			VenueCity:  comp.Venue.Address.City,
			VenueState: comp.Venue.Address.State,
			Status:     comp.Status.Type.Description,
			Week:       ev.Week.Number,
			SeasonYear: ev.Season.Year,
		}

		if t, err := time.Parse(time.RFC3339, ev.Date); err == nil {
			out.Date = t
		} else if t, err := time.Parse("2006-01-02T15:04Z", ev.Date); err == nil {
			// ESPN emits minute-precision timestamps on some scoreboards
			out.Date = t
		}

		for _, competitor := range comp.Competitors {
			switch competitor.HomeAway {
			case "home":
				out.HomeTeam = competitor.Team.DisplayName
				out.HomeTeamAbbr = competitor.Team.Abbreviation
			case "away":
				out.AwayTeam = competitor.Team.DisplayName
				out.AwayTeamAbbr = competitor.Team.Abbreviation
			}
		}

		events = append(events, out)
	}
	return events
}

// Leagues returns the league codes this client can serve.
func Leagues() []string {
	return []string{"NFL", "NBA", "MLB"}
}
