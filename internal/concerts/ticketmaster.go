// Package concerts provides concert discovery backed by the Ticketmaster
// Discovery API.
package concerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wkndwarrior/api/internal/cache"
	"github.com/wkndwarrior/api/internal/match"
)

// DefaultBaseURL is the Ticketmaster Discovery v2 endpoint.
const DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

// pageSize caps how many events a single artist search returns.
const pageSize = 20

// Client searches the Ticketmaster Discovery API for music events.
// It implements match.ConcertSource.
type Client struct {
	apiKey  string
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

// NewClient creates a Ticketmaster client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
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

// discoveryResponse mirrors the subset of the Discovery API payload we read.
type discoveryResponse struct {
	Embedded *struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
		Status struct {
			Code string `json:"code"`
		} `json:"status"`
	} `json:"dates"`
	PriceRanges []struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []struct {
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
	} `json:"classifications"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Embedded *struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
			State struct {
				StateCode string `json:"stateCode"`
			} `json:"state"`
			Address struct {
				Line1 string `json:"line1"`
			} `json:"address"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// SearchByArtist finds upcoming music events for an artist near a location.
// Provider errors and empty result sets both return an empty slice so one
// failed artist lookup never sinks a whole weekend search; the error return
// carries the cause for logging.
func (c *Client) SearchByArtist(ctx context.Context, artist, city, state string, radiusMiles int) ([]match.ConcertEvent, error) {
	key := cache.ConcertKey(artist, city, state, radiusMiles)
	var cached []match.ConcertEvent
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.DebugContext(ctx, "concert cache read failed", "error", err)
	}

	params := url.Values{
		"apikey":             {c.apiKey},
		"keyword":            {artist},
		"city":               {city},
		"stateCode":          {state},
		"radius":             {strconv.Itoa(radiusMiles)},
		"unit":               {"miles"},
		"classificationName": {"music"},
		"sort":               {"date,asc"},
		"size":               {strconv.Itoa(pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build ticketmaster request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster search for %q: %w", artist, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketmaster search for %q: unexpected status %d", artist, resp.StatusCode)
	}

	var body discoveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode ticketmaster response: %w", err)
	}

	events := parseEvents(artist, body)

	if err := c.cache.Set(ctx, key, events, cache.ConcertTTL); err != nil {
		slog.DebugContext(ctx, "concert cache write failed", "error", err)
	}
	return events, nil
}

// parseEvents converts Discovery API events into domain events.
// Events whose date cannot be parsed keep a zero Date and are dropped later
// by window filtering.
func parseEvents(artist string, body discoveryResponse) []match.ConcertEvent {
	if body.Embedded == nil {
		return []match.ConcertEvent{}
	}

	events := make([]match.ConcertEvent, 0, len(body.Embedded.Events))
	for _, ev := range body.Embedded.Events {
		out := match.ConcertEvent{
			ID:         ev.ID,
			ArtistName: artist,
			EventName:  ev.Name,
			TicketURL:  ev.URL,
			Status:     ev.Dates.Status.Code,
			Date:       parseEventDate(ev.Dates.Start.DateTime, ev.Dates.Start.LocalDate, ev.Dates.Start.LocalTime),
		}

		if len(ev.PriceRanges) > 0 {
			minPrice, maxPrice := ev.PriceRanges[0].Min, ev.PriceRanges[0].Max
			out.PriceMin = &minPrice
			out.PriceMax = &maxPrice
		}
		if len(ev.Classifications) > 0 {
			out.Genre = ev.Classifications[0].Genre.Name
		}
		if len(ev.Images) > 0 {
			out.ImageURL = ev.Images[0].URL
		}
		if ev.Embedded != nil && len(ev.Embedded.Venues) > 0 {
			venue := ev.Embedded.Venues[0]
			out.VenueName = venue.Name
			out.VenueCity = venue.City.Name
			out.VenueState = venue.State.StateCode
			out.VenueAddress = venue.Address.Line1
		}

		events = append(events, out)
	}
	return events
}

// parseEventDate prefers the full UTC timestamp, falling back to the local
// date plus local time, then the bare local date.
func parseEventDate(dateTime, localDate, localTime string) time.Time {
	if dateTime != "" {
		if t, err := time.Parse(time.RFC3339, dateTime); err == nil {
			return t
		}
	}
	if localDate != "" && localTime != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", localDate+" "+localTime); err == nil {
			return t
		}
	}
	if localDate != "" {
		if t, err := time.Parse("2006-01-02", localDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
