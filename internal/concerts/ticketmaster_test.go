package concerts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const discoveryFixture = `{
	"_embedded": {
		"events": [
			{
				"id": "ev-1",
				"name": "The Midnight: Heroes Tour",
				"url": "https://tickets.example.com/ev-1",
				"dates": {
					"start": {
						"dateTime": "2025-06-07T01:00:00Z",
						"localDate": "2025-06-06",
						"localTime": "20:00:00"
					},
					"status": {"code": "onsale"}
				},
				"priceRanges": [{"min": 45.0, "max": 95.0}],
				"classifications": [{"genre": {"name": "Rock"}}],
				"images": [{"url": "https://img.example.com/ev-1.jpg"}],
				"_embedded": {
					"venues": [
						{
							"name": "Stubb's",
							"city": {"name": "Austin"},
							"state": {"stateCode": "TX"},
							"address": {"line1": "801 Red River St"}
						}
					]
				}
			},
			{
				"id": "ev-2",
				"name": "Acoustic Night",
				"url": "https://tickets.example.com/ev-2",
				"dates": {
					"start": {"localDate": "2025-06-08"},
					"status": {"code": "onsale"}
				}
			}
		]
	}
}`

func TestSearchByArtist(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_, _ = w.Write([]byte(discoveryFixture))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	events, err := client.SearchByArtist(context.Background(), "The Midnight", "Austin", "TX", 30)
	if err != nil {
		t.Fatalf("SearchByArtist() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Query parameters
	q := captured.URL.Query()
	if q.Get("apikey") != "test-key" {
		t.Errorf("apikey = %q", q.Get("apikey"))
	}
	if q.Get("keyword") != "The Midnight" {
		t.Errorf("keyword = %q", q.Get("keyword"))
	}
	if q.Get("city") != "Austin" || q.Get("stateCode") != "TX" {
		t.Errorf("location params = %q, %q", q.Get("city"), q.Get("stateCode"))
	}
	if q.Get("radius") != "30" || q.Get("unit") != "miles" {
		t.Errorf("radius params = %q, %q", q.Get("radius"), q.Get("unit"))
	}
	if q.Get("classificationName") != "music" {
		t.Errorf("classificationName = %q", q.Get("classificationName"))
	}

	// First event is fully populated
	ev := events[0]
	if ev.ID != "ev-1" {
		t.Errorf("ID = %q", ev.ID)
	}
	if ev.ArtistName != "The Midnight" {
		t.Errorf("ArtistName = %q", ev.ArtistName)
	}
	if ev.EventName != "The Midnight: Heroes Tour" {
		t.Errorf("EventName = %q", ev.EventName)
	}
	want := time.Date(2025, 6, 7, 1, 0, 0, 0, time.UTC)
	if !ev.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", ev.Date, want)
	}
	if ev.VenueName != "Stubb's" || ev.VenueCity != "Austin" || ev.VenueState != "TX" {
		t.Errorf("venue = %q, %q, %q", ev.VenueName, ev.VenueCity, ev.VenueState)
	}
	if ev.PriceMin == nil || *ev.PriceMin != 45.0 {
		t.Errorf("PriceMin = %v", ev.PriceMin)
	}
	if ev.Genre != "Rock" {
		t.Errorf("Genre = %q", ev.Genre)
	}

	// Second event falls back to local date
	if got := events[1].Date; got != time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC) {
		t.Errorf("local-date fallback = %v", got)
	}
}

func TestSearchByArtistNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page": {"totalElements": 0}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	events, err := client.SearchByArtist(context.Background(), "Nobody", "Austin", "TX", 30)
	if err != nil {
		t.Fatalf("SearchByArtist() error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty slice for no results, got %d", len(events))
	}
	if events == nil {
		t.Error("expected non-nil empty slice")
	}
}

func TestSearchByArtistProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := client.SearchByArtist(context.Background(), "The Midnight", "Austin", "TX", 30); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestSearchByArtistBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := client.SearchByArtist(context.Background(), "The Midnight", "Austin", "TX", 30); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name      string
		dateTime  string
		localDate string
		localTime string
		want      time.Time
	}{
		{
			name:     "full timestamp",
			dateTime: "2025-06-07T01:00:00Z",
			want:     time.Date(2025, 6, 7, 1, 0, 0, 0, time.UTC),
		},
		{
			name:      "local date and time",
			localDate: "2025-06-06",
			localTime: "20:00:00",
			want:      time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC),
		},
		{
			name:      "local date only",
			localDate: "2025-06-06",
			want:      time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "nothing parseable",
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseEventDate(tt.dateTime, tt.localDate, tt.localTime)
			if !got.Equal(tt.want) {
				t.Errorf("parseEventDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
