package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()

	c := NewEventCache(nil)
	if c.Enabled() {
		t.Error("nil-client cache must report disabled")
	}

	var dest []string
	if err := c.Get(ctx, "concerts:x", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss from disabled cache, got %v", err)
	}
	if err := c.Set(ctx, "concerts:x", []string{"a"}, time.Minute); err != nil {
		t.Errorf("Set on disabled cache must be a no-op, got %v", err)
	}
}

func TestNilReceiver(t *testing.T) {
	var c *EventCache
	if c.Enabled() {
		t.Error("nil cache must report disabled")
	}
	if err := c.Get(context.Background(), "k", nil); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss from nil cache, got %v", err)
	}
}

func TestConcertKey(t *testing.T) {
	got := ConcertKey("The Midnight", "Austin", "TX", 30)
	want := "concerts:The Midnight:Austin:TX:30"
	if got != want {
		t.Errorf("ConcertKey() = %q, want %q", got, want)
	}
}

func TestScheduleKey(t *testing.T) {
	date := time.Date(2025, 6, 7, 15, 30, 0, 0, time.UTC)
	got := ScheduleKey("NFL", date)
	want := "schedule:NFL:20250607"
	if got != want {
		t.Errorf("ScheduleKey() = %q, want %q", got, want)
	}
}

func TestArtistKey(t *testing.T) {
	got := ArtistKey("midnight", 10)
	want := "artists:midnight:10"
	if got != want {
		t.Errorf("ArtistKey() = %q, want %q", got, want)
	}
}
