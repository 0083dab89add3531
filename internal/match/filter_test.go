package match

import (
	"testing"
	"time"
)

// TestInWindow tests the combined date-range and day-of-week rule.
func TestInWindow(t *testing.T) {
	// 2025-06-06 is a Friday, so the window is [2025-06-06, 2025-06-12].
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	weekend := []int{5, 6, 0} // Fri, Sat, Sun

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{
			name: "friday start date is included",
			date: time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "saturday inside window",
			date: time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "sunday inside window",
			date: time.Date(2025, 6, 8, 15, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "tuesday inside window but not a weekend day",
			date: time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "last window day late evening is included",
			date: time.Date(2025, 6, 12, 23, 0, 0, 0, time.UTC),
			want: false, // Thursday: in range but not a weekend day
		},
		{
			name: "friday after window end is excluded even though day matches",
			date: time.Date(2025, 6, 13, 20, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "day before start is excluded",
			date: time.Date(2025, 6, 5, 20, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "zero date is dropped",
			date: time.Time{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InWindow(tt.date, weekend, start); got != tt.want {
				t.Errorf("InWindow(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

// TestInWindowCustomDays verifies the weekend-day set is user-configurable.
func TestInWindowCustomDays(t *testing.T) {
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	tuesdayOnly := []int{2}

	tuesday := time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC)
	if !InWindow(tuesday, tuesdayOnly, start) {
		t.Error("expected tuesday to match a {2} weekend set")
	}

	saturday := time.Date(2025, 6, 7, 19, 0, 0, 0, time.UTC)
	if InWindow(saturday, tuesdayOnly, start) {
		t.Error("expected saturday to be excluded by a {2} weekend set")
	}
}

// TestFilterConcerts verifies filtered events all satisfy the window rule.
func TestFilterConcerts(t *testing.T) {
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	weekend := []int{5, 6, 0}

	events := []ConcertEvent{
		{ID: "keep-fri", Date: time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC)},
		{ID: "drop-tue", Date: time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)},
		{ID: "keep-sun", Date: time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)},
		{ID: "drop-next-fri", Date: time.Date(2025, 6, 13, 20, 0, 0, 0, time.UTC)},
		{ID: "drop-no-date"},
	}

	got := FilterConcerts(events, weekend, start)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID != "keep-fri" || got[1].ID != "keep-sun" {
		t.Errorf("unexpected kept events: %q, %q", got[0].ID, got[1].ID)
	}
	for _, e := range got {
		if !InWindow(e.Date, weekend, start) {
			t.Errorf("filtered event %q violates window rule", e.ID)
		}
	}
}

// TestFilterSports mirrors TestFilterConcerts for the sports shape.
func TestFilterSports(t *testing.T) {
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	weekend := []int{6}

	events := []SportsEvent{
		{ID: "keep-sat", Date: time.Date(2025, 6, 7, 19, 0, 0, 0, time.UTC)},
		{ID: "drop-sun", Date: time.Date(2025, 6, 8, 19, 0, 0, 0, time.UTC)},
		{ID: "drop-no-date"},
	}

	got := FilterSports(events, weekend, start)
	if len(got) != 1 || got[0].ID != "keep-sat" {
		t.Fatalf("expected only keep-sat, got %v", got)
	}
}
