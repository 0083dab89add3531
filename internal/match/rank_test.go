package match

import (
	"testing"
	"time"
)

func scoredAt(score int, date time.Time) ScoredEvent {
	return ScoredEvent{
		Type:       EventTypeConcert,
		Date:       date,
		DayOfWeek:  int(date.Weekday()),
		MatchScore: score,
		Concert:    &ConcertDetail{},
	}
}

// TestRank verifies score-descending order with date-ascending tie-break.
func TestRank(t *testing.T) {
	d1 := time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 6, 8, 20, 0, 0, 0, time.UTC)

	events := []ScoredEvent{
		scoredAt(70, d3),
		scoredAt(90, d2),
		scoredAt(70, d1),
		scoredAt(100, d3),
	}

	ranked := Rank(events)

	wantScores := []int{100, 90, 70, 70}
	for i, want := range wantScores {
		if ranked[i].MatchScore != want {
			t.Errorf("position %d: score %d, want %d", i, ranked[i].MatchScore, want)
		}
	}

	// Equal scores: earlier date first.
	if !ranked[2].Date.Equal(d1) || !ranked[3].Date.Equal(d3) {
		t.Errorf("tie-break order wrong: got %v then %v", ranked[2].Date, ranked[3].Date)
	}

	// Total order property over the whole output.
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.MatchScore < cur.MatchScore {
			t.Errorf("position %d: score %d after %d", i, cur.MatchScore, prev.MatchScore)
		}
		if prev.MatchScore == cur.MatchScore && prev.Date.After(cur.Date) {
			t.Errorf("position %d: later date before earlier at equal score", i)
		}
	}
}

// TestTruncate verifies the result cap.
func TestTruncate(t *testing.T) {
	var events []ScoredEvent
	for i := 0; i < 30; i++ {
		events = append(events, scoredAt(50, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)))
	}

	if got := Truncate(events, MaxMatches); len(got) != MaxMatches {
		t.Errorf("expected %d events, got %d", MaxMatches, len(got))
	}
	if got := Truncate(events[:5], MaxMatches); len(got) != 5 {
		t.Errorf("expected short list untouched, got %d", len(got))
	}
}
