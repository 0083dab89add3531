package match

import (
	"testing"
	"time"
)

func ptr(f float64) *float64 { return &f }

// TestScoreConcert tests concert scoring against the additive bonus table.
func TestScoreConcert(t *testing.T) {
	tests := []struct {
		name  string
		event ConcertEvent
		want  int
	}{
		{
			name: "saturday evening rock show under $100 clamps at 100",
			event: ConcertEvent{
				// Saturday 2025-06-07 at 20:00: 50+15+20+10+5 = 100
				Date:     time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC),
				Genre:    "Rock",
				PriceMin: ptr(45),
			},
			want: 100,
		},
		{
			name: "friday evening pop show",
			event: ConcertEvent{
				// 50+10+20+10 = 90
				Date:  time.Date(2025, 6, 6, 21, 0, 0, 0, time.UTC),
				Genre: "Pop",
			},
			want: 90,
		},
		{
			name: "weekday matinee with no bonuses",
			event: ConcertEvent{
				Date: time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
			},
			want: 50,
		},
		{
			name: "unrecognized genre earns no genre bonus",
			event: ConcertEvent{
				Date:  time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
				Genre: "Classical",
			},
			want: 50,
		},
		{
			name: "expensive show earns no affordability bonus",
			event: ConcertEvent{
				Date:     time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
				PriceMin: ptr(150),
			},
			want: 50,
		},
		{
			name: "missing price earns no affordability bonus",
			event: ConcertEvent{
				Date:  time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC),
				Genre: "Hip-Hop",
			},
			want: 75, // 50+15+10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreConcert(tt.event)
			if got != tt.want {
				t.Errorf("ScoreConcert() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > MaxScore {
				t.Errorf("score %d outside [0, %d]", got, MaxScore)
			}
		})
	}
}

// TestScoreSports tests game scoring against the additive bonus table.
func TestScoreSports(t *testing.T) {
	tests := []struct {
		name  string
		event SportsEvent
		want  int
	}{
		{
			name: "scheduled friday afternoon NFL game",
			event: SportsEvent{
				// 50+10+15+10 = 85
				Date:   time.Date(2025, 6, 6, 13, 0, 0, 0, time.UTC),
				League: "NFL",
				Status: "Scheduled",
			},
			want: 85,
		},
		{
			name: "scheduled saturday night NBA game clamps at 100",
			event: SportsEvent{
				// 50+15+20+15+10 = 110 -> 100
				Date:   time.Date(2025, 6, 7, 19, 30, 0, 0, time.UTC),
				League: "NBA",
				Status: "Scheduled",
			},
			want: 100,
		},
		{
			name: "MLB game earns no league bonus",
			event: SportsEvent{
				Date:   time.Date(2025, 6, 11, 13, 0, 0, 0, time.UTC),
				League: "MLB",
				Status: "Scheduled",
			},
			want: 60,
		},
		{
			name: "in-progress game earns no scheduled bonus",
			event: SportsEvent{
				Date:   time.Date(2025, 6, 11, 13, 0, 0, 0, time.UTC),
				League: "NBA",
				Status: "In Progress",
			},
			want: 65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSports(tt.event)
			if got != tt.want {
				t.Errorf("ScoreSports() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > MaxScore {
				t.Errorf("score %d outside [0, %d]", got, MaxScore)
			}
		})
	}
}

// TestScoreDeterminism verifies scoring is a pure function of event fields.
func TestScoreDeterminism(t *testing.T) {
	event := ConcertEvent{
		Date:     time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC),
		Genre:    "Rock",
		PriceMin: ptr(45),
	}
	first := ScoreConcert(event)
	for i := 0; i < 10; i++ {
		if got := ScoreConcert(event); got != first {
			t.Fatalf("score changed between calls: %d != %d", got, first)
		}
	}
}
