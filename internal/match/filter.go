package match

import "time"

// dateOnly truncates a timestamp to its calendar date, preserving location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InWindow reports whether an event timestamp falls inside the inclusive
// date range [start, start+6 days] and on one of the weekend days.
// Comparison is by calendar date so that a late-evening event on the last
// window day is still captured.
func InWindow(eventDate time.Time, weekendDays []int, start time.Time) bool {
	if eventDate.IsZero() {
		return false
	}

	day := dateOnly(eventDate)
	first := dateOnly(start)
	last := first.AddDate(0, 0, WindowDays-1)

	if day.Before(first) || day.After(last) {
		return false
	}

	dow := int(eventDate.Weekday())
	for _, d := range weekendDays {
		if d == dow {
			return true
		}
	}
	return false
}

// FilterConcerts retains concerts inside the window. Events with a missing
// (zero) date are dropped silently.
func FilterConcerts(events []ConcertEvent, weekendDays []int, start time.Time) []ConcertEvent {
	out := make([]ConcertEvent, 0, len(events))
	for _, e := range events {
		if InWindow(e.Date, weekendDays, start) {
			out = append(out, e)
		}
	}
	return out
}

// FilterSports retains games inside the window, with the same rule as
// FilterConcerts.
func FilterSports(events []SportsEvent, weekendDays []int, start time.Time) []SportsEvent {
	out := make([]SportsEvent, 0, len(events))
	for _, e := range events {
		if InWindow(e.Date, weekendDays, start) {
			out = append(out, e)
		}
	}
	return out
}
