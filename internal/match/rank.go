package match

import "sort"

// Rank orders scored events by score descending, breaking ties by event date
// ascending (earlier first). The sort is stable so identical (score, date)
// pairs keep their input order, which keeps results deterministic for
// identical inputs.
func Rank(events []ScoredEvent) []ScoredEvent {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].MatchScore != events[j].MatchScore {
			return events[i].MatchScore > events[j].MatchScore
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// Truncate caps the ranked list to the top n events.
func Truncate(events []ScoredEvent, n int) []ScoredEvent {
	if len(events) > n {
		return events[:n]
	}
	return events
}
