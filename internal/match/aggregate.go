package match

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// aggregate fans out one concert query per top artist and one sports query
// per (day, league) pair, all concurrently, and waits for every outcome
// before returning. A failed or slow sub-query contributes zero events; it
// never aborts the batch or surfaces an error to the caller. Cancellation
// and timeouts are the sources' responsibility via ctx.
func (e *Engine) aggregate(ctx context.Context, prefs Preferences, start time.Time) ([]ConcertEvent, []SportsEvent) {
	var wg sync.WaitGroup

	concertCh := make(chan []ConcertEvent, len(prefs.TopArtists))
	sportsCh := make(chan []SportsEvent, WindowDays*len(e.leagues))

	for _, artist := range prefs.TopArtists {
		wg.Add(1)
		go func(artist string) {
			defer wg.Done()
			events, err := e.concerts.SearchByArtist(ctx, artist, prefs.Location.City, prefs.Location.State, prefs.Location.RadiusMiles)
			if err != nil {
				slog.DebugContext(ctx, "concert search failed", "artist", artist, "error", err)
				e.metrics.SourceFailure("concerts")
				return
			}
			concertCh <- events
		}(artist)
	}

	for offset := 0; offset < WindowDays; offset++ {
		date := start.AddDate(0, 0, offset)
		for _, league := range e.leagues {
			wg.Add(1)
			go func(league string, date time.Time) {
				defer wg.Done()
				events, err := e.sports.ScheduleFor(ctx, league, date)
				if err != nil {
					slog.DebugContext(ctx, "schedule lookup failed", "league", league, "date", date.Format("2006-01-02"), "error", err)
					e.metrics.SourceFailure("sports")
					return
				}
				sportsCh <- events
			}(league, date)
		}
	}

	wg.Wait()
	close(concertCh)
	close(sportsCh)

	var concerts []ConcertEvent
	for batch := range concertCh {
		concerts = append(concerts, batch...)
	}

	var sports []SportsEvent
	for batch := range sportsCh {
		sports = append(sports, batch...)
	}

	return concerts, sports
}
