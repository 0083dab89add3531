package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Engine is the weekend matching engine. It is stateless across calls; all
// dependencies are injected at construction and every call reads preferences
// fresh.
type Engine struct {
	store    PreferenceStore
	concerts ConcertSource
	sports   SportsSource
	leagues  []string
	metrics  *Metrics
}

// NewEngine creates an engine over the given preference store and event
// sources. metrics may be nil.
func NewEngine(store PreferenceStore, concerts ConcertSource, sports SportsSource, metrics *Metrics) *Engine {
	return &Engine{
		store:    store,
		concerts: concerts,
		sports:   sports,
		leagues:  SupportedLeagues,
		metrics:  metrics,
	}
}

// resolve produces the user's preferences for one matching call. A missing
// user is fatal; a failed weekend-day lookup degrades to DefaultWeekendDays.
func (e *Engine) resolve(ctx context.Context, userID string) (Preferences, error) {
	loc, err := e.store.Location(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}

	days, err := e.store.WeekendDays(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "weekend day lookup failed, using default", "user_id", userID, "error", err)
		days = DefaultWeekendDays
	}
	if len(days) == 0 {
		days = DefaultWeekendDays
	}

	artists, err := e.store.TopArtists(ctx, userID, MaxArtists)
	if err != nil {
		return Preferences{}, fmt.Errorf("loading top artists: %w", err)
	}

	teams, err := e.store.FavoriteTeams(ctx, userID)
	if err != nil {
		return Preferences{}, fmt.Errorf("loading favorite teams: %w", err)
	}

	return Preferences{
		Location:      loc,
		WeekendDays:   days,
		TopArtists:    artists,
		FavoriteTeams: teams,
	}, nil
}

// FindWeekendEvents resolves the user's preferences, aggregates concert and
// sports candidates for the 7-day window starting at start, filters them to
// the user's weekend days, scores and ranks them, and returns the top
// matches. The only error it returns is a failure on the preference path
// (notably ErrUserNotFound); event-source failures degrade to a smaller or
// empty result.
func (e *Engine) FindWeekendEvents(ctx context.Context, userID string, start time.Time) (*Result, error) {
	e.metrics.Search()

	prefs, err := e.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	concerts, sports := e.aggregate(ctx, prefs, start)

	keptConcerts := FilterConcerts(concerts, prefs.WeekendDays, start)
	keptSports := FilterSports(sports, prefs.WeekendDays, start)

	scored := make([]ScoredEvent, 0, len(keptConcerts)+len(keptSports))
	for _, c := range keptConcerts {
		scored = append(scored, scoreConcertEvent(c))
	}
	for _, s := range keptSports {
		scored = append(scored, scoreSportsEvent(s))
	}

	ranked := Rank(scored)
	matched := Truncate(ranked, MaxMatches)
	e.metrics.Matched(len(matched))

	return &Result{
		WeekendStart:  start.Format("2006-01-02"),
		UserLocation:  prefs.Location.City + ", " + prefs.Location.State,
		SearchRadius:  prefs.Location.RadiusMiles,
		WeekendDays:   prefs.WeekendDays,
		TotalConcerts: len(concerts),
		TotalSports:   len(sports),
		MatchedEvents: matched,
		Summary: Summary{
			ConcertsFound:      len(keptConcerts),
			SportsFound:        len(keptSports),
			TopArtistsSearched: len(prefs.TopArtists),
			FavoriteTeams:      len(prefs.FavoriteTeams),
		},
	}, nil
}
