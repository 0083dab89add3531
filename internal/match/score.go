package match

import "time"

// Scoring constants. All bonuses are additive on top of the base; the sum is
// clamped to MaxScore last, so evaluation order never changes the result.
const (
	BaseScore = 50
	MaxScore  = 100

	EveningBonus      = 20 // local hour in [19, 23]
	SaturdayBonus     = 15
	FridayBonus       = 10
	GenreBonus        = 10 // concerts in a popular genre
	AffordableBonus   = 5  // concerts with a known minimum price under $100
	PopularLeague     = 15 // NFL and NBA games
	ScheduledBonus    = 10 // confirmed games
	affordableCeiling = 100.0
)

// popularGenres are the concert genres that earn GenreBonus.
var popularGenres = map[string]bool{
	"Rock":    true,
	"Pop":     true,
	"Hip-Hop": true,
}

// popularLeagues are the leagues that earn PopularLeague.
var popularLeagues = map[string]bool{
	"NFL": true,
	"NBA": true,
}

// timeScore computes the shared time-of-day and day-of-week bonuses.
func timeScore(t time.Time) int {
	score := 0
	if h := t.Hour(); h >= 19 && h <= 23 {
		score += EveningBonus
	}
	switch t.Weekday() {
	case time.Saturday:
		score += SaturdayBonus
	case time.Friday:
		score += FridayBonus
	}
	return score
}

func clamp(score int) int {
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// ScoreConcert computes the 0-100 relevance score for a concert. Pure
// function of the event's fields.
func ScoreConcert(e ConcertEvent) int {
	score := BaseScore + timeScore(e.Date)
	if popularGenres[e.Genre] {
		score += GenreBonus
	}
	if e.PriceMin != nil && *e.PriceMin < affordableCeiling {
		score += AffordableBonus
	}
	return clamp(score)
}

// ScoreSports computes the 0-100 relevance score for a game. Pure function
// of the event's fields.
func ScoreSports(e SportsEvent) int {
	score := BaseScore + timeScore(e.Date)
	if popularLeagues[e.League] {
		score += PopularLeague
	}
	if e.Status == "Scheduled" {
		score += ScheduledBonus
	}
	return clamp(score)
}

// scoreConcertEvent wraps a filtered concert into the tagged union with its
// computed score and day-of-week.
func scoreConcertEvent(e ConcertEvent) ScoredEvent {
	return ScoredEvent{
		Type:       EventTypeConcert,
		Date:       e.Date,
		DayOfWeek:  int(e.Date.Weekday()),
		MatchScore: ScoreConcert(e),
		Concert: &ConcertDetail{
			Artist:    e.ArtistName,
			Name:      e.EventName,
			Venue:     e.VenueName,
			City:      e.VenueCity,
			State:     e.VenueState,
			TicketURL: e.TicketURL,
			PriceMin:  e.PriceMin,
			PriceMax:  e.PriceMax,
			Genre:     e.Genre,
		},
	}
}

// scoreSportsEvent wraps a filtered game into the tagged union with its
// computed score and day-of-week.
func scoreSportsEvent(e SportsEvent) ScoredEvent {
	return ScoredEvent{
		Type:       EventTypeSports,
		Date:       e.Date,
		DayOfWeek:  int(e.Date.Weekday()),
		MatchScore: ScoreSports(e),
		Sports: &SportsDetail{
			Teams:  e.AwayTeam + " @ " + e.HomeTeam,
			Name:   e.AwayTeamAbbr + " @ " + e.HomeTeamAbbr,
			Venue:  e.VenueName,
			City:   e.VenueCity,
			State:  e.VenueState,
			League: e.League,
			Status: e.Status,
		},
	}
}
