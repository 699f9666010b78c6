package models

import "strings"

// GameID is the NBA game identifier, e.g. "0022500001"
type GameID string

// Game status codes used by the league schedule feed
const (
	GameStatusScheduled = 1
	GameStatusLive      = 2
	GameStatusFinal     = 3
)

// ScheduleResponse is the scheduleLeagueV2 document from the NBA CDN
type ScheduleResponse struct {
	LeagueSchedule *LeagueSchedule `json:"leagueSchedule"`
}

// LeagueSchedule holds the season's game dates
type LeagueSchedule struct {
	SeasonYear string     `json:"seasonYear"`
	LeagueID   string     `json:"leagueId"`
	GameDates  []GameDate `json:"gameDates"`
}

// GameDate groups the games played on one calendar day
type GameDate struct {
	GameDate string          `json:"gameDate"`
	Games    []ScheduledGame `json:"games"`
}

// ScheduledGame is one entry of the schedule feed. Only GameID is required.
type ScheduledGame struct {
	GameID       GameID   `json:"gameId"`
	GameCode     string   `json:"gameCode"`
	GameStatus   int      `json:"gameStatus"`
	GameDateTime string   `json:"gameDateTimeUTC"`
	HomeTeam     TeamInfo `json:"homeTeam"`
	AwayTeam     TeamInfo `json:"awayTeam"`
}

// TeamInfo is the team block embedded in a scheduled game
type TeamInfo struct {
	TeamID      int    `json:"teamId"`
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
}

// IsFinal reports whether the schedule marks the game as completed
func (g ScheduledGame) IsFinal() bool {
	return g.GameStatus == GameStatusFinal
}

// Schedule is a validated season schedule
type Schedule struct {
	Season string
	Games  []ScheduledGame
}

// GameIDs returns every game identifier in feed order
func (s *Schedule) GameIDs() []GameID {
	ids := make([]GameID, 0, len(s.Games))
	for _, g := range s.Games {
		ids = append(ids, g.GameID)
	}
	return ids
}

// FinalGameIDs returns the identifiers of completed games in feed order
func (s *Schedule) FinalGameIDs() []GameID {
	ids := make([]GameID, 0, len(s.Games))
	for _, g := range s.Games {
		if g.IsFinal() {
			ids = append(ids, g.GameID)
		}
	}
	return ids
}

// SeasonStartYear returns the first year of a season string ("2025-26" -> "2025")
func SeasonStartYear(season string) string {
	year, _, _ := strings.Cut(season, "-")
	return year
}
