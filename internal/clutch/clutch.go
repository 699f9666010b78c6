// Package clutch decides which play-by-play actions happen in clutch time.
package clutch

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"nba_clutch/ingestion/internal/models"
)

// clockPattern matches "M:SS", "MM:SS" and an optional decimal fraction of a second
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?:\.(\d{1,9}))?$`)

// Defaults for a season run
const (
	DefaultMinPeriod    = 4
	DefaultMaxScoreDiff = 5
	DefaultWindow       = 5 * time.Minute
)

// Criteria are fixed for a whole season run. An action is clutch when all
// three hold.
type Criteria struct {
	MinPeriod    int           // 4th quarter or any overtime
	MaxScoreDiff int           // inclusive
	Window       time.Duration // remaining clock, inclusive
}

// DefaultCriteria returns period >= 4, within 5 points, last 5:00
func DefaultCriteria() Criteria {
	return Criteria{
		MinPeriod:    DefaultMinPeriod,
		MaxScoreDiff: DefaultMaxScoreDiff,
		Window:       DefaultWindow,
	}
}

// ParseClock parses a "minutes:seconds" period clock into the time remaining.
// Seconds may carry a fraction ("00:04.3"). ok is false for anything else,
// including signs, exponents and seconds of 60 or more.
func ParseClock(clock string) (remaining time.Duration, ok bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return 0, false
	}

	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	if seconds >= 60 {
		return 0, false
	}

	var nanos int
	if m[3] != "" {
		nanos, _ = strconv.Atoi(m[3] + strings.Repeat("0", 9-len(m[3])))
	}

	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(nanos), true
}

// Matches reports whether a single action satisfies the criteria. Actions
// with a malformed clock or a missing score never match.
func (c Criteria) Matches(a models.PlayAction) bool {
	if a.HomeScore == nil || a.AwayScore == nil {
		return false
	}

	remaining, ok := ParseClock(a.Clock)
	if !ok {
		return false
	}

	if a.Period < c.MinPeriod {
		return false
	}

	diff := *a.HomeScore - *a.AwayScore
	if diff < 0 {
		diff = -diff
	}
	if diff > c.MaxScoreDiff {
		return false
	}

	return remaining <= c.Window
}

// Filter returns the clutch actions in their original order. The input is
// not modified.
func Filter(actions []models.PlayAction, c Criteria) []models.PlayAction {
	clutch := make([]models.PlayAction, 0)
	for _, a := range actions {
		if c.Matches(a) {
			clutch = append(clutch, a)
		}
	}
	return clutch
}
