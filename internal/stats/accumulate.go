// Package stats turns clutch plays into per-player season totals.
package stats

import (
	"sort"

	"nba_clutch/ingestion/internal/models"
)

type playerGroup struct {
	totals     models.PlayerTotals
	teamCounts map[int]int
}

// Accumulate groups plays by player and sums attempts, makes and points.
// Plays without a player are dropped. Rows come back sorted by player ID, and
// any permutation of plays yields the same rows.
func Accumulate(plays []models.PlayAction) []models.PlayerTotals {
	groups := make(map[int]*playerGroup)

	for _, p := range plays {
		if !p.HasPlayer() {
			continue
		}

		g, ok := groups[p.PersonID]
		if !ok {
			g = &playerGroup{
				totals:     models.PlayerTotals{PlayerID: p.PersonID},
				teamCounts: make(map[int]int),
			}
			groups[p.PersonID] = g
		}

		if p.IsShot() {
			g.totals.FGA++
		}
		if p.IsMade() {
			g.totals.FGM++
		}
		g.totals.PTS += p.ScoreValue

		if p.TeamID != 0 {
			g.teamCounts[p.TeamID]++
		}
	}

	rows := make([]models.PlayerTotals, 0, len(groups))
	for _, g := range groups {
		g.totals.TeamID = primaryTeam(g.teamCounts)
		rows = append(rows, g.totals)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PlayerID < rows[j].PlayerID
	})

	return rows
}

// primaryTeam picks the team with the most actions, smallest ID on ties
func primaryTeam(counts map[int]int) int {
	best, bestCount := 0, 0
	for team, n := range counts {
		if n > bestCount || (n == bestCount && team < best) {
			best, bestCount = team, n
		}
	}
	return best
}

// TopByPoints returns up to n rows ordered by points, then makes, then player ID
func TopByPoints(rows []models.PlayerTotals, n int) []models.PlayerTotals {
	ranked := make([]models.PlayerTotals, len(rows))
	copy(ranked, rows)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PTS != b.PTS {
			return a.PTS > b.PTS
		}
		if a.FGM != b.FGM {
			return a.FGM > b.FGM
		}
		return a.PlayerID < b.PlayerID
	})

	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
