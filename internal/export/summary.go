package export

import (
	"fmt"
	"io"
	"strconv"

	"nba_clutch/ingestion/internal/models"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummary renders rows as a console table followed by a totals line.
// Rows are rendered in the order given.
func WriteSummary(w io.Writer, season string, rows []models.PlayerTotals, totalPlayers int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Player", "Team", "FGA", "FGM", "FG%", "PTS"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range rows {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.PlayerID),
			formatTeam(r.TeamID),
			strconv.Itoa(r.FGA),
			strconv.Itoa(r.FGM),
			fieldGoalPct(r),
			strconv.Itoa(r.PTS),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing top %d of %d players by clutch points (%s)\n", len(rows), totalPlayers, season)
	return err
}

func fieldGoalPct(r models.PlayerTotals) string {
	if r.FGA == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", 100*float64(r.FGM)/float64(r.FGA))
}
