package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"nba_clutch/ingestion/internal/models"
)

// Header is the CSV header row
var Header = []string{"playerId", "teamId", "FGA", "FGM", "PTS"}

// IOError reports a failure writing the output file
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WriteCSV overwrites path with the header and one line per row
func WriteCSV(path string, rows []models.PlayerTotals) error {
	file, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}

	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return &IOError{Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// WriteRows writes the CSV content to w
func WriteRows(w io.Writer, rows []models.PlayerTotals) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.PlayerID),
			formatTeam(r.TeamID),
			strconv.Itoa(r.FGA),
			strconv.Itoa(r.FGM),
			strconv.Itoa(r.PTS),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func formatTeam(teamID int) string {
	if teamID == 0 {
		return ""
	}
	return strconv.Itoa(teamID)
}
