package models

// PlayerTotals is one player's summed clutch statistics for the season
type PlayerTotals struct {
	PlayerID int `json:"playerId"`
	TeamID   int `json:"teamId,omitempty"` // 0 when no clutch action carried a team
	FGA      int `json:"fga"`
	FGM      int `json:"fgm"`
	PTS      int `json:"pts"`
}
