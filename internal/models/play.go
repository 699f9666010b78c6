package models

import (
	"bytes"
	"encoding/json"
)

// ShotResultMade is the shot result value counted as a made field goal
const ShotResultMade = "Made"

// PlayByPlayResponse is the liveData playbyplay document for one game
type PlayByPlayResponse struct {
	Game *PlayByPlayGame `json:"game"`
}

// PlayByPlayGame wraps the chronological list of actions
type PlayByPlayGame struct {
	GameID  GameID       `json:"gameId"`
	Actions []PlayAction `json:"actions"`
}

// PlayAction is one discrete in-game event.
// Optional fields are pointers or zero values: PersonID and TeamID are 0
// for team-level or administrative events, ShotResult is empty for
// non-shot actions.
type PlayAction struct {
	ActionNumber int    `json:"actionNumber"`
	Period       int    `json:"period"`
	Clock        string `json:"clock"`
	HomeScore    *int   `json:"homeScore,omitempty"`
	AwayScore    *int   `json:"awayScore,omitempty"`
	PersonID     int    `json:"personId,omitempty"`
	TeamID       int    `json:"teamId,omitempty"`
	ActionType   string `json:"actionType"`
	ShotResult   string `json:"shotResult,omitempty"`
	ScoreValue   int    `json:"scoreValue,omitempty"`
}

// HasPlayer reports whether the action is attributed to a player
func (a PlayAction) HasPlayer() bool {
	return a.PersonID != 0
}

// IsShot reports whether the action carries a shot result
func (a PlayAction) IsShot() bool {
	return a.ShotResult != ""
}

// IsMade reports whether the action is a made shot
func (a PlayAction) IsMade() bool {
	return a.ShotResult == ShotResultMade
}

// UnmarshalJSON decodes an action, leaving a score nil when the feed sends
// it null or with the wrong type, so one bad score only excludes that action.
func (a *PlayAction) UnmarshalJSON(data []byte) error {
	type plain PlayAction
	aux := struct {
		*plain
		HomeScore json.RawMessage `json:"homeScore"`
		AwayScore json.RawMessage `json:"awayScore"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	a.HomeScore = optionalScore(aux.HomeScore)
	a.AwayScore = optionalScore(aux.AwayScore)
	return nil
}

func optionalScore(raw json.RawMessage) *int {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var score int
	if err := json.Unmarshal(raw, &score); err != nil {
		return nil
	}
	return &score
}
