// Package types contains the JSON message shapes broadcast to overlay
// clients. Every message carries a "type" discriminant.
package types

import (
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
)

// Message type discriminants.
const (
	TypeMatch          = "match"
	TypeUser           = "user"
	TypeUserLeft       = "userLeft"
	TypeScore          = "score"
	TypeFinalScore     = "finalScoreForPlayer"
	TypePoints         = "points"
	TypePlaySong       = "playSong"
	TypeTeamsToDisplay = "setTeamsToDisplay"
	TypeAudioPlayer    = "setAudioPlayer"
	TypeFinalsPoints   = "setFinalsPoints"
)

// DisplayTeam is the flat team reference on a display user.
type DisplayTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayUser is the flat user record shown by overlays.
type DisplayUser struct {
	GUID       string      `json:"guid"`
	Name       string      `json:"name"`
	Team       DisplayTeam `json:"team"`
	PlatformID string      `json:"platformId"`
	Downloaded string      `json:"downloaded"`
	PlayState  string      `json:"playState"`
}

// SongInfo describes the selected level of a match.
type SongInfo struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	Characteristic string `json:"characteristic,omitempty"`
	Difficulty     int    `json:"difficulty"`
}

// MatchMessage mirrors the watched match for overlays.
type MatchMessage struct {
	Type        string        `json:"type"`
	Players     []DisplayUser `json:"players"`
	Coordinator string        `json:"coordinator,omitempty"`
	Song        SongInfo      `json:"song"`
}

// UserMessage carries a user update or departure.
type UserMessage struct {
	Type string      `json:"type"`
	User DisplayUser `json:"user"`
}

// ScoreMessage carries a live score plus the resolved user, when known.
type ScoreMessage struct {
	Type  string              `json:"type"`
	Score model.RealtimeScore `json:"score"`
	User  *DisplayUser        `json:"user,omitempty"`
}

// FinalScoreMessage carries a player's final score for a level.
type FinalScoreMessage struct {
	Type  string     `json:"type"`
	User  model.User `json:"user"`
	Score int        `json:"score"`
}

// PointsMessage carries ordered team standings.
type PointsMessage struct {
	Type  string             `json:"type"`
	Teams []model.TeamPoints `json:"teams"`
}

// PlaySongMessage signals that the selected level started. No payload.
type PlaySongMessage struct {
	Type string `json:"type"`
}

// TeamsToDisplayMessage is an operator control message forwarded verbatim.
type TeamsToDisplayMessage struct {
	Type  string `json:"type"`
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
}

// AudioPlayerMessage switches the overlay's audio source to a player.
type AudioPlayerMessage struct {
	Type   string `json:"type"`
	Player int    `json:"player"`
}

// FinalsPointsMessage sets the finals scoreboard totals.
type FinalsPointsMessage struct {
	Type  string `json:"type"`
	Team1 int    `json:"team1"`
	Team2 int    `json:"team2"`
}
