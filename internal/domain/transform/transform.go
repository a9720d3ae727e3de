// Package transform maps coordinator domain objects into the flat display
// shapes broadcast to overlays. Every function is pure: no state, no I/O.
package transform

import (
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/internal/domain/types"
)

// User flattens a coordinator user into its display record.
func User(u model.User) types.DisplayUser {
	return types.DisplayUser{
		GUID: u.GUID,
		Name: u.Name,
		Team: types.DisplayTeam{
			ID:   u.Team.ID,
			Name: u.Team.Name,
		},
		PlatformID: u.PlatformID,
		Downloaded: u.DownloadState.Label(),
		PlayState:  u.PlayState.Label(),
	}
}

// UserUpdate shapes a "user" broadcast for an updated user.
func UserUpdate(u model.User) types.UserMessage {
	return types.UserMessage{Type: types.TypeUser, User: User(u)}
}

// UserLeft shapes a "userLeft" broadcast for a departed user.
func UserLeft(u model.User) types.UserMessage {
	return types.UserMessage{Type: types.TypeUserLeft, User: User(u)}
}

// Match shapes a "match" broadcast from the match and the coordinator's
// current roster: players are roster users of player type in the match's
// associated-user set, the coordinator is the first coordinator-type user
// in that set, and the song mirrors the selected level. A missing
// coordinator or level leaves the field absent rather than failing.
func Match(m model.Match, roster []model.User) types.MatchMessage {
	players := make([]types.DisplayUser, 0, len(m.AssociatedUsers))
	coordinator := ""
	for _, u := range roster {
		if !m.HasUser(u.GUID) {
			continue
		}
		switch u.ClientType {
		case model.ClientTypePlayer:
			players = append(players, User(u))
		case model.ClientTypeCoordinator:
			if coordinator == "" {
				coordinator = u.Name
			}
		}
	}

	song := types.SongInfo{Difficulty: m.SelectedDifficulty, Characteristic: m.SelectedCharacteristic}
	if m.SelectedLevel != nil {
		song.ID = m.SelectedLevel.ID
		song.Name = m.SelectedLevel.Name
	}

	return types.MatchMessage{
		Type:        types.TypeMatch,
		Players:     players,
		Coordinator: coordinator,
		Song:        song,
	}
}

// Score shapes a "score" broadcast. A nil user (lookup miss) degrades to a
// message without the user field.
func Score(score model.RealtimeScore, user *model.User) types.ScoreMessage {
	msg := types.ScoreMessage{Type: types.TypeScore, Score: score}
	if user != nil {
		display := User(*user)
		msg.User = &display
	}
	return msg
}

// FinalScore shapes a "finalScoreForPlayer" broadcast from a finish event.
func FinalScore(finished model.SongFinished) types.FinalScoreMessage {
	return types.FinalScoreMessage{
		Type:  types.TypeFinalScore,
		User:  finished.Player,
		Score: finished.Score,
	}
}

// Points shapes a "points" broadcast from computed standings.
func Points(rows []model.TeamPoints) types.PointsMessage {
	if rows == nil {
		rows = []model.TeamPoints{}
	}
	return types.PointsMessage{Type: types.TypePoints, Teams: rows}
}
