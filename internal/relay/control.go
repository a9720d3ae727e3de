package relay

import (
	"context"

	"github.com/BS-European-Championship/ta-relay/internal/domain/types"
)

// Operator control messages. These are not derived from coordinator events;
// the front end issues them and the relay forwards them verbatim to every
// overlay client.

// SetTeamsToDisplay tells overlays which two teams to show.
func (e *Engine) SetTeamsToDisplay(ctx context.Context, team1, team2 string) {
	e.forwarder.Broadcast(ctx, types.TypeTeamsToDisplay, types.TeamsToDisplayMessage{
		Type:  types.TypeTeamsToDisplay,
		Team1: team1,
		Team2: team2,
	})
}

// SetAudioPlayer switches the overlay audio source to the given player.
func (e *Engine) SetAudioPlayer(ctx context.Context, player int) {
	e.forwarder.Broadcast(ctx, types.TypeAudioPlayer, types.AudioPlayerMessage{
		Type:   types.TypeAudioPlayer,
		Player: player,
	})
}

// SetFinalsPoints sets the finals scoreboard totals on overlays.
func (e *Engine) SetFinalsPoints(ctx context.Context, team1, team2 int) {
	e.forwarder.Broadcast(ctx, types.TypeFinalsPoints, types.FinalsPointsMessage{
		Type:  types.TypeFinalsPoints,
		Team1: team1,
		Team2: team2,
	})
}
