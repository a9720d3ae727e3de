// Package relay implements the event router and score aggregator at the
// heart of the tournament relay.
package relay

import (
	"context"

	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
)

// Coordinator is the relay's handle to the coordination client. The
// connection itself, including any reconnection policy, belongs to the
// adapter implementing this.
type Coordinator interface {
	// Self returns the guid the relay is registered under.
	Self() string

	// Users returns a snapshot of the coordinator's known users.
	Users() []model.User

	// UserByGUID looks up a known user by guid.
	UserByGUID(guid string) (model.User, bool)

	// UpdateMatch pushes an authoritative match update to the coordinator.
	UpdateMatch(ctx context.Context, match model.Match) error
}

// Broadcaster fans a display message out to every overlay client.
type Broadcaster interface {
	Broadcast(ctx context.Context, messageType string, message any)
}

// Sink receives the engine's outward re-emissions for external listeners.
type Sink interface {
	ScoreReceived(score model.RealtimeScore)
	SongFinished(finished model.SongFinished)
	MatchCreated(match model.Match)
	AllPlayersFinished()
}
