package relay

import (
	"context"
	"fmt"

	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/internal/domain/standings"
	"github.com/BS-European-Championship/ta-relay/internal/domain/transform"
	"github.com/BS-European-Championship/ta-relay/internal/domain/types"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
	"github.com/BS-European-Championship/ta-relay/pkg/metrics"
)

// ComputeStandings folds the current ledger into ranked team points.
// Recomputing from the full ledger on every query keeps the totals free of
// incremental-update bugs; tournament-scale data makes the cost irrelevant.
func (e *Engine) ComputeStandings(ctx context.Context) []model.TeamPoints {
	e.mu.Lock()
	snapshot := e.ledger.Snapshot()
	e.mu.Unlock()

	metrics.RecordStandingsComputed()
	return standings.Compute(snapshot)
}

// BroadcastStandings computes standings, broadcasts a "points" message to
// overlays, and returns the rows to the caller.
func (e *Engine) BroadcastStandings(ctx context.Context) []model.TeamPoints {
	rows := e.ComputeStandings(ctx)
	e.forwarder.Broadcast(ctx, types.TypePoints, transform.Points(rows))
	return rows
}

// ResetScores empties the ledger. The watched-match pointer is untouched.
// Idempotent.
func (e *Engine) ResetScores(ctx context.Context) {
	e.mu.Lock()
	e.ledger.Reset()
	e.mu.Unlock()

	metrics.RecordLedgerReset()
	e.log.Info(ctx, "score ledger reset")
}

// EliminateBottomTeam removes every user of the lowest-ranked team from the
// watched match, pushes the updated match to the coordinator, and resets
// the ledger for the next round. With empty standings or no watched match
// this is a successful no-op. The ledger is reset even when the coordinator
// push fails; the error is returned so the operator can retry the push.
func (e *Engine) EliminateBottomTeam(ctx context.Context) error {
	rows := e.ComputeStandings(ctx)
	if len(rows) == 0 {
		e.log.Info(ctx, "eliminate skipped: no standings")
		return nil
	}
	losing := rows[len(rows)-1].Team

	e.mu.Lock()
	if e.watched == nil {
		e.mu.Unlock()
		e.log.Info(ctx, "eliminate skipped: no watched match")
		return nil
	}

	kept := make([]string, 0, len(e.watched.AssociatedUsers))
	for _, guid := range e.watched.AssociatedUsers {
		// Users the coordinator no longer knows are kept, matching the
		// lookup-miss degradation everywhere else.
		if u, ok := e.coordinator.UserByGUID(guid); ok && u.Team.ID == losing.ID {
			continue
		}
		kept = append(kept, guid)
	}
	e.watched.AssociatedUsers = kept
	updated := *e.watched
	e.mu.Unlock()

	pushErr := e.coordinator.UpdateMatch(ctx, updated)
	if pushErr != nil {
		e.log.Warn(ctx, "eliminate: match update push failed",
			logger.String("match", updated.ID), logger.Error(pushErr))
	}

	e.ResetScores(ctx)
	metrics.RecordTeamEliminated()
	e.log.Info(ctx, "eliminated bottom team",
		logger.String("team", losing.ID), logger.String("name", losing.Name))

	if pushErr != nil {
		return fmt.Errorf("eliminate bottom team: %w", pushErr)
	}
	return nil
}
