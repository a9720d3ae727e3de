package relay

import (
	"context"
	"sync"
	"time"

	"github.com/BS-European-Championship/ta-relay/internal/adapters/mq/queue"
	"github.com/BS-European-Championship/ta-relay/internal/domain/ledger"
	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/internal/domain/transform"
	"github.com/BS-European-Championship/ta-relay/internal/domain/types"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
	"github.com/BS-European-Championship/ta-relay/pkg/metrics"
)

// Engine consumes coordinator events from the queue on a single goroutine,
// owns the relay state (score ledger plus watched-match pointer), and fans
// display messages out to overlays.
//
// Events are handled to completion in arrival order. The mutex exists only
// because aggregator and control operations are also called from HTTP
// goroutines; per-event semantics stay linearizable.
type Engine struct {
	coordinator Coordinator
	forwarder   Broadcaster
	sink        Sink
	queue       queue.Queue
	log         logger.Logger

	mu      sync.Mutex
	ledger  *ledger.Ledger
	watched *model.Match

	done chan struct{}
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine with injected dependencies. Call Run to start the
// dispatch loop.
func New(coordinator Coordinator, forwarder Broadcaster, sink Sink, q queue.Queue, opts ...Option) *Engine {
	e := &Engine{
		coordinator: coordinator,
		forwarder:   forwarder,
		sink:        sink,
		queue:       q,
		log:         logger.Get().Named("engine"),
		ledger:      ledger.New(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drains the queue until ctx is canceled or the queue closes.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)

	eventCh := e.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventCh:
			if !ok {
				return
			}
			start := time.Now()
			e.handle(ctx, ev)
			metrics.RecordEventLatency(float64(time.Since(start).Milliseconds()))
			metrics.RecordEventHandled(string(ev.Type))
		}
	}
}

// Done is closed when the dispatch loop has exited.
func (e *Engine) Done() <-chan struct{} { return e.done }

// handle routes one event. A malformed payload degrades to a logged warning;
// no event may take the loop down.
func (e *Engine) handle(ctx context.Context, ev model.Event) {
	switch ev.Type {
	case model.EventRealtimeScore:
		if ev.Score == nil {
			e.warnMalformed(ctx, ev)
			return
		}
		e.handleRealtimeScore(ctx, *ev.Score)
	case model.EventSongFinished:
		if ev.Finished == nil {
			e.warnMalformed(ctx, ev)
			return
		}
		e.handleSongFinished(ctx, *ev.Finished)
	case model.EventMatchCreated:
		if ev.Match == nil {
			e.warnMalformed(ctx, ev)
			return
		}
		e.handleMatchCreated(ctx, *ev.Match)
	case model.EventMatchUpdated:
		if ev.Match == nil {
			e.warnMalformed(ctx, ev)
			return
		}
		e.handleMatchUpdated(ctx, *ev.Match)
	case model.EventPlaySong:
		e.forwarder.Broadcast(ctx, types.TypePlaySong, types.PlaySongMessage{Type: types.TypePlaySong})
	case model.EventUserUpdated:
		if ev.User == nil {
			e.warnMalformed(ctx, ev)
			return
		}
		e.forwarder.Broadcast(ctx, types.TypeUser, transform.UserUpdate(*ev.User))
	case model.EventUserLeft:
		if ev.User == nil {
			e.warnMalformed(ctx, ev)
			return
		}
		e.forwarder.Broadcast(ctx, types.TypeUserLeft, transform.UserLeft(*ev.User))
	default:
		e.log.Warn(ctx, "unknown event type", logger.String("event", string(ev.Type)))
	}
}

func (e *Engine) warnMalformed(ctx context.Context, ev model.Event) {
	e.log.Warn(ctx, "malformed event payload", logger.String("event", string(ev.Type)))
}

// handleRealtimeScore broadcasts a live score tied to the emitting user. An
// unknown user yields a message without the user field. No state changes.
func (e *Engine) handleRealtimeScore(ctx context.Context, score model.RealtimeScore) {
	var user *model.User
	if u, ok := e.coordinator.UserByGUID(score.UserGUID); ok {
		user = &u
	} else {
		e.log.Warn(ctx, "score for unknown user", logger.String("guid", score.UserGUID))
	}
	e.forwarder.Broadcast(ctx, types.TypeScore, transform.Score(score, user))
	e.sink.ScoreReceived(score)
}

// handleSongFinished records the final score in the ledger, broadcasts it,
// and signals outward once every player on the watched match has finished
// the level. The signal fires only on the append that reaches the player
// count, so a duplicate finish for the same player cannot re-trigger it.
func (e *Engine) handleSongFinished(ctx context.Context, finished model.SongFinished) {
	e.mu.Lock()
	added := e.ledger.Append(finished.Beatmap.ID, model.ScoreEntry{
		User:  finished.Player,
		Score: finished.Score,
	})
	count := e.ledger.FinishedCount(finished.Beatmap.ID)
	players := e.watchedPlayerCountLocked()
	e.mu.Unlock()

	if !added {
		e.log.Warn(ctx, "duplicate finish ignored",
			logger.String("level", finished.Beatmap.ID),
			logger.String("player", finished.Player.GUID))
	}

	e.forwarder.Broadcast(ctx, types.TypeFinalScore, transform.FinalScore(finished))
	e.sink.SongFinished(finished)

	if added && players > 0 && count == players {
		e.sink.AllPlayersFinished()
	}
}

// watchedPlayerCountLocked counts roster users of player type associated
// with the watched match. Caller holds e.mu.
func (e *Engine) watchedPlayerCountLocked() int {
	if e.watched == nil {
		return 0
	}
	n := 0
	for _, u := range e.coordinator.Users() {
		if u.ClientType == model.ClientTypePlayer && e.watched.HasUser(u.GUID) {
			n++
		}
	}
	return n
}

// handleMatchCreated joins the relay to the new match, pushes the update
// back to the coordinator as the authoritative copy, and starts watching it.
func (e *Engine) handleMatchCreated(ctx context.Context, match model.Match) {
	match.AssociatedUsers = append(match.AssociatedUsers, e.coordinator.Self())

	if err := e.coordinator.UpdateMatch(ctx, match); err != nil {
		e.log.Warn(ctx, "match update push failed",
			logger.String("match", match.ID), logger.Error(err))
	}

	watched := match
	e.mu.Lock()
	e.watched = &watched
	e.mu.Unlock()

	e.log.Info(ctx, "watching match", logger.String("match", match.ID))
	e.sink.MatchCreated(match)
}

// handleMatchUpdated mirrors the updated match to overlays. The watched
// pointer is not touched.
func (e *Engine) handleMatchUpdated(ctx context.Context, match model.Match) {
	e.forwarder.Broadcast(ctx, types.TypeMatch, transform.Match(match, e.coordinator.Users()))
}

// WatchedMatch returns a copy of the currently watched match, if any.
func (e *Engine) WatchedMatch() (model.Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.watched == nil {
		return model.Match{}, false
	}
	return *e.watched, true
}
