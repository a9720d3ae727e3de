// Package simulator runs a scripted stand-in for the tournament
// coordination service. It accepts a relay connection and replays a full
// tournament round: roster announcements, a match, live score bursts, and a
// finish per player per level. Useful for driving overlays without a real
// tournament running.
package simulator

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
)

// Config controls the shape of the scripted tournament.
type Config struct {
	// Addr is the websocket listen address the relay dials.
	Addr string

	// Teams is the number of teams in the round.
	Teams int

	// PlayersPerTeam is the roster size per team.
	PlayersPerTeam int

	// Levels is how many levels the round plays.
	Levels int

	// ScoreBursts is how many realtime score pushes precede each finish.
	ScoreBursts int

	// Interval is the pause between consecutive frames.
	Interval time.Duration
}

// Simulator serves one scripted tournament per relay connection.
type Simulator struct {
	cfg Config
	log logger.Logger
}

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Simulator for cfg.
func New(cfg Config, opts ...Option) *Simulator {
	s := &Simulator{
		cfg: cfg,
		log: logger.Get().Named("simulator"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves the simulator until ctx is canceled.
func (s *Simulator) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           http.HandlerFunc(s.handle),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "simulator listening", logger.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("simulator serve: %w", err)
		}
		return nil
	}
}

func (s *Simulator) handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn(ctx, "accept failed", logger.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "script finished")

	// The relay opens with a register frame and may push match updates at
	// any time; drain them on the side so the script never blocks.
	go s.drainInbound(ctx, conn)

	if err := s.script(ctx, conn); err != nil {
		s.log.Warn(ctx, "script aborted", logger.Error(err))
	}
}

func (s *Simulator) drainInbound(ctx context.Context, conn *websocket.Conn) {
	for {
		var fr map[string]any
		if err := wsjson.Read(ctx, conn, &fr); err != nil {
			return
		}
		s.log.Info(ctx, "relay frame", logger.Any("type", fr["type"]))
	}
}

// script replays one tournament round over conn.
func (s *Simulator) script(ctx context.Context, conn *websocket.Conn) error {
	roster := s.buildRoster()

	for i := range roster {
		if err := s.send(ctx, conn, model.Event{Type: model.EventUserUpdated, User: &roster[i]}); err != nil {
			return err
		}
	}

	match := model.Match{ID: uuid.NewString()}
	for _, u := range roster {
		match.AssociatedUsers = append(match.AssociatedUsers, u.GUID)
	}

	for level := 1; level <= s.cfg.Levels; level++ {
		match.SelectedLevel = &model.Level{
			ID:   fmt.Sprintf("custom_level_%d", level),
			Name: fmt.Sprintf("Level %d", level),
		}

		eventType := model.EventMatchUpdated
		if level == 1 {
			eventType = model.EventMatchCreated
		}
		if err := s.send(ctx, conn, model.Event{Type: eventType, Match: &match}); err != nil {
			return err
		}
		if err := s.send(ctx, conn, model.Event{Type: model.EventPlaySong}); err != nil {
			return err
		}

		if err := s.playLevel(ctx, conn, roster, *match.SelectedLevel); err != nil {
			return err
		}
	}

	s.log.Info(ctx, "script finished",
		logger.Int("players", len(roster)), logger.Int("levels", s.cfg.Levels))
	return nil
}

// playLevel streams score bursts and a finish for every player.
func (s *Simulator) playLevel(ctx context.Context, conn *websocket.Conn, roster []model.User, level model.Level) error {
	finals := make(map[string]int, len(roster))

	for burst := 1; burst <= s.cfg.ScoreBursts; burst++ {
		for _, u := range roster {
			score := randomInt(10_000) + burst*5_000
			finals[u.GUID] = score
			ev := model.Event{
				Type: model.EventRealtimeScore,
				Score: &model.RealtimeScore{
					UserGUID: u.GUID,
					Score:    score,
					Accuracy: 0.9 + float64(randomInt(100))/1000,
					Combo:    burst * 10,
					Misses:   randomInt(5),
				},
			}
			if err := s.send(ctx, conn, ev); err != nil {
				return err
			}
		}
	}

	for _, u := range roster {
		ev := model.Event{
			Type: model.EventSongFinished,
			Finished: &model.SongFinished{
				Player:  u,
				Beatmap: level,
				Score:   finals[u.GUID],
			},
		}
		if err := s.send(ctx, conn, ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) buildRoster() []model.User {
	roster := make([]model.User, 0, s.cfg.Teams*s.cfg.PlayersPerTeam)
	for t := 1; t <= s.cfg.Teams; t++ {
		team := model.Team{
			ID:   fmt.Sprintf("team-%d", t),
			Name: fmt.Sprintf("Team %d", t),
		}
		for p := 1; p <= s.cfg.PlayersPerTeam; p++ {
			roster = append(roster, model.User{
				GUID:          uuid.NewString(),
				Name:          fmt.Sprintf("%s Player %d", team.Name, p),
				Team:          team,
				PlatformID:    fmt.Sprintf("7656%d%d", t, p),
				ClientType:    model.ClientTypePlayer,
				DownloadState: model.Downloaded,
				PlayState:     model.InGame,
			})
		}
	}
	return roster
}

// randomInt returns a random int in [0, max) using crypto/rand.
func randomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

func (s *Simulator) send(ctx context.Context, conn *websocket.Conn, ev model.Event) error {
	if err := wsjson.Write(ctx, conn, ev); err != nil {
		return fmt.Errorf("send %s: %w", ev.Type, err)
	}
	if s.cfg.Interval > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.Interval):
		}
	}
	return nil
}
