// Command simulate runs a scripted coordination service for driving a relay
// and its overlays without a live tournament.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BS-European-Championship/ta-relay/internal/simulator"
	"github.com/BS-European-Championship/ta-relay/pkg/logger"
)

// Default configuration constants.
const (
	defaultTeams       = 4
	defaultPlayers     = 2
	defaultLevels      = 3
	defaultScoreBursts = 5
	defaultInterval    = 200 * time.Millisecond
)

func main() {
	var (
		addr     = flag.String("addr", ":2053", "Websocket listen address the relay dials")
		teams    = flag.Int("teams", defaultTeams, "Number of teams in the round")
		players  = flag.Int("players", defaultPlayers, "Players per team")
		levels   = flag.Int("levels", defaultLevels, "Levels played in the round")
		bursts   = flag.Int("bursts", defaultScoreBursts, "Realtime score pushes before each finish")
		interval = flag.Duration("interval", defaultInterval, "Pause between frames")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim := simulator.New(simulator.Config{
		Addr:           *addr,
		Teams:          *teams,
		PlayersPerTeam: *players,
		Levels:         *levels,
		ScoreBursts:    *bursts,
		Interval:       *interval,
	})

	if err := sim.Run(ctx); err != nil {
		os.Stderr.WriteString("simulator failed: " + err.Error() + "\n")
	}
}
