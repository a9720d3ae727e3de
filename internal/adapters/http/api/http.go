// Package api declares the control-plane HTTP contracts and route
// registration. The front end (or an operator's curl) calls these routes to
// drive the relay's public operations; overlays connect on /ws.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BS-European-Championship/ta-relay/internal/domain/model"
)

// Dependencies bundles the relay operations the handlers call. An interface
// keeps the handler layer loosely coupled to the engine.
type Dependencies interface {
	ComputeStandings(ctx context.Context) []model.TeamPoints
	BroadcastStandings(ctx context.Context) []model.TeamPoints
	ResetScores(ctx context.Context)
	EliminateBottomTeam(ctx context.Context) error

	SetTeamsToDisplay(ctx context.Context, team1, team2 string)
	SetAudioPlayer(ctx context.Context, player int)
	SetFinalsPoints(ctx context.Context, team1, team2 int)

	Stats(ctx context.Context) map[string]any
}

// OverlayHub is the broadcast fan-out surface the API mounts and reports on.
type OverlayHub interface {
	Handler() http.HandlerFunc
	ClientCount() int
}

// Server wires HTTP routes for the control plane.
type Server struct {
	standingsHandler *StandingsHandler
	controlHandler   *ControlHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	hub              OverlayHub
}

// NewServer creates the API server with all handlers.
func NewServer(deps Dependencies, hub OverlayHub) *Server {
	return &Server{
		standingsHandler: NewStandingsHandler(deps),
		controlHandler:   NewControlHandler(deps),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps, hub),
		hub:              hub,
	}
}

// Register attaches all routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Get("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	r.Post("/standings/broadcast", MetricsMiddleware(s.standingsHandler.HandleBroadcastStandings, "standings_broadcast"))
	r.Post("/scores/reset", MetricsMiddleware(s.standingsHandler.HandleResetScores, "scores_reset"))
	r.Post("/teams/eliminate", MetricsMiddleware(s.standingsHandler.HandleEliminate, "teams_eliminate"))

	r.Post("/display/teams", MetricsMiddleware(s.controlHandler.HandleSetTeams, "display_teams"))
	r.Post("/display/audio-player", MetricsMiddleware(s.controlHandler.HandleSetAudioPlayer, "display_audio"))
	r.Post("/display/finals-points", MetricsMiddleware(s.controlHandler.HandleSetFinalsPoints, "display_finals"))

	r.Get("/ws", s.hub.Handler())
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
