// Package api declares the control-plane HTTP contracts and route
// registration.
package api

import (
	"net/http"

	"github.com/BS-European-Championship/ta-relay/internal/domain/standings"
)

// StandingsHandler serves aggregator operations.
type StandingsHandler struct {
	deps Dependencies
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies) *StandingsHandler {
	return &StandingsHandler{deps: deps}
}

// HandleGetStandings handles GET /standings. With ?format=text the rows are
// rendered as ranked lines for pasting into chat.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	rows := h.deps.ComputeStandings(r.Context())
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(standings.Format(rows)))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleBroadcastStandings handles POST /standings/broadcast: computes
// standings, pushes a "points" message to every overlay, and returns the
// rows so the caller can mirror them elsewhere.
func (h *StandingsHandler) HandleBroadcastStandings(w http.ResponseWriter, r *http.Request) {
	rows := h.deps.BroadcastStandings(r.Context())
	writeJSON(w, http.StatusOK, rows)
}

// HandleResetScores handles POST /scores/reset.
func (h *StandingsHandler) HandleResetScores(w http.ResponseWriter, r *http.Request) {
	h.deps.ResetScores(r.Context())
	writeJSON(w, http.StatusOK, ackResponse{Status: "reset"})
}

// HandleEliminate handles POST /teams/eliminate. Empty standings or a
// missing watched match make this a successful no-op; only a failed
// coordinator push surfaces as an error.
func (h *StandingsHandler) HandleEliminate(w http.ResponseWriter, r *http.Request) {
	const op = "api.eliminate"
	if err := h.deps.EliminateBottomTeam(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "upstream", WrapKind(op, ErrUpstream, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "eliminated"})
}
