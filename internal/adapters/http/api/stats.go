// Package api declares the control-plane HTTP contracts and route
// registration.
package api

import (
	"net/http"
)

// StatsHandler serves relay statistics.
type StatsHandler struct {
	deps Dependencies
	hub  OverlayHub
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies, hub OverlayHub) *StatsHandler {
	return &StatsHandler{deps: deps, hub: hub}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.deps.Stats(r.Context())
	stats["overlayClients"] = h.hub.ClientCount()
	writeJSON(w, http.StatusOK, stats)
}
