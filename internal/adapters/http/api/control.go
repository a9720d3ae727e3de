// Package api declares the control-plane HTTP contracts and route
// registration.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ControlHandler forwards operator control messages to overlays.
type ControlHandler struct {
	deps Dependencies
}

// NewControlHandler creates a new control handler.
func NewControlHandler(deps Dependencies) *ControlHandler {
	return &ControlHandler{deps: deps}
}

type setTeamsRequest struct {
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
}

func (r setTeamsRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Team1) == "":
		return errors.New("missing team1")
	case strings.TrimSpace(r.Team2) == "":
		return errors.New("missing team2")
	}
	return nil
}

// HandleSetTeams handles POST /display/teams.
func (h *ControlHandler) HandleSetTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_teams"
	var req setTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.SetTeamsToDisplay(r.Context(), req.Team1, req.Team2)
	writeJSON(w, http.StatusOK, ackResponse{Status: "forwarded"})
}

type setAudioPlayerRequest struct {
	Player int `json:"player"`
}

func (r setAudioPlayerRequest) validate() error {
	if r.Player < 0 {
		return errors.New("player must not be negative")
	}
	return nil
}

// HandleSetAudioPlayer handles POST /display/audio-player.
func (h *ControlHandler) HandleSetAudioPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_audio_player"
	var req setAudioPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.SetAudioPlayer(r.Context(), req.Player)
	writeJSON(w, http.StatusOK, ackResponse{Status: "forwarded"})
}

type setFinalsPointsRequest struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

func (r setFinalsPointsRequest) validate() error {
	if r.Team1 < 0 || r.Team2 < 0 {
		return errors.New("points must not be negative")
	}
	return nil
}

// HandleSetFinalsPoints handles POST /display/finals-points.
func (h *ControlHandler) HandleSetFinalsPoints(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_finals_points"
	var req setFinalsPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.SetFinalsPoints(r.Context(), req.Team1, req.Team2)
	writeJSON(w, http.StatusOK, ackResponse{Status: "forwarded"})
}
