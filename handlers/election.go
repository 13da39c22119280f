// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/danielhkuo/reva-evote/election"
	"github.com/danielhkuo/reva-evote/live"
	"github.com/danielhkuo/reva-evote/metrics"
	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/models"
)

type ElectionHandler struct {
	sessions *Sessions
	hub      *live.Hub
}

func NewElectionHandler(sessions *Sessions, hub *live.Hub) *ElectionHandler {
	return &ElectionHandler{sessions: sessions, hub: hub}
}

func parsePosition(raw string) (models.Position, error) {
	position := models.Position(strings.TrimSpace(raw))
	if position == "" {
		return "", &models.ValidationError{Field: "position", Message: "position is required"}
	}
	if !position.Valid() {
		return "", &models.ValidationError{Field: "position", Message: fmt.Sprintf("unknown position %q", position)}
	}
	return position, nil
}

// ListPositions handles GET /positions
func (h *ElectionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.Positions)
}

// ListCandidates handles GET /candidates?position=&q=
func (h *ElectionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	position, err := parsePosition(r.URL.Query().Get("position"))
	if err != nil {
		writeError(w, err, "list candidates")
		return
	}

	if err := session.Machine.Refresh(r.Context()); err != nil {
		writeError(w, err, "refresh candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{
		Candidates: session.Machine.FilterCandidates(position, r.URL.Query().Get("q")),
	})
}

// CastVote handles POST /votes
func (h *ElectionHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	candidate, err := session.Machine.Vote(r.Context(), req.CandidateID, req.Position)
	if err != nil {
		writeError(w, err, "cast vote")
		return
	}

	metrics.VotesTotal.WithLabelValues(string(req.Position)).Inc()
	h.hub.PublishResults(session.Machine.Results())

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Candidate: candidate,
		Message:   fmt.Sprintf("Vote cast for %s!", candidate.Name),
	})
}

// GetBallot handles GET /ballot
func (h *ElectionHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		Ballot:   session.Machine.Ballot(),
		Progress: session.Machine.VotingProgress(),
	})
}

// RegisterCandidate handles POST /candidates
// The manifesto field wins; otherwise the raw key points are the manifesto.
func (h *ElectionHandler) RegisterCandidate(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	var req models.RegisterCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	text := req.Manifesto
	if strings.TrimSpace(text) == "" {
		text = req.KeyPoints
	}

	voter := session.Machine.Voter()
	candidate, err := session.Machine.RegisterCandidate(r.Context(), voter, req.Position, text)
	if err != nil {
		writeError(w, err, "register candidate")
		return
	}

	metrics.NominationsTotal.WithLabelValues(string(req.Position)).Inc()
	h.hub.PublishResults(session.Machine.Results())

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterCandidateResponse{
		Candidate: candidate,
		Message:   "Successfully registered! Good luck.",
	})
}

// GetResults handles GET /results
func (h *ElectionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	if err := session.Machine.Refresh(r.Context()); err != nil {
		writeError(w, err, "refresh candidates")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Results: session.Machine.Results(),
	})
}

// GetPositionResults handles GET /results/{position}
func (h *ElectionHandler) GetPositionResults(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	position, err := parsePosition(r.PathValue("position"))
	if err != nil {
		writeError(w, err, "tally position")
		return
	}

	if err := session.Machine.Refresh(r.Context()); err != nil {
		writeError(w, err, "refresh candidates")
		return
	}

	entries := slices.Collect(session.Machine.Tally(position))
	total := 0
	for _, e := range entries {
		total += e.Candidate.Votes
	}
	if entries == nil {
		entries = []models.TallyEntry{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PositionResults{
		Position:   position,
		TotalVotes: total,
		Entries:    entries,
	})
}

// LiveResults handles GET /results/live
// Browsers cannot set headers on a websocket handshake, so the feed is open
// to anyone and starts from the stored candidate list.
func (h *ElectionHandler) LiveResults(w http.ResponseWriter, r *http.Request) {
	list, _, err := h.sessions.Candidates().Load(r.Context())
	if err != nil {
		slog.Error("failed to load candidates for live feed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	h.hub.Serve(w, r, election.Results(list))
}
