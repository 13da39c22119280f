// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/reva-evote/manifesto"
	"github.com/danielhkuo/reva-evote/metrics"
	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/models"
)

type ManifestoHandler struct {
	sessions *Sessions
	drafter  *manifesto.Drafter
}

func NewManifestoHandler(sessions *Sessions, drafter *manifesto.Drafter) *ManifestoHandler {
	return &ManifestoHandler{sessions: sessions, drafter: drafter}
}

// Generate handles POST /manifesto
// The draft is returned for review; nothing is registered until POST /candidates.
func (h *ManifestoHandler) Generate(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	var req models.GenerateManifestoRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter := session.Machine.Voter()
	result, err := h.drafter.Draft(r.Context(), session.Token, voter.Name, req.Position, req.KeyPoints)
	if err != nil {
		writeError(w, err, "draft manifesto")
		return
	}

	outcome := "generated"
	if result.FellBack {
		outcome = "fallback"
	}
	metrics.ManifestoDrafts.WithLabelValues(outcome).Inc()

	middleware.JSONResponse(w, http.StatusOK, models.GenerateManifestoResponse{
		Manifesto: result.Text,
	})
}
