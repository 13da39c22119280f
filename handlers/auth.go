// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/models"
)

type AuthHandler struct {
	sessions *Sessions
}

func NewAuthHandler(sessions *Sessions) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// RequestOTP handles POST /auth/otp
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req models.RequestOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.sessions.Challenge(req)
	if err != nil {
		writeError(w, err, "issue otp challenge")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RequestOTPResponse{
		ChallengeID: id,
		ResendIn:    int(ResendInterval.Seconds()),
	})
}

// ResendOTP handles POST /auth/otp/resend
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ChallengeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "challenge_id is required")
		return
	}

	wait, err := h.sessions.Resend(req.ChallengeID)
	if errors.Is(err, ErrResendTooSoon) {
		secs := int(math.Ceil(wait.Seconds()))
		w.Header().Set("Retry-After", fmt.Sprint(secs))
		middleware.ErrorResponse(w, http.StatusTooManyRequests, fmt.Sprintf("Resend OTP in %ds", secs))
		return
	}
	if err != nil {
		writeError(w, err, "resend otp")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RequestOTPResponse{
		ChallengeID: req.ChallengeID,
		ResendIn:    int(ResendInterval.Seconds()),
	})
}

// Verify handles POST /auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.sessions.Verify(r.Context(), req.ChallengeID, req.OTP)
	if err != nil {
		writeError(w, err, "verify otp")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		SessionToken: session.Token,
		Voter:        session.Machine.Voter(),
		Progress:     session.Machine.VotingProgress(),
	})
}

// GetSession handles GET /session
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Voter:    session.Machine.Voter(),
		Progress: session.Machine.VotingProgress(),
	})
}

// Logout handles DELETE /session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.FromRequest(r)
	if err != nil {
		writeError(w, err, "look up session")
		return
	}

	if err := h.sessions.End(r.Context(), session); err != nil {
		writeError(w, err, "end session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
