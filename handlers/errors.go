// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/reva-evote/election"
	"github.com/danielhkuo/reva-evote/manifesto"
	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/models"
)

// writeError maps a domain error to its HTTP status. Anything unrecognised is
// logged under op and reported as a 500 without detail.
func writeError(w http.ResponseWriter, err error, op string) {
	var validation *models.ValidationError
	var acted *models.AlreadyActedError

	switch {
	case errors.As(err, &validation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &acted):
		middleware.ErrorResponse(w, http.StatusConflict, acted.Message)
	case errors.Is(err, election.ErrCandidateNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
	case errors.Is(err, ErrUnknownChallenge):
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown or expired OTP request")
	case errors.Is(err, ErrNoSession),
		errors.Is(err, election.ErrNotAuthenticated),
		errors.Is(err, election.ErrSessionEnded):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Please log in again")
	case errors.Is(err, manifesto.ErrGenerationPending):
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "A manifesto is already being generated")
	default:
		slog.Error("failed to "+op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}
