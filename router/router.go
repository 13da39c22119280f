// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/reva-evote/auth"
	"github.com/danielhkuo/reva-evote/cliparse"
	"github.com/danielhkuo/reva-evote/handlers"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/live"
	"github.com/danielhkuo/reva-evote/manifesto"
	"github.com/danielhkuo/reva-evote/metrics"
	"github.com/danielhkuo/reva-evote/middleware"
)

func NewRouter(kv kvstore.Store, cfg cliparse.Config, gen manifesto.Generator, hub *live.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessions := handlers.NewSessions(kv, auth.NewVerifier(cfg.EmailDomain))
	authHandler := handlers.NewAuthHandler(sessions)
	electionHandler := handlers.NewElectionHandler(sessions, hub)
	manifestoHandler := handlers.NewManifestoHandler(sessions, manifesto.NewDrafter(gen))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Login and session lifecycle
	mux.HandleFunc("POST /auth/otp", middleware.WithLogging(authHandler.RequestOTP))
	mux.HandleFunc("POST /auth/otp/resend", middleware.WithLogging(authHandler.ResendOTP))
	mux.HandleFunc("POST /auth/verify", middleware.WithLogging(authHandler.Verify))
	mux.HandleFunc("GET /session", middleware.WithLogging(authHandler.GetSession))
	mux.HandleFunc("DELETE /session", middleware.WithLogging(authHandler.Logout))

	// Voting and nominations (requires X-Session-Token)
	mux.HandleFunc("GET /positions", middleware.WithLogging(electionHandler.ListPositions))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(electionHandler.ListCandidates))
	mux.HandleFunc("POST /candidates", middleware.WithLogging(electionHandler.RegisterCandidate))
	mux.HandleFunc("POST /votes", middleware.WithLogging(electionHandler.CastVote))
	mux.HandleFunc("GET /ballot", middleware.WithLogging(electionHandler.GetBallot))
	mux.HandleFunc("POST /manifesto", middleware.WithLogging(manifestoHandler.Generate))

	// Results
	mux.HandleFunc("GET /results", middleware.WithLogging(electionHandler.GetResults))
	mux.HandleFunc("GET /results/live", middleware.WithLogging(electionHandler.LiveResults))
	mux.HandleFunc("GET /results/{position}", middleware.WithLogging(electionHandler.GetPositionResults))

	mux.Handle("GET /metrics", metrics.Handler())

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("reva-evote API v1"))
	})

	return mux
}
