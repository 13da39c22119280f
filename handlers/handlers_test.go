// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/reva-evote/auth"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/live"
	"github.com/danielhkuo/reva-evote/manifesto"
	"github.com/danielhkuo/reva-evote/models"
	"github.com/danielhkuo/reva-evote/testutil"
)

type testServer struct {
	mux      *http.ServeMux
	kv       kvstore.Store
	sessions *Sessions
	drafter  *manifesto.Drafter
	clock    *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// setupServer wires handlers onto a mux with the production route patterns
func setupServer(t *testing.T, kv kvstore.Store, gen manifesto.Generator) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := live.NewHub()
	go hub.Run(ctx)

	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	sessions := NewSessions(kv, auth.NewVerifier(testutil.GetTestConfig().EmailDomain))
	sessions.now = clock.Now

	drafter := manifesto.NewDrafter(gen)
	authHandler := NewAuthHandler(sessions)
	electionHandler := NewElectionHandler(sessions, hub)
	manifestoHandler := NewManifestoHandler(sessions, drafter)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/otp", authHandler.RequestOTP)
	mux.HandleFunc("POST /auth/otp/resend", authHandler.ResendOTP)
	mux.HandleFunc("POST /auth/verify", authHandler.Verify)
	mux.HandleFunc("GET /session", authHandler.GetSession)
	mux.HandleFunc("DELETE /session", authHandler.Logout)
	mux.HandleFunc("GET /positions", electionHandler.ListPositions)
	mux.HandleFunc("GET /candidates", electionHandler.ListCandidates)
	mux.HandleFunc("POST /candidates", electionHandler.RegisterCandidate)
	mux.HandleFunc("POST /votes", electionHandler.CastVote)
	mux.HandleFunc("GET /ballot", electionHandler.GetBallot)
	mux.HandleFunc("POST /manifesto", manifestoHandler.Generate)
	mux.HandleFunc("GET /results", electionHandler.GetResults)
	mux.HandleFunc("GET /results/live", electionHandler.LiveResults)
	mux.HandleFunc("GET /results/{position}", electionHandler.GetPositionResults)

	return &testServer{mux: mux, kv: kv, sessions: sessions, drafter: drafter, clock: clock}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupServer(t, testutil.SetupTestStore(t), manifesto.Unavailable())
}

func (s *testServer) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
	return w
}

func (s *testServer) login(t *testing.T, name, studentID string) map[string]string {
	t.Helper()
	return testutil.SessionHeaders(testutil.Login(t, s.mux, testutil.StudentDetails(name, studentID)))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}
