// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/reva-evote/live"
	"github.com/danielhkuo/reva-evote/manifesto"
	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/models"
	"github.com/danielhkuo/reva-evote/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := live.NewHub()
	go hub.Run(ctx)

	kv := testutil.SetupTestStore(t)
	return NewRouter(kv, testutil.GetTestConfig(), manifesto.Unavailable(), hub)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "reva-evote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	// Touch an instrumented route first
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/positions", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "evote_api_request_duration_seconds") {
		t.Error("Expected request duration histogram in exposition")
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	// 400, 401, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/metrics"},

		{"POST", "/auth/otp"},
		{"POST", "/auth/otp/resend"},
		{"POST", "/auth/verify"},
		{"GET", "/session"},
		{"DELETE", "/session"},

		{"GET", "/positions"},
		{"GET", "/candidates"},
		{"POST", "/candidates"},
		{"POST", "/votes"},
		{"GET", "/ballot"},
		{"POST", "/manifesto"},

		{"GET", "/results"},
		{"GET", "/results/President"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"PUT to votes endpoint", "PUT", "/votes", http.StatusMethodNotAllowed},
		{"DELETE a candidate", "DELETE", "/candidates", http.StatusMethodNotAllowed},
		{"POST to results", "POST", "/results/President", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestSessionRequired(t *testing.T) {
	mux := newTestRouter(t)

	for _, path := range []string{"/ballot", "/results", "/candidates?position=President", "/session"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

// TestElectionWorkflow walks a voter from login to results through the full router
func TestElectionWorkflow(t *testing.T) {
	mux := newTestRouter(t)

	token := testutil.Login(t, mux, testutil.StudentDetails("Meera Nair", "r23cs001"))
	headers := testutil.SessionHeaders(token)

	// Session reports the normalised identity
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/session", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var session models.SessionResponse
	testutil.AssertJSON(t, w, &session)
	if session.Voter.RollNo != "R23CS001" {
		t.Errorf("Expected roll number R23CS001, got %s", session.Voter.RollNo)
	}

	// Seeded roster is visible
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/candidates?position=President", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var listed models.CandidatesResponse
	testutil.AssertJSON(t, w, &listed)
	if len(listed.Candidates) != 2 {
		t.Fatalf("Expected 2 presidential candidates, got %d", len(listed.Candidates))
	}

	// Vote once
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
		CandidateID: "1",
		Position:    models.PositionPresident,
	}, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// And never twice
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
		CandidateID: "2",
		Position:    models.PositionPresident,
	}, headers))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Results reflect exactly one added vote
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/results/President", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.PositionResults
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 81 {
		t.Errorf("Expected 81 presidential votes, got %d", results.TotalVotes)
	}
	if len(results.Entries) == 0 || results.Entries[0].Candidate.Votes != 43 || !results.Entries[0].Leader {
		t.Errorf("Expected Aarav Sharma leading with 43, got %+v", results.Entries)
	}

	// Logout invalidates the token
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/session", nil, headers))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/ballot", nil, headers))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestCORSPreflight(t *testing.T) {
	mux := newTestRouter(t)
	handler := middleware.CORS(mux)

	req := httptest.NewRequest("OPTIONS", "/votes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", w.Code)
	}
}
