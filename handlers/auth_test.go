// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/reva-evote/auth"
	"github.com/danielhkuo/reva-evote/models"
	"github.com/danielhkuo/reva-evote/store"
	"github.com/danielhkuo/reva-evote/testutil"
)

func TestRequestOTP(t *testing.T) {
	srv := newTestServer(t)

	valid := testutil.StudentDetails("Meera Nair", "R23CS001")

	tests := []struct {
		name            string
		requestBody     any
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "valid details",
			requestBody:    valid,
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing name",
			requestBody: models.RequestOTPRequest{
				StudentID: valid.StudentID, Email: valid.Email, Phone: valid.Phone,
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: auth.MsgFieldsRequired,
		},
		{
			name: "bad student id",
			requestBody: models.RequestOTPRequest{
				Name: valid.Name, StudentID: "23CS001", Email: valid.Email, Phone: valid.Phone,
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: auth.MsgInvalidRollNo,
		},
		{
			name: "foreign email",
			requestBody: models.RequestOTPRequest{
				Name: valid.Name, StudentID: valid.StudentID, Email: "meera@gmail.com", Phone: valid.Phone,
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Please use your verified @reva.edu.in email address.",
		},
		{
			name: "short phone",
			requestBody: models.RequestOTPRequest{
				Name: valid.Name, StudentID: valid.StudentID, Email: valid.Email, Phone: "98765",
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: auth.MsgInvalidPhone,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not an object",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do("POST", "/auth/otp", tt.requestBody, nil)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.RequestOTPResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ChallengeID == "" {
					t.Error("Expected non-empty challenge_id")
				}
				if resp.ResendIn != 60 {
					t.Errorf("Expected resend_in 60, got %d", resp.ResendIn)
				}
				return
			}

			if tt.expectedMessage != "" {
				if got := decodeError(t, w).Message; got != tt.expectedMessage {
					t.Errorf("Expected message %q, got %q", tt.expectedMessage, got)
				}
			}
		})
	}
}

func requestChallenge(t *testing.T, srv *testServer) string {
	t.Helper()
	w := srv.do("POST", "/auth/otp", testutil.StudentDetails("Meera Nair", "R23CS001"), nil)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.RequestOTPResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.ChallengeID
}

func TestResendOTP(t *testing.T) {
	srv := newTestServer(t)
	id := requestChallenge(t, srv)

	// Timer still running
	srv.clock.Advance(20 * time.Second)
	w := srv.do("POST", "/auth/otp/resend", models.ResendOTPRequest{ChallengeID: id}, nil)
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)
	if got := w.Header().Get("Retry-After"); got != "40" {
		t.Errorf("Expected Retry-After 40, got %q", got)
	}

	// Timer elapsed
	srv.clock.Advance(41 * time.Second)
	w = srv.do("POST", "/auth/otp/resend", models.ResendOTPRequest{ChallengeID: id}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Timer restarted by the resend
	w = srv.do("POST", "/auth/otp/resend", models.ResendOTPRequest{ChallengeID: id}, nil)
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	t.Run("unknown challenge", func(t *testing.T) {
		w := srv.do("POST", "/auth/otp/resend", models.ResendOTPRequest{ChallengeID: "nope"}, nil)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("missing challenge id", func(t *testing.T) {
		w := srv.do("POST", "/auth/otp/resend", models.ResendOTPRequest{}, nil)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestVerify(t *testing.T) {
	srv := newTestServer(t)
	id := requestChallenge(t, srv)

	// A malformed code keeps the challenge open
	w := srv.do("POST", "/auth/verify", models.VerifyOTPRequest{ChallengeID: id, OTP: "12a4"}, nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	if got := decodeError(t, w).Message; got != auth.MsgIncompleteOTP {
		t.Errorf("Expected message %q, got %q", auth.MsgIncompleteOTP, got)
	}

	w = srv.do("POST", "/auth/verify", models.VerifyOTPRequest{ChallengeID: id, OTP: "0000"}, nil)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if err := auth.ValidateSessionToken(resp.SessionToken); err != nil {
		t.Errorf("Expected a well-formed session token, got %q", resp.SessionToken)
	}
	if resp.Voter.RollNo != "R23CS001" || resp.Voter.StudentID != "R23CS001" {
		t.Errorf("Expected roll number to equal student id, got %+v", resp.Voter)
	}
	if resp.Progress != 0 {
		t.Errorf("Expected zero progress, got %v", resp.Progress)
	}

	// Profile persisted under the session's key
	profile := store.NewProfileStore(srv.kv, profileKey(resp.SessionToken))
	if _, found, _ := profile.Load(t.Context()); !found {
		t.Error("Expected profile to be saved")
	}

	// Single use
	w = srv.do("POST", "/auth/verify", models.VerifyOTPRequest{ChallengeID: id, OTP: "0000"}, nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestVerifyExpiredChallenge(t *testing.T) {
	srv := newTestServer(t)
	id := requestChallenge(t, srv)

	srv.clock.Advance(ChallengeTTL + time.Second)

	w := srv.do("POST", "/auth/verify", models.VerifyOTPRequest{ChallengeID: id, OTP: "1234"}, nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetSession(t *testing.T) {
	srv := newTestServer(t)
	headers := srv.login(t, "Meera Nair", "R23CS001")

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"valid session", headers, http.StatusOK},
		{"missing header", nil, http.StatusUnauthorized},
		{"malformed token", testutil.SessionHeaders("short"), http.StatusUnauthorized},
		{"unknown token", testutil.SessionHeaders("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do("GET", "/session", nil, tt.headers)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	kv := testutil.SetupTestStore(t)

	first := setupServer(t, kv, nil)
	headers := first.login(t, "Meera Nair", "R23CS001")
	w := first.do("POST", "/votes", models.CastVoteRequest{CandidateID: "3", Position: models.PositionSecretary}, headers)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Fresh registry over the same store
	second := setupServer(t, kv, nil)

	w = second.do("GET", "/session", nil, headers)
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Voter.Name != "Meera Nair" {
		t.Errorf("Expected restored voter, got %+v", resp.Voter)
	}
	if resp.Progress != 0.2 {
		t.Errorf("Expected progress 0.2 after one vote, got %v", resp.Progress)
	}

	// The restored ballot still blocks a second vote
	w = second.do("POST", "/votes", models.CastVoteRequest{CandidateID: "3", Position: models.PositionSecretary}, headers)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	headers := srv.login(t, "Meera Nair", "R23CS001")
	token := headers[testutil.SessionHeader]

	w := srv.do("POST", "/votes", models.CastVoteRequest{CandidateID: "1", Position: models.PositionPresident}, headers)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = srv.do("DELETE", "/session", nil, headers)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	if _, found, _ := srv.kv.Load(t.Context(), profileKey(token)); found {
		t.Error("Expected profile to be deleted on logout")
	}

	// Ballot and candidates stay
	if _, found, _ := srv.kv.Load(t.Context(), store.BallotKey("R23CS001")); !found {
		t.Error("Expected ballot to survive logout")
	}

	w = srv.do("GET", "/session", nil, headers)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Logging in again restores the ballot for the same roll number
	again := srv.login(t, "Meera Nair", "r23cs001")
	w = srv.do("GET", "/ballot", nil, again)
	testutil.AssertStatus(t, w, http.StatusOK)
	var ballot models.BallotResponse
	testutil.AssertJSON(t, w, &ballot)
	if ballot.Ballot[models.PositionPresident] != "1" {
		t.Errorf("Expected restored ballot, got %+v", ballot.Ballot)
	}
}
