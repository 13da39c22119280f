// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/reva-evote/cliparse"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/models"
)

// SessionHeader mirrors middleware.SessionHeader without importing it.
const SessionHeader = "X-Session-Token"

// SetupTestStore returns a fresh in-memory store closed at test end
func SetupTestStore(t *testing.T) kvstore.Store {
	t.Helper()

	kv := kvstore.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	return kv
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: kvstore.TypeMemory,
		GeminiModel:  "gemini-2.5-flash",
		EmailDomain:  "reva.edu.in",
	}
}

// StudentDetails returns valid login details for a student ID
func StudentDetails(name, studentID string) models.RequestOTPRequest {
	return models.RequestOTPRequest{
		Name:      name,
		StudentID: studentID,
		Email:     "student." + studentID + "@reva.edu.in",
		Phone:     "9876543210",
	}
}

// Login runs the OTP flow against handler and returns the session token
func Login(t *testing.T, handler http.Handler, details models.RequestOTPRequest) string {
	t.Helper()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, MakeRequest("POST", "/auth/otp", details, nil))
	AssertStatus(t, w, http.StatusCreated)
	var challenge models.RequestOTPResponse
	AssertJSON(t, w, &challenge)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, MakeRequest("POST", "/auth/verify", models.VerifyOTPRequest{
		ChallengeID: challenge.ChallengeID,
		OTP:         "1234",
	}, nil))
	AssertStatus(t, w, http.StatusCreated)
	var session models.SessionResponse
	AssertJSON(t, w, &session)

	if session.SessionToken == "" {
		t.Fatal("Login returned an empty session token")
	}
	return session.SessionToken
}

// SessionHeaders builds the header map for an authenticated request
func SessionHeaders(token string) map[string]string {
	return map[string]string{SessionHeader: token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
