// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielhkuo/reva-evote/auth"
	"github.com/danielhkuo/reva-evote/election"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/metrics"
	"github.com/danielhkuo/reva-evote/middleware"
	"github.com/danielhkuo/reva-evote/models"
	"github.com/danielhkuo/reva-evote/store"
)

const (
	// ResendInterval is how long a voter waits before another OTP can be sent.
	ResendInterval = 60 * time.Second

	// ChallengeTTL bounds how long an unverified challenge is kept.
	ChallengeTTL = 10 * time.Minute
)

var (
	ErrNoSession        = errors.New("session required")
	ErrUnknownChallenge = errors.New("unknown or expired challenge")
	ErrResendTooSoon    = errors.New("resend requested too soon")
)

// Session is one authenticated voter and the machine serving them.
type Session struct {
	Token   string
	Machine *election.Machine
	profile *store.ProfileStore
}

type challenge struct {
	details models.RequestOTPRequest
	created time.Time
	sentAt  time.Time
}

// Sessions tracks OTP challenges and authenticated sessions for one process.
// Machines share the process-wide candidate and ballot stores.
type Sessions struct {
	kv         kvstore.Store
	candidates *store.CandidateStore
	ballots    *store.BallotStore
	verifier   *auth.Verifier
	now        func() time.Time

	mu         sync.Mutex
	sessions   map[string]*Session
	challenges map[string]*challenge
}

func NewSessions(kv kvstore.Store, verifier *auth.Verifier) *Sessions {
	return &Sessions{
		kv:         kv,
		candidates: store.NewCandidateStore(kv),
		ballots:    store.NewBallotStore(kv),
		verifier:   verifier,
		now:        time.Now,
		sessions:   make(map[string]*Session),
		challenges: make(map[string]*challenge),
	}
}

// Candidates is the candidate store shared by every session.
func (s *Sessions) Candidates() *store.CandidateStore {
	return s.candidates
}

func profileKey(token string) string {
	return store.ProfileKey + ":" + token
}

// Challenge validates details and opens an OTP challenge for them.
func (s *Sessions) Challenge(details models.RequestOTPRequest) (string, error) {
	if err := s.verifier.ValidateDetails(details); err != nil {
		return "", err
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	s.challenges[id] = &challenge{details: details, created: now, sentAt: now}

	// No SMS gateway: the code is accepted by format only
	slog.Info("otp challenge issued", "challenge_id", id, "student_id", details.StudentID)
	return id, nil
}

// Resend restarts the resend timer of a challenge. It returns the remaining
// wait with ErrResendTooSoon when the timer is still running.
func (s *Sessions) Resend(id string) (time.Duration, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	c, ok := s.challenges[id]
	if !ok {
		return 0, ErrUnknownChallenge
	}
	if wait := c.sentAt.Add(ResendInterval).Sub(now); wait > 0 {
		return wait, ErrResendTooSoon
	}
	c.sentAt = now

	slog.Info("otp resent", "challenge_id", id)
	return 0, nil
}

// Verify consumes a challenge with a well-formed OTP and starts a session.
// A malformed OTP leaves the challenge open for another attempt.
func (s *Sessions) Verify(ctx context.Context, id, otp string) (*Session, error) {
	if err := auth.VerifyOTP(otp); err != nil {
		return nil, err
	}

	now := s.now()
	s.mu.Lock()
	s.expireLocked(now)
	c, ok := s.challenges[id]
	delete(s.challenges, id)
	s.mu.Unlock()

	if !ok {
		return nil, ErrUnknownChallenge
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	voter := auth.NewIdentity(c.details)
	profile := store.NewProfileStore(s.kv, profileKey(token))
	if err := profile.Save(ctx, voter); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	session, err := s.start(ctx, token, profile, voter)
	if err != nil {
		// The token is never handed out, so its profile must not outlive it
		if clearErr := profile.Clear(ctx); clearErr != nil {
			slog.Warn("failed to clear unused profile", "error", clearErr)
		}
		return nil, err
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()
	metrics.ActiveSessions.Inc()

	slog.Info("voter authenticated", "roll_no", voter.RollNo)
	return session, nil
}

func (s *Sessions) start(ctx context.Context, token string, profile *store.ProfileStore, voter models.VoterIdentity) (*Session, error) {
	machine := election.NewMachine(s.candidates, s.ballots)
	if err := machine.Initialize(ctx, voter); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	return &Session{Token: token, Machine: machine, profile: profile}, nil
}

// Lookup returns the session for token. A session missing from memory is
// restored from its saved profile, so sessions survive a restart.
func (s *Sessions) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	s.mu.Lock()
	session, ok := s.sessions[token]
	s.mu.Unlock()
	if ok {
		return session, nil
	}

	if err := auth.ValidateSessionToken(token); err != nil {
		return nil, ErrNoSession
	}

	profile := store.NewProfileStore(s.kv, profileKey(token))
	voter, found, err := profile.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !found {
		return nil, ErrNoSession
	}

	restored, err := s.start(ctx, token, profile, voter)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent request may have restored it first
	if existing, ok := s.sessions[token]; ok {
		restored.Machine.End()
		return existing, nil
	}
	// End clears profiles under s.mu, so a profile still present here
	// has not been logged out since it was loaded
	_, found, err = profile.Load(ctx)
	if err != nil || !found {
		restored.Machine.End()
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		return nil, ErrNoSession
	}
	s.sessions[token] = restored
	metrics.ActiveSessions.Inc()

	slog.Info("session restored", "roll_no", voter.RollNo)
	return restored, nil
}

// FromRequest looks up the session named by the request's session header.
func (s *Sessions) FromRequest(r *http.Request) (*Session, error) {
	return s.Lookup(r.Context(), middleware.SessionToken(r))
}

// End logs the session out. Its profile is deleted; ballots and candidates stay.
func (s *Sessions) End(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.Token]; ok {
		delete(s.sessions, session.Token)
		metrics.ActiveSessions.Dec()
	}

	session.Machine.End()
	if err := session.profile.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}

func (s *Sessions) expireLocked(now time.Time) {
	for id, c := range s.challenges {
		if now.Sub(c.created) > ChallengeTTL {
			delete(s.challenges, id)
		}
	}
}
