// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/reva-evote/models"
	"github.com/danielhkuo/reva-evote/store"
)

var (
	ErrNotAuthenticated  = errors.New("no authenticated voter")
	ErrSessionEnded      = errors.New("session has ended")
	ErrCandidateNotFound = errors.New("candidate not found")
)

// State is the session state of a Machine.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateEnded:
		return "session-ended"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Machine owns the in-memory candidate list and one voter's ballot for the
// life of a session. It is the only writer to the candidate and ballot stores
// on behalf of that session.
type Machine struct {
	candidates *store.CandidateStore
	ballots    *store.BallotStore
	newID      func() string

	mu     sync.Mutex
	state  State
	voter  models.VoterIdentity
	list   []models.Candidate
	ballot models.BallotRecord
}

func NewMachine(candidates *store.CandidateStore, ballots *store.BallotStore) *Machine {
	return &Machine{
		candidates: candidates,
		ballots:    ballots,
		newID:      uuid.NewString,
		ballot:     models.BallotRecord{},
	}
}

// Initialize authenticates voter and loads the candidate list and the voter's
// ballot. An empty candidate store is seeded with InitialCandidates.
func (m *Machine) Initialize(ctx context.Context, voter models.VoterIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateEnded {
		return ErrSessionEnded
	}
	if voter.RollNo == "" {
		return &models.ValidationError{Field: "rollNo", Message: "voter has no roll number"}
	}

	list, found, err := m.candidates.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load candidates: %w", err)
	}
	if !found {
		list, err = m.candidates.Update(ctx, func(current []models.Candidate, found bool) ([]models.Candidate, error) {
			if found {
				return current, nil
			}
			slog.Info("seeding initial candidate roster")
			return InitialCandidates(), nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed candidates: %w", err)
		}
	}

	record, _, err := m.ballots.Load(ctx, voter.RollNo)
	if err != nil {
		return fmt.Errorf("failed to load ballot: %w", err)
	}

	m.voter = voter
	m.list = list
	m.ballot = record
	m.state = StateAuthenticated
	return nil
}

func (m *Machine) checkAuthenticated() error {
	switch m.state {
	case StateAuthenticated:
		return nil
	case StateEnded:
		return ErrSessionEnded
	default:
		return ErrNotAuthenticated
	}
}

func alreadyVoted(position models.Position) error {
	return &models.AlreadyActedError{
		Action:   "vote",
		Position: position,
		Message:  fmt.Sprintf("You have already voted for %s.", position),
	}
}

// Vote records the current voter's choice for position and adds one vote to
// the candidate. A position can be voted for only once; a repeat is rejected
// with an AlreadyActedError and changes nothing.
func (m *Machine) Vote(ctx context.Context, candidateID string, position models.Position) (models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAuthenticated(); err != nil {
		return models.Candidate{}, err
	}
	if !position.Valid() {
		return models.Candidate{}, &models.ValidationError{Field: "position", Message: fmt.Sprintf("unknown position %q", position)}
	}
	if _, ok := m.ballot[position]; ok {
		return models.Candidate{}, alreadyVoted(position)
	}

	var (
		voted   models.Candidate
		list    []models.Candidate
		stored  models.BallotRecord
		counted bool
	)

	record, err := m.ballots.Update(ctx, m.voter.RollNo, func(record models.BallotRecord) (models.BallotRecord, error) {
		// Another session of the same voter may have voted already
		if _, ok := record[position]; ok {
			stored = record
			return nil, alreadyVoted(position)
		}

		updated, err := m.candidates.Update(ctx, func(current []models.Candidate, found bool) ([]models.Candidate, error) {
			if !found {
				current = m.list
			}
			idx := slices.IndexFunc(current, func(c models.Candidate) bool { return c.ID == candidateID })
			if idx < 0 {
				return nil, ErrCandidateNotFound
			}
			if current[idx].Position != position {
				return nil, &models.ValidationError{
					Field:   "candidate_id",
					Message: fmt.Sprintf("%s is not running for %s", current[idx].Name, position),
				}
			}

			next := slices.Clone(current)
			next[idx].Votes++
			voted = next[idx]
			return next, nil
		})
		if err != nil {
			return nil, err
		}

		list = updated
		counted = true
		record[position] = candidateID
		return record, nil
	})

	switch {
	case err == nil:
	case counted && errors.Is(err, store.ErrBallotNotSaved):
		// The vote is counted; keep it in memory so this session cannot vote again.
		slog.Warn("vote counted but ballot not persisted", "roll_no", m.voter.RollNo, "position", position, "error", err)
	default:
		if stored != nil {
			m.ballot = stored
		}
		return models.Candidate{}, err
	}

	m.list = list
	m.ballot = record

	slog.Info("vote cast", "roll_no", m.voter.RollNo, "position", position, "candidate_id", candidateID)
	return voted, nil
}

// RegisterCandidate nominates voter for position. Each roll number may appear
// in the candidate list once, whatever the position.
func (m *Machine) RegisterCandidate(ctx context.Context, voter models.VoterIdentity, position models.Position, manifestoText string) (models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAuthenticated(); err != nil {
		return models.Candidate{}, err
	}
	if strings.TrimSpace(manifestoText) == "" {
		return models.Candidate{}, &models.ValidationError{Field: "manifesto", Message: "Please provide a manifesto."}
	}
	if !position.Valid() {
		return models.Candidate{}, &models.ValidationError{Field: "position", Message: fmt.Sprintf("unknown position %q", position)}
	}
	if voter.RollNo == "" {
		return models.Candidate{}, &models.ValidationError{Field: "rollNo", Message: "voter has no roll number"}
	}

	candidate := models.Candidate{
		ID:        m.newID(),
		Name:      voter.Name,
		RollNo:    voter.RollNo,
		Position:  position,
		Manifesto: manifestoText,
		Votes:     0,
	}

	list, err := m.candidates.Update(ctx, func(current []models.Candidate, found bool) ([]models.Candidate, error) {
		if !found {
			current = m.list
		}
		for _, c := range current {
			if strings.EqualFold(c.RollNo, voter.RollNo) {
				return nil, &models.AlreadyActedError{
					Action:   "nomination",
					Position: c.Position,
					Message:  fmt.Sprintf("You are already registered as a candidate for %s.", c.Position),
				}
			}
		}
		return append(slices.Clone(current), candidate), nil
	})
	if err != nil {
		return models.Candidate{}, err
	}

	m.list = list

	slog.Info("candidate registered", "roll_no", voter.RollNo, "position", position, "candidate_id", candidate.ID)
	return candidate, nil
}

// Refresh reloads the candidate list so reads include other sessions' writes.
// The in-memory list is kept when the store has none.
func (m *Machine) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkAuthenticated(); err != nil {
		return err
	}

	list, found, err := m.candidates.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload candidates: %w", err)
	}
	if found {
		m.list = list
	}
	return nil
}

// Tally yields the tally of position from the machine's list at the time
// each range begins.
func (m *Machine) Tally(position models.Position) iter.Seq[models.TallyEntry] {
	return func(yield func(models.TallyEntry) bool) {
		for entry := range Tally(m.Candidates(), position) {
			if !yield(entry) {
				return
			}
		}
	}
}

// Results tallies every position.
func (m *Machine) Results() []models.PositionResults {
	return Results(m.Candidates())
}

// FilterCandidates is a pure read; see Filter.
func (m *Machine) FilterCandidates(position models.Position, search string) []models.Candidate {
	return Filter(m.Candidates(), position, search)
}

// VotingProgress is the fraction of positions voted for, in [0, 1].
func (m *Machine) VotingProgress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	voted := 0
	for position := range m.ballot {
		if position.Valid() {
			voted++
		}
	}
	return float64(voted) / float64(len(models.Positions))
}

func (m *Machine) Candidates() []models.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.list)
}

func (m *Machine) Ballot() models.BallotRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.ballot)
}

func (m *Machine) Voter() models.VoterIdentity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voter
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// End discards the session's in-memory state. Stores are left untouched.
func (m *Machine) End() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateEnded
	m.voter = models.VoterIdentity{}
	m.list = nil
	m.ballot = models.BallotRecord{}
}
