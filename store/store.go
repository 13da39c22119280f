// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/models"
)

// Storage keys
const (
	ProfileKey      = "reva_evote_user"
	CandidatesKey   = "reva_candidates"
	BallotKeyPrefix = "reva_votes_"
)

// BallotKey returns the key holding the ballot record of the given voter.
func BallotKey(rollNo string) string {
	return BallotKeyPrefix + rollNo
}

var errNullValue = errors.New("stored value is null")

// loadJSON decodes the value under key into v.
// A value that does not decode, or decodes from a bare null, is deleted
// and reported as absent.
func loadJSON(ctx context.Context, kv kvstore.Store, key string, v any) (bool, error) {
	data, ok, err := kv.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	err = json.Unmarshal(data, v)
	if err == nil && bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		err = errNullValue
	}
	if err != nil {
		corrupt := &models.StoreCorruptError{Key: key, Err: err}
		slog.Warn("discarding corrupt stored value", "key", key, "error", corrupt)
		if delErr := kv.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to delete corrupt value", "key", key, "error", delErr)
		}
		return false, nil
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv kvstore.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return kv.Save(ctx, key, data)
}

// ProfileStore persists one voter identity under a single key.
type ProfileStore struct {
	kv  kvstore.Store
	key string
}

func NewProfileStore(kv kvstore.Store, key string) *ProfileStore {
	return &ProfileStore{kv: kv, key: key}
}

func (s *ProfileStore) Load(ctx context.Context) (models.VoterIdentity, bool, error) {
	var voter models.VoterIdentity
	ok, err := loadJSON(ctx, s.kv, s.key, &voter)
	if err != nil || !ok {
		return models.VoterIdentity{}, false, err
	}
	return voter, true, nil
}

func (s *ProfileStore) Save(ctx context.Context, voter models.VoterIdentity) error {
	return saveJSON(ctx, s.kv, s.key, voter)
}

func (s *ProfileStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, s.key)
}

// CandidateStore persists the candidate list shared by every voter.
type CandidateStore struct {
	kv kvstore.Store
	mu sync.Mutex // serializes Update within this process
}

func NewCandidateStore(kv kvstore.Store) *CandidateStore {
	return &CandidateStore{kv: kv}
}

func (s *CandidateStore) Load(ctx context.Context) ([]models.Candidate, bool, error) {
	var list []models.Candidate
	ok, err := loadJSON(ctx, s.kv, CandidatesKey, &list)
	if err != nil || !ok {
		return nil, false, err
	}
	return list, true, nil
}

func (s *CandidateStore) Save(ctx context.Context, list []models.Candidate) error {
	return saveJSON(ctx, s.kv, CandidatesKey, list)
}

// Update loads the list, applies fn and saves the result.
// Nothing is saved when fn fails. Other processes writing the same
// backing store are not excluded: the last save wins.
func (s *CandidateStore) Update(ctx context.Context, fn func(list []models.Candidate, found bool) ([]models.Candidate, error)) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, found, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := fn(list, found)
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ErrBallotNotSaved wraps a failed ballot write made after fn succeeded.
var ErrBallotNotSaved = errors.New("ballot record not saved")

// BallotStore persists one ballot record per voter.
type BallotStore struct {
	kv kvstore.Store
	mu sync.Mutex
}

func NewBallotStore(kv kvstore.Store) *BallotStore {
	return &BallotStore{kv: kv}
}

func (s *BallotStore) Load(ctx context.Context, rollNo string) (models.BallotRecord, bool, error) {
	record := models.BallotRecord{}
	ok, err := loadJSON(ctx, s.kv, BallotKey(rollNo), &record)
	if err != nil || !ok {
		return models.BallotRecord{}, false, err
	}
	if record == nil {
		record = models.BallotRecord{}
	}
	return record, true, nil
}

func (s *BallotStore) Save(ctx context.Context, rollNo string, record models.BallotRecord) error {
	return saveJSON(ctx, s.kv, BallotKey(rollNo), record)
}

// Update loads the voter's record, applies fn and saves the result.
// If fn succeeded but the save failed, the returned error wraps
// ErrBallotNotSaved and the record returned is the one fn produced.
func (s *BallotStore) Update(ctx context.Context, rollNo string, fn func(record models.BallotRecord) (models.BallotRecord, error)) (models.BallotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, _, err := s.Load(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	updated, err := fn(record)
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, rollNo, updated); err != nil {
		return updated, fmt.Errorf("%w: %w", ErrBallotNotSaved, err)
	}
	return updated, nil
}
