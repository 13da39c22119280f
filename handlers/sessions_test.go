// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/reva-evote/auth"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/store"
	"github.com/danielhkuo/reva-evote/testutil"
)

func newSessions(kv kvstore.Store) *Sessions {
	return NewSessions(kv, auth.NewVerifier(testutil.GetTestConfig().EmailDomain))
}

// seedFails rejects candidate list saves and records profile keys it saved
type seedFails struct {
	*kvstore.MemoryStore

	mu       sync.Mutex
	profiles []string
}

func (s *seedFails) Save(ctx context.Context, key string, value []byte) error {
	if key == store.CandidatesKey {
		return errors.New("disk full")
	}
	if strings.HasPrefix(key, store.ProfileKey+":") {
		s.mu.Lock()
		s.profiles = append(s.profiles, key)
		s.mu.Unlock()
	}
	return s.MemoryStore.Save(ctx, key, value)
}

func TestVerifyFailureClearsProfile(t *testing.T) {
	kv := &seedFails{MemoryStore: kvstore.NewMemoryStore()}
	sessions := newSessions(kv)

	id, err := sessions.Challenge(testutil.StudentDetails("Kavya Rao", "R23CS042"))
	if err != nil {
		t.Fatalf("Challenge() error = %v", err)
	}
	if _, err := sessions.Verify(t.Context(), id, "1234"); err == nil {
		t.Fatal("Verify() succeeded although seeding the roster failed")
	}

	if len(kv.profiles) != 1 {
		t.Fatalf("saved %d profiles, want 1", len(kv.profiles))
	}
	if _, found, _ := kv.Load(t.Context(), kv.profiles[0]); found {
		t.Errorf("profile %q left behind after failed Verify", kv.profiles[0])
	}
}

// gatedProfile holds the first load of one key until release is closed
type gatedProfile struct {
	kvstore.Store
	key string

	held    atomic.Bool
	loaded  chan struct{}
	release chan struct{}
}

func (g *gatedProfile) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := g.Store.Load(ctx, key)
	if key == g.key && g.held.CompareAndSwap(false, true) {
		close(g.loaded)
		<-g.release
	}
	return data, ok, err
}

func TestRestoreRacingLogout(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })

	first := newSessions(kv)
	id, err := first.Challenge(testutil.StudentDetails("Kavya Rao", "R23CS042"))
	if err != nil {
		t.Fatalf("Challenge() error = %v", err)
	}
	session, err := first.Verify(t.Context(), id, "1234")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	token := session.Token

	// A restarted process sees only the saved profile
	gated := &gatedProfile{
		Store:   kv,
		key:     profileKey(token),
		loaded:  make(chan struct{}),
		release: make(chan struct{}),
	}
	restarted := newSessions(gated)

	slow := make(chan error, 1)
	go func() {
		_, err := restarted.Lookup(context.Background(), token)
		slow <- err
	}()
	<-gated.loaded

	fast, err := restarted.Lookup(t.Context(), token)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if err := restarted.End(t.Context(), fast); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	close(gated.release)

	if err := <-slow; !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup() racing logout error = %v, want ErrNoSession", err)
	}
	if _, err := restarted.Lookup(t.Context(), token); !errors.Is(err, ErrNoSession) {
		t.Errorf("Lookup() after logout error = %v, want ErrNoSession", err)
	}
}
