// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package manifesto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielhkuo/reva-evote/models"
)

const (
	// FallbackText replaces the manifesto when generation fails.
	FallbackText = "Committed to excellence and student welfare. (AI Generation Failed)"

	// EmptyResponseText replaces an empty generation result.
	EmptyResponseText = "Vote for me for a better campus!"

	MsgKeyPointsRequired = "Please enter some key points first."
)

var (
	ErrNotConfigured     = errors.New("manifesto generator not configured")
	ErrGenerationPending = errors.New("manifesto generation already in progress")
)

// Generator drafts manifesto prose from a candidate's key points.
type Generator interface {
	Generate(ctx context.Context, name string, position models.Position, keyPoints string) (string, error)
}

// Unavailable returns a Generator that always fails, so every draft falls back.
func Unavailable() Generator {
	return unavailable{}
}

type unavailable struct{}

func (unavailable) Generate(context.Context, string, models.Position, string) (string, error) {
	return "", ErrNotConfigured
}

// Result is the outcome of one draft.
type Result struct {
	Text     string
	FellBack bool // true when Text is FallbackText
}

// WithFallback calls gen once. Any failure is logged and replaced by FallbackText.
func WithFallback(ctx context.Context, gen Generator, name string, position models.Position, keyPoints string) Result {
	text, err := gen.Generate(ctx, name, position, keyPoints)
	if err != nil {
		slog.Warn("manifesto generation failed, using fallback",
			"position", position,
			"error", &models.ExternalServiceError{Service: "manifesto generation", Err: err},
		)
		return Result{Text: FallbackText, FellBack: true}
	}
	return Result{Text: text}
}

// Drafter runs at most one generation per draft key at a time.
type Drafter struct {
	gen Generator

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewDrafter(gen Generator) *Drafter {
	if gen == nil {
		gen = Unavailable()
	}
	return &Drafter{gen: gen, pending: make(map[string]struct{})}
}

// Draft generates a manifesto for the draft identified by key.
// It fails only for empty key points or while another draft with the same
// key is still running; generation errors become FallbackText.
func (d *Drafter) Draft(ctx context.Context, key, name string, position models.Position, keyPoints string) (Result, error) {
	if strings.TrimSpace(keyPoints) == "" {
		return Result{}, &models.ValidationError{Field: "key_points", Message: MsgKeyPointsRequired}
	}
	if !position.Valid() {
		return Result{}, &models.ValidationError{Field: "position", Message: fmt.Sprintf("unknown position %q", position)}
	}

	if !d.acquire(key) {
		return Result{}, ErrGenerationPending
	}
	defer d.release(key)

	return WithFallback(ctx, d.gen, name, position, keyPoints), nil
}

// Pending reports whether a draft for key is in flight.
func (d *Drafter) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

func (d *Drafter) acquire(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.pending[key]; busy {
		return false
	}
	d.pending[key] = struct{}{}
	return true
}

func (d *Drafter) release(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, key)
}
