// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

// Package chaos implements the fault injection engine for Typhon demos.
//
// The engine holds per-category enable flags and probability parameters
// and exposes decision functions that wrapped tools consult on every
// invocation. Faults are always surfaced as structured data, never as
// panics or raised errors, so the downstream observability platform sees
// them as ordinary (if anomalous) tool results.
//
// Example usage:
//
//	engine := chaos.New()
//	engine.SetCategory(chaos.CategoryToolInstability, true, 0.25)
//	if fired, fault := engine.ShouldFailAPICall("Get Stock Price"); fired {
//	    return fault.Payload("get_stock_price", "AAPL").JSON()
//	}
package chaos

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/typhonlabs/typhon/pkg/errors"
)

// Category identifies one class of injected fault.
type Category string

const (
	// CategoryToolInstability injects random API/network failures.
	CategoryToolInstability Category = "tool_instability"

	// CategorySloppiness injects digit transpositions into text output.
	CategorySloppiness Category = "sloppiness"

	// CategoryRAGChaos injects retrieval-layer disconnects.
	CategoryRAGChaos Category = "rag_chaos"

	// CategoryRateLimit injects 429 responses.
	CategoryRateLimit Category = "rate_limit"

	// CategoryDataCorruption silently corrupts structured records.
	CategoryDataCorruption Category = "data_corruption"
)

// Categories lists all fault categories in a stable order.
var Categories = []Category{
	CategoryToolInstability,
	CategorySloppiness,
	CategoryRAGChaos,
	CategoryRateLimit,
	CategoryDataCorruption,
}

// DefaultRate returns the default probability for a category.
func DefaultRate(c Category) float64 {
	switch c {
	case CategoryToolInstability:
		return 0.25
	case CategorySloppiness:
		return 0.30
	case CategoryRAGChaos:
		return 0.20
	case CategoryRateLimit:
		return 0.15
	case CategoryDataCorruption:
		return 0.20
	default:
		return 0
	}
}

type categoryState struct {
	enabled bool
	rate    float64
}

// Engine is the process-wide fault policy store. It is safe for
// concurrent use; individual counter increments are never lost even when
// wrapped tools execute in parallel. Construct one per composition root
// and inject it into the interceptor; there is no package-level singleton.
type Engine struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *slog.Logger

	categories map[Category]*categoryState

	apiCallCount  int64
	sloppyOutputs int64
	ragFailures   int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source. Intended for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithLogger sets the logger used for injection warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine with all categories disabled at their default rates.
func New(opts ...Option) *Engine {
	e := &Engine{
		categories: make(map[Category]*categoryState, len(Categories)),
	}
	for _, c := range Categories {
		e.categories[c] = &categoryState{enabled: false, rate: DefaultRate(c)}
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// SetCategory sets the enable flag and rate for a category atomically.
// A rate outside [0,1] is rejected with an INVALID_INPUT error; out-of-range
// probabilities are a configuration mistake, not something to clamp silently.
func (e *Engine) SetCategory(c Category, enabled bool, rate float64) error {
	if _, ok := e.categories[c]; !ok {
		return errors.New(errors.CodeInvalidInput, "unknown chaos category", nil).
			WithContext("category", string(c))
	}
	if rate < 0 || rate > 1 {
		return errors.New(errors.CodeInvalidInput, "chaos rate must be in [0,1]", nil).
			WithContext("category", string(c)).
			WithContext("rate", rate)
	}

	e.mu.Lock()
	state := e.categories[c]
	state.enabled = enabled
	state.rate = rate
	e.mu.Unlock()

	e.logger.Info("chaos category configured",
		"category", string(c), "enabled", enabled, "rate", rate)
	return nil
}

// Enable flips the enable flag for a category, preserving its last
// configured rate (the per-category default if never configured).
func (e *Engine) Enable(c Category, enabled bool) error {
	if _, ok := e.categories[c]; !ok {
		return errors.New(errors.CodeInvalidInput, "unknown chaos category", nil).
			WithContext("category", string(c))
	}

	e.mu.Lock()
	state := e.categories[c]
	state.enabled = enabled
	rate := state.rate
	e.mu.Unlock()

	e.logger.Info("chaos category toggled",
		"category", string(c), "enabled", enabled, "rate", rate)
	return nil
}

// Enabled reports whether a category is currently enabled.
func (e *Engine) Enabled(c Category) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.categories[c]
	return ok && state.enabled
}

// Rate returns the current rate for a category.
func (e *Engine) Rate(c Category) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.categories[c]; ok {
		return state.rate
	}
	return 0
}

// CategoryStats is a snapshot of one category's policy.
type CategoryStats struct {
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate"`
}

// Stats is a point-in-time snapshot of policy flags, rates, and counters.
type Stats struct {
	APICallCount  int64                      `json:"api_call_count"`
	SloppyOutputs int64                      `json:"sloppy_outputs"`
	RAGFailures   int64                      `json:"rag_failures"`
	Categories    map[Category]CategoryStats `json:"categories"`
}

// Stats returns a snapshot of all flags, rates, and counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := Stats{
		APICallCount:  e.apiCallCount,
		SloppyOutputs: e.sloppyOutputs,
		RAGFailures:   e.ragFailures,
		Categories:    make(map[Category]CategoryStats, len(e.categories)),
	}
	for c, state := range e.categories {
		snapshot.Categories[c] = CategoryStats{Enabled: state.enabled, Rate: state.rate}
	}
	return snapshot
}

// ResetStats zeroes all counters. Policy flags and rates are untouched.
func (e *Engine) ResetStats() {
	e.mu.Lock()
	e.apiCallCount = 0
	e.sloppyOutputs = 0
	e.ragFailures = 0
	e.mu.Unlock()
}
