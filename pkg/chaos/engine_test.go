// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import (
	"math/rand"
	"sync"
	"testing"
)

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	return New(WithRand(rand.New(rand.NewSource(seed))))
}

func TestNewDefaults(t *testing.T) {
	e := New()
	stats := e.Stats()

	if len(stats.Categories) != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), len(stats.Categories))
	}
	for _, c := range Categories {
		cs, ok := stats.Categories[c]
		if !ok {
			t.Fatalf("missing category %s", c)
		}
		if cs.Enabled {
			t.Errorf("category %s should start disabled", c)
		}
		if cs.Rate != DefaultRate(c) {
			t.Errorf("category %s: expected default rate %v, got %v", c, DefaultRate(c), cs.Rate)
		}
	}
}

func TestSetCategory(t *testing.T) {
	e := New()

	if err := e.SetCategory(CategoryToolInstability, true, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Enabled(CategoryToolInstability) {
		t.Error("expected category enabled")
	}
	if got := e.Rate(CategoryToolInstability); got != 0.5 {
		t.Errorf("expected rate 0.5, got %v", got)
	}
}

func TestSetCategoryRejectsOutOfRangeRate(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		rate float64
	}{
		{"negative", -0.1},
		{"above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.SetCategory(CategoryToolInstability, true, tt.rate); err == nil {
				t.Errorf("expected error for rate %v", tt.rate)
			}
		})
	}

	// Rejected configuration must not partially apply.
	if e.Enabled(CategoryToolInstability) {
		t.Error("category should remain disabled after rejected rate")
	}
}

func TestSetCategoryUnknown(t *testing.T) {
	e := New()
	if err := e.SetCategory("not_a_category", true, 0.5); err == nil {
		t.Error("expected error for unknown category")
	}
	if err := e.Enable("not_a_category", true); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestEnablePreservesRate(t *testing.T) {
	e := New()

	if err := e.SetCategory(CategorySloppiness, true, 0.7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Enable(CategorySloppiness, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Enabled(CategorySloppiness) {
		t.Error("expected category disabled")
	}
	if got := e.Rate(CategorySloppiness); got != 0.7 {
		t.Errorf("expected rate 0.7 preserved, got %v", got)
	}

	if err := e.Enable(CategorySloppiness, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Rate(CategorySloppiness); got != 0.7 {
		t.Errorf("expected rate 0.7 after re-enable, got %v", got)
	}
}

func TestResetStats(t *testing.T) {
	e := newTestEngine(t, 1)
	if err := e.SetCategory(CategoryToolInstability, true, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		e.ShouldFailAPICall("Test Tool")
	}
	if got := e.Stats().APICallCount; got != 5 {
		t.Fatalf("expected api_call_count 5, got %d", got)
	}

	e.ResetStats()
	stats := e.Stats()
	if stats.APICallCount != 0 || stats.SloppyOutputs != 0 || stats.RAGFailures != 0 {
		t.Errorf("expected zeroed counters, got %+v", stats)
	}

	// Reset must not touch policy.
	if !e.Enabled(CategoryToolInstability) {
		t.Error("reset must not disable categories")
	}
}

func TestConcurrentCounterIncrements(t *testing.T) {
	e := New()
	if err := e.SetCategory(CategoryToolInstability, true, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const workers = 8
	const callsPerWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerWorker; j++ {
				e.ShouldFailAPICall("Concurrent Tool")
			}
		}()
	}
	wg.Wait()

	if got := e.Stats().APICallCount; got != workers*callsPerWorker {
		t.Errorf("lost counter increments: expected %d, got %d", workers*callsPerWorker, got)
	}
}
