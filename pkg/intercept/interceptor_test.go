// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package intercept

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/typhonlabs/typhon/pkg/chaos"
	"github.com/typhonlabs/typhon/pkg/core"
	"github.com/typhonlabs/typhon/pkg/journal"
)

// countingTool records invocations and returns a fixed result.
type countingTool struct {
	name   string
	calls  int
	result any
	err    error
}

func (c *countingTool) Name() string { return c.name }

func (c *countingTool) Call(_ context.Context, _ any) (any, error) {
	c.calls++
	return c.result, c.err
}

type memoryRecorder struct {
	entries []journal.Entry
}

func (m *memoryRecorder) Record(_ context.Context, entry journal.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func newEngine(t *testing.T, c chaos.Category, enabled bool, rate float64) *chaos.Engine {
	t.Helper()
	e := chaos.New(chaos.WithRand(rand.New(rand.NewSource(1))))
	if err := e.SetCategory(c, enabled, rate); err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	return e
}

func TestWrapAllPreservesNames(t *testing.T) {
	engine := chaos.New()
	interceptor := New(engine)

	tools := []core.Tool{
		&countingTool{name: "get_stock_price"},
		&countingTool{name: "get_patient_info"},
		&countingTool{name: "search_products"},
	}
	wrapped := interceptor.WrapAll(tools)

	if len(wrapped) != 3 {
		t.Fatalf("expected 3 wrapped tools, got %d", len(wrapped))
	}
	for i, w := range wrapped {
		if w.Name() != tools[i].Name() {
			t.Errorf("name mismatch: expected %q, got %q", tools[i].Name(), w.Name())
		}
		if _, ok := w.(*WrappedTool); !ok {
			t.Errorf("tool %q was not wrapped", w.Name())
		}
	}
}

func TestWrapAllSkipsAnonymousTools(t *testing.T) {
	engine := chaos.New()
	interceptor := New(engine)

	anonymous := &countingTool{name: ""}
	wrapped := interceptor.WrapAll([]core.Tool{anonymous})

	if len(wrapped) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(wrapped))
	}
	if wrapped[0] != core.Tool(anonymous) {
		t.Error("anonymous tool must pass through unchanged")
	}
}

func TestInstabilityShortCircuitsOriginal(t *testing.T) {
	engine := newEngine(t, chaos.CategoryToolInstability, true, 1.0)
	interceptor := New(engine)

	tool := &countingTool{name: "get_stock_price", result: "real result"}
	wrapped := interceptor.WrapAll([]core.Tool{tool})[0]

	for i := 0; i < 20; i++ {
		result, err := wrapped.Call(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("injected faults must not surface as errors: %v", err)
		}
		raw, ok := result.(string)
		if !ok {
			t.Fatalf("expected JSON string result, got %T", result)
		}

		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			t.Fatalf("payload is not valid JSON: %v", err)
		}
		if payload["chaos_injected"] != true {
			t.Errorf("expected chaos_injected true, got %v", payload["chaos_injected"])
		}
		if payload["error_type"] != "network_failure" {
			t.Errorf("expected error_type network_failure, got %v", payload["error_type"])
		}
		if payload["tool"] != "get_stock_price" {
			t.Errorf("expected tool get_stock_price, got %v", payload["tool"])
		}
		if payload["identifier"] != "AAPL" {
			t.Errorf("expected identifier AAPL, got %v", payload["identifier"])
		}
	}

	if tool.calls != 0 {
		t.Errorf("original tool must never be invoked when the fault fires, got %d calls", tool.calls)
	}
}

func TestRateLimitShortCircuit(t *testing.T) {
	engine := newEngine(t, chaos.CategoryRateLimit, true, 1.0)
	interceptor := New(engine)

	tool := &countingTool{name: "search_products", result: "real result"}
	wrapped := interceptor.WrapAll([]core.Tool{tool})[0]

	result, err := wrapped.Call(context.Background(), map[string]any{"query": "milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(result.(string)), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload["status_code"] != "429" || payload["error_type"] != "rate_limit" {
		t.Errorf("unexpected rate limit payload: %v", payload)
	}
	if payload["identifier"] != "milk" {
		t.Errorf("expected identifier from query key, got %v", payload["identifier"])
	}
	if tool.calls != 0 {
		t.Error("original tool must not be invoked on rate limit")
	}
}

func TestDisabledChaosDelegatesVerbatim(t *testing.T) {
	engine := chaos.New()
	interceptor := New(engine)

	tool := &countingTool{name: "get_stock_price", result: map[string]any{"price": 178.72}}
	wrapped := interceptor.WrapAll([]core.Tool{tool})[0]

	result, err := wrapped.Call(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tool.calls != 1 {
		t.Errorf("expected exactly one delegation, got %d", tool.calls)
	}
	m, ok := result.(map[string]any)
	if !ok || m["price"] != 178.72 {
		t.Errorf("result must be returned verbatim, got %v", result)
	}
}

func TestRealToolErrorsPropagate(t *testing.T) {
	engine := chaos.New()
	interceptor := New(engine)

	realErr := errors.New("upstream exploded")
	tool := &countingTool{name: "get_stock_price", err: realErr}
	wrapped := interceptor.WrapAll([]core.Tool{tool})[0]

	_, err := wrapped.Call(context.Background(), "AAPL")
	if !errors.Is(err, realErr) {
		t.Errorf("real tool errors must propagate unmodified, got %v", err)
	}
}

func TestFaultsAreJournaled(t *testing.T) {
	engine := newEngine(t, chaos.CategoryToolInstability, true, 1.0)
	recorder := &memoryRecorder{}
	interceptor := New(engine, WithFaultRecorder(recorder))

	tool := &countingTool{name: "get_stock_price"}
	wrapped := interceptor.WrapAll([]core.Tool{tool})[0]

	ctx := core.WithSessionID(context.Background(), "session-42")
	if _, err := wrapped.Call(ctx, "AAPL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Category != "tool_instability" || entry.Tool != "get_stock_price" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Session != "session-42" {
		t.Errorf("expected session from context, got %q", entry.Session)
	}
}

func TestUnwrap(t *testing.T) {
	engine := chaos.New()
	interceptor := New(engine)

	tool := &countingTool{name: "get_stock_price"}
	wrapped := interceptor.WrapAll([]core.Tool{tool})[0].(*WrappedTool)
	if wrapped.Unwrap() != core.Tool(tool) {
		t.Error("Unwrap must return the original tool")
	}
}

func TestLatencySleepIsCancelable(t *testing.T) {
	// Rate 0 means no failure faults; latency still draws at 10% when
	// instability is enabled, so loop until one fires.
	engine := newEngine(t, chaos.CategoryToolInstability, true, 0.0)
	interceptor := New(engine)

	slow := &countingTool{name: "slow_tool", result: "done"}
	wrapped := interceptor.WrapAll([]core.Tool{slow})[0]

	canceled := false
	for i := 0; i < 200 && !canceled; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		start := time.Now()
		_, err := wrapped.Call(ctx, "x")
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			canceled = true
			if elapsed := time.Since(start); elapsed > time.Second {
				t.Fatalf("cancellation took too long: %v", elapsed)
			}
		}
	}
	if !canceled {
		t.Skip("latency draw never fired in 200 attempts")
	}
}

func TestIdentifierFromInput(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "unknown"},
		{"empty string", "", "unknown"},
		{"string", "AAPL", "AAPL"},
		{"ticker key", map[string]any{"ticker": "MSFT", "quantity": 10}, "MSFT"},
		{"patient key", map[string]any{"patient_id": "12345"}, "12345"},
		{"query key", map[string]any{"query": "milk"}, "milk"},
		{"fallback first key", map[string]any{"b": "two", "a": "one"}, "one"},
		{"empty map", map[string]any{}, "unknown"},
		{"number", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := identifierFromInput(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"get_stock_price", "Get Stock Price"},
		{"rag_retrieval", "Rag Retrieval"},
		{"search", "Search"},
	}
	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.expected {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
