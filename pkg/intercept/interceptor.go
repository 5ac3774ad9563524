// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

// Package intercept wraps domain tools with chaos injection.
//
// The interceptor is the single seam between the agent layer and the
// chaos engine: tools are wrapped once at registration time and every
// invocation then consults the engine before delegating. Injected faults
// short-circuit the call and come back as structured, success-shaped JSON
// payloads; the real tool is never invoked for a fired fault, and errors
// from the real tool propagate unmodified.
package intercept

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/typhonlabs/typhon/pkg/chaos"
	"github.com/typhonlabs/typhon/pkg/core"
	"github.com/typhonlabs/typhon/pkg/journal"
	"github.com/typhonlabs/typhon/pkg/telemetry"
)

// FaultRecorder persists injected faults for later analysis.
// *journal.Store satisfies it.
type FaultRecorder interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// Metrics receives per-invocation observability signals. The telemetry
// package provides an OTEL-backed implementation.
type Metrics interface {
	RecordToolCall(ctx context.Context, tool string)
	RecordInjection(ctx context.Context, category, tool string)
	RecordLatency(ctx context.Context, d time.Duration)
}

// Interceptor wraps tools with chaos injection. It holds explicit
// references to the wrapped callable and its metadata rather than
// capturing loop variables in closures.
type Interceptor struct {
	engine   *chaos.Engine
	recorder FaultRecorder
	metrics  Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithFaultRecorder attaches a fault journal.
func WithFaultRecorder(r FaultRecorder) Option {
	return func(i *Interceptor) { i.recorder = r }
}

// WithMetrics attaches invocation metrics.
func WithMetrics(m Metrics) Option {
	return func(i *Interceptor) { i.metrics = m }
}

// WithLogger sets the interceptor logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interceptor) { i.logger = l }
}

// New creates an Interceptor backed by the given engine.
func New(engine *chaos.Engine, opts ...Option) *Interceptor {
	i := &Interceptor{
		engine: engine,
		tracer: otel.Tracer("typhon/intercept"),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = slog.Default()
	}
	return i
}

// WrapAll wraps every named tool in the list with chaos injection.
// Tools with an empty name are passed through unchanged. Wrapped tools
// report the exact same Name as the original so the agent framework can
// still introspect and invoke them uniformly.
func (i *Interceptor) WrapAll(tools []core.Tool) []core.Tool {
	wrapped := make([]core.Tool, 0, len(tools))
	for _, tool := range tools {
		if tool.Name() == "" {
			wrapped = append(wrapped, tool)
			continue
		}
		wrapped = append(wrapped, &WrappedTool{
			name:        tool.Name(),
			displayName: displayName(tool.Name()),
			original:    tool,
			interceptor: i,
		})
	}
	return wrapped
}

// WrappedTool is a chaos-wrapped tool. The original tool is referenced,
// never mutated.
type WrappedTool struct {
	name        string
	displayName string
	original    core.Tool
	interceptor *Interceptor
}

// Name returns the original tool's name.
func (w *WrappedTool) Name() string { return w.name }

// Unwrap returns the original tool.
func (w *WrappedTool) Unwrap() core.Tool { return w.original }

// Call applies the chaos policy and delegates to the original tool.
//
// Order matters: fired instability and rate-limit faults short-circuit
// before the original is ever invoked, so the fault lives purely at the
// interception boundary. Structured data corruption is deliberately NOT
// applied here; it belongs to the consumption boundary (see the session
// package), simulating a model that misreads good data rather than a
// tool that returned bad data.
func (w *WrappedTool) Call(ctx context.Context, input any) (any, error) {
	i := w.interceptor
	ctx, span := i.tracer.Start(ctx, "tool."+w.name,
		trace.WithAttributes(telemetry.ToolName(w.name)))
	defer span.End()

	if i.metrics != nil {
		i.metrics.RecordToolCall(ctx, w.name)
	}

	identifier := identifierFromInput(input)

	if fired, fault := i.engine.ShouldFailAPICall(w.displayName); fired {
		return i.injected(ctx, span, fault, w.name, identifier), nil
	}

	if fired, fault := i.engine.ShouldFailRateLimit(w.displayName); fired {
		return i.injected(ctx, span, fault, w.name, identifier), nil
	}

	if delay := i.engine.InjectLatency(); delay > 0 {
		span.SetAttributes(attribute.Float64("typhon.chaos.latency_seconds", delay.Seconds()))
		if i.metrics != nil {
			i.metrics.RecordLatency(ctx, delay)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	// Delegate with arguments unmodified; real tool errors propagate as-is.
	return w.original.Call(ctx, input)
}

// injected records a fired fault and builds its payload string.
func (i *Interceptor) injected(ctx context.Context, span trace.Span, fault *chaos.ToolFault, toolName, identifier string) string {
	span.SetAttributes(
		telemetry.ChaosInjected(true),
		telemetry.ChaosCategory(string(fault.Category)),
		telemetry.ChaosStatusCode(fault.StatusCode),
	)
	if i.metrics != nil {
		i.metrics.RecordInjection(ctx, string(fault.Category), toolName)
	}
	if i.recorder != nil {
		entry := journal.NewEntry(string(fault.Category), toolName, fault.StatusCode, fault.Message)
		if id, ok := core.SessionID(ctx); ok {
			entry.Session = id
		}
		if err := i.recorder.Record(ctx, entry); err != nil {
			i.logger.Warn("fault journal write failed", "error", err)
		}
	}
	return fault.Payload(toolName, identifier).JSON()
}

// identifierKeys are checked in order when extracting a best-effort
// identifier from structured tool input.
var identifierKeys = []string{"ticker", "patient_id", "medication_name", "order_id", "sku", "query", "id"}

func identifierFromInput(input any) string {
	switch v := input.(type) {
	case nil:
		return "unknown"
	case string:
		if v == "" {
			return "unknown"
		}
		return v
	case map[string]any:
		for _, key := range identifierKeys {
			if val, ok := v[key]; ok {
				return fmt.Sprint(val)
			}
		}
		if len(v) == 0 {
			return "unknown"
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprint(v[keys[0]])
	default:
		return fmt.Sprint(v)
	}
}

// displayName renders a function-style tool name for error messages:
// "get_stock_price" becomes "Get Stock Price".
func displayName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
