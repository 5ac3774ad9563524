// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ChaosMetrics records chaos injection activity as OpenTelemetry metrics.
// A nil *ChaosMetrics is valid and records nothing, so callers can wire
// metrics conditionally without guarding every call site.
type ChaosMetrics struct {
	toolCalls  metric.Int64Counter
	injections metric.Int64Counter
	latency    metric.Float64Histogram
}

// NewChaosMetrics creates chaos instruments on the global meter provider.
func NewChaosMetrics() (*ChaosMetrics, error) {
	meter := otel.Meter("typhon/chaos")

	toolCalls, err := meter.Int64Counter(
		"typhon.tool.calls.total",
		metric.WithDescription("Total tool invocations seen by the interceptor"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}

	injections, err := meter.Int64Counter(
		"typhon.chaos.injections.total",
		metric.WithDescription("Total injected faults by category and tool"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create injection counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"typhon.chaos.latency.seconds",
		metric.WithDescription("Injected latency delays in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	return &ChaosMetrics{
		toolCalls:  toolCalls,
		injections: injections,
		latency:    latency,
	}, nil
}

// RecordToolCall counts a tool invocation arriving at the interceptor.
func (m *ChaosMetrics) RecordToolCall(ctx context.Context, tool string) {
	if m == nil || m.toolCalls == nil {
		return
	}
	m.toolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrToolName, tool),
	))
}

// RecordInjection counts an injected fault.
func (m *ChaosMetrics) RecordInjection(ctx context.Context, category, tool string) {
	if m == nil || m.injections == nil {
		return
	}
	m.injections.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrChaosCategory, category),
		attribute.String(AttrToolName, tool),
	))
}

// RecordLatency records an injected latency delay.
func (m *ChaosMetrics) RecordLatency(ctx context.Context, d time.Duration) {
	if m == nil || m.latency == nil {
		return
	}
	m.latency.Record(ctx, d.Seconds())
}
