// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

// Package session applies consumption-boundary corruption to tool results.
//
// The interceptor never corrupts data at the production boundary: a tool
// that succeeds returns correct output. This package sits one layer up,
// where tool results are prepared for the language model, and simulates
// the model misreading good data: digit transpositions in the rendered
// text and structured corruption of decoded records. Both are gated
// per-message by the engine's sloppiness and data-corruption policies.
package session

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/typhonlabs/typhon/pkg/chaos"
)

// ResultProcessor rewrites tool-result messages before model consumption.
type ResultProcessor struct {
	engine *chaos.Engine
}

// NewResultProcessor builds a processor over the shared engine.
func NewResultProcessor(engine *chaos.Engine) *ResultProcessor {
	return &ResultProcessor{engine: engine}
}

// Process applies at most one structured corruption and one digit
// transposition to a message. Messages that are not JSON objects skip
// structured corruption; messages without digits pass through the
// transposition unchanged. Safe to call on arbitrary text.
func (p *ResultProcessor) Process(msg string) string {
	msg = p.corruptStructured(msg)
	return p.engine.MaybeTransposeNumbers(msg)
}

// ProcessAll processes a batch of messages independently.
func (p *ResultProcessor) ProcessAll(msgs []string) []string {
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		out[i] = p.Process(msg)
	}
	return out
}

// corruptStructured decodes a JSON-object message, runs the structured
// corruption draw against it, and re-encodes. Non-object messages are
// returned as-is.
func (p *ResultProcessor) corruptStructured(msg string) string {
	trimmed := strings.TrimSpace(msg)
	if !strings.HasPrefix(trimmed, "{") {
		return msg
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return msg
	}

	before := len(record)
	p.engine.CorruptRecord(record)
	// Re-encode only when the draw actually changed something; otherwise
	// keep the original bytes (stable key order for downstream diffing).
	encoded, err := json.Marshal(record)
	if err != nil {
		return msg
	}
	if len(record) == before && string(encoded) == canonicalize(trimmed) {
		return msg
	}
	return string(encoded)
}

// canonicalize re-marshals a JSON object so byte comparison against a
// fresh encoding is meaningful.
func canonicalize(raw string) string {
	var record map[string]any
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return raw
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return raw
	}
	return string(encoded)
}

// NewSessionID returns a fresh session identifier for demo runs.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}
