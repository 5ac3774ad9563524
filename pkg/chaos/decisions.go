// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import (
	"fmt"
	"time"
)

// ToolFault is a synthetic failure selected for one tool invocation.
type ToolFault struct {
	Category   Category
	Message    string
	StatusCode string
	ErrorType  string
}

// Payload builds the structured error record for this fault.
func (f *ToolFault) Payload(toolName, identifier string) ErrorPayload {
	return ErrorPayload{
		Error:         f.Message,
		StatusCode:    f.StatusCode,
		ErrorType:     f.ErrorType,
		Tool:          toolName,
		Identifier:    identifier,
		ChaosInjected: true,
	}
}

// ShouldFailAPICall decides whether a tool invocation should fail with a
// synthetic network error. Every gated invocation increments the API call
// counter, whether or not the fault fires. displayName is the
// human-readable tool name embedded in the error message.
func (e *Engine) ShouldFailAPICall(displayName string) (bool, *ToolFault) {
	e.mu.Lock()
	state := e.categories[CategoryToolInstability]
	if !state.enabled {
		e.mu.Unlock()
		return false, nil
	}

	e.apiCallCount++
	fired := e.rng.Float64() < state.rate
	var msg string
	if fired {
		msg = fmt.Sprintf(toolErrorCatalog[e.rng.Intn(len(toolErrorCatalog))], displayName)
	}
	e.mu.Unlock()

	if !fired {
		return false, nil
	}

	e.logger.Warn("chaos: injecting API failure",
		"tool", displayName, "error", msg)
	return true, &ToolFault{
		Category:   CategoryToolInstability,
		Message:    msg,
		StatusCode: extractStatusCode(msg),
		ErrorType:  ErrorTypeNetworkFailure,
	}
}

// ShouldFailRateLimit decides whether a tool invocation should fail with a
// synthetic 429 response.
func (e *Engine) ShouldFailRateLimit(displayName string) (bool, *ToolFault) {
	e.mu.Lock()
	state := e.categories[CategoryRateLimit]
	if !state.enabled {
		e.mu.Unlock()
		return false, nil
	}
	fired := e.rng.Float64() < state.rate
	e.mu.Unlock()

	if !fired {
		return false, nil
	}

	msg := rateLimitMessage(displayName)
	e.logger.Warn("chaos: injecting rate limit error", "tool", displayName, "error", msg)
	return true, &ToolFault{
		Category:   CategoryRateLimit,
		Message:    msg,
		StatusCode: "429",
		ErrorType:  ErrorTypeRateLimit,
	}
}

// ShouldDisconnectRAG decides whether a retrieval call should fail. Fired
// faults increment the RAG failure counter.
func (e *Engine) ShouldDisconnectRAG() (bool, string) {
	e.mu.Lock()
	state := e.categories[CategoryRAGChaos]
	if !state.enabled {
		e.mu.Unlock()
		return false, ""
	}
	fired := e.rng.Float64() < state.rate
	var msg string
	if fired {
		msg = ragErrorCatalog[e.rng.Intn(len(ragErrorCatalog))]
		e.ragFailures++
	}
	e.mu.Unlock()

	if !fired {
		return false, ""
	}

	e.logger.Warn("chaos: injecting RAG failure", "error", msg)
	return true, msg
}

// InjectLatency returns a simulated backpressure delay. When tool
// instability is enabled there is a 10% chance of a 2-5 second delay;
// otherwise zero. The caller performs the sleep, outside any engine lock.
func (e *Engine) InjectLatency() time.Duration {
	e.mu.Lock()
	state := e.categories[CategoryToolInstability]
	if !state.enabled {
		e.mu.Unlock()
		return 0
	}
	fired := e.rng.Float64() < 0.1
	var secs float64
	if fired {
		secs = 2.0 + e.rng.Float64()*3.0
	}
	e.mu.Unlock()

	if !fired {
		return 0
	}

	delay := time.Duration(secs * float64(time.Second))
	e.logger.Warn("chaos: injecting latency", "delay", delay)
	return delay
}
