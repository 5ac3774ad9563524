// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import "encoding/json"

// Error types surfaced in synthetic payloads. The strings are part of the
// wire contract consumed by the downstream observability platform.
const (
	ErrorTypeNetworkFailure = "network_failure"
	ErrorTypeRateLimit      = "rate_limit"
	ErrorTypeRAGFailure     = "rag_failure"
)

// ErrorPayload is a synthetic tool failure returned in place of a real
// tool result. It is serialized as a success-shaped JSON string so the
// agent framework's tracing records an observable "tool returned an
// error" event instead of an unhandled crash.
type ErrorPayload struct {
	Error         string `json:"error"`
	StatusCode    string `json:"status_code"`
	ErrorType     string `json:"error_type"`
	Tool          string `json:"tool"`
	Identifier    string `json:"identifier"`
	ChaosInjected bool   `json:"chaos_injected"`
}

// JSON serializes the payload.
func (p ErrorPayload) JSON() string {
	data, err := json.Marshal(p)
	if err != nil {
		return `{"error":"chaos payload serialization failed","chaos_injected":true}`
	}
	return string(data)
}

// RAGErrorPayload is a synthetic retrieval failure. It carries an empty
// document set so callers expecting retrieval results still get a
// well-formed response.
type RAGErrorPayload struct {
	Error              string   `json:"error"`
	ErrorType          string   `json:"error_type"`
	ChaosInjected      bool     `json:"chaos_injected"`
	RetrievedDocuments []string `json:"retrieved_documents"`
}

// NewRAGErrorPayload builds a retrieval failure payload with an empty,
// non-nil document list (serializes as [] rather than null).
func NewRAGErrorPayload(msg string) RAGErrorPayload {
	return RAGErrorPayload{
		Error:              msg,
		ErrorType:          ErrorTypeRAGFailure,
		ChaosInjected:      true,
		RetrievedDocuments: make([]string, 0),
	}
}

// JSON serializes the payload.
func (p RAGErrorPayload) JSON() string {
	data, err := json.Marshal(p)
	if err != nil {
		return `{"error":"chaos payload serialization failed","chaos_injected":true,"retrieved_documents":[]}`
	}
	return string(data)
}
