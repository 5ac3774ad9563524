// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import (
	"fmt"
	"strings"
)

// toolErrorCatalog holds realistic API/network failure templates. The %s
// verb receives the tool's display name. Status codes embedded in the
// message are recovered by extractStatusCode for the structured payload.
var toolErrorCatalog = []string{
	"%s temporarily unavailable (503 Service Unavailable)",
	"%s returned 502 Bad Gateway from upstream proxy",
	"%s gateway timeout (504 Gateway Timeout)",
	"%s internal server error (500 Internal Server Error)",
	"%s request rejected (401 Unauthorized)",
	"%s access denied (403 Forbidden)",
	"%s endpoint not found (404 Not Found)",
	"%s method not allowed (405 Method Not Allowed)",
	"%s timeout after 30 seconds",
	"Connection timed out while reading response from %s",
	"Connection refused: %s server not responding",
	"Connection reset by peer while calling %s",
	"DNS resolution failed for %s endpoint",
	"SSL certificate verification failed for %s",
	"SSL handshake with %s aborted",
	"%s returned invalid response",
	"Malformed JSON in response from %s",
}

// ragErrorCatalog holds retrieval-layer failure messages.
var ragErrorCatalog = []string{
	"Vector database connection timeout",
	"Qdrant service unavailable",
	"Embedding model failed to respond",
	"RAG retrieval returned empty results",
	"Document index corrupted",
}

// knownStatusCodes are scanned for in message text, in order.
var knownStatusCodes = []string{"503", "502", "504", "500", "401", "403", "404", "405", "429"}

// extractStatusCode recovers an HTTP status code from an error message on a
// best-effort basis. Messages without a recognizable code are classified as
// "timeout" or "ssl_error" when the text suggests it, else "500".
func extractStatusCode(msg string) string {
	for _, code := range knownStatusCodes {
		if strings.Contains(msg, code) {
			return code
		}
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "connection"):
		return "timeout"
	case strings.Contains(lower, "ssl") || strings.Contains(lower, "certificate"):
		return "ssl_error"
	default:
		return "500"
	}
}

func rateLimitMessage(displayName string) string {
	return fmt.Sprintf("Rate limit exceeded for %s. Please try again later. (429 Too Many Requests)", displayName)
}
