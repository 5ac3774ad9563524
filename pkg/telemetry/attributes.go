// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for chaos and tool instrumentation.
const (
	AttrChaosInjected   = "typhon.chaos.injected"
	AttrChaosCategory   = "typhon.chaos.category"
	AttrChaosStatusCode = "typhon.chaos.status_code"
	AttrToolName        = "typhon.tool.name"
	AttrSessionID       = "typhon.session.id"
)

// ChaosInjected marks a span as carrying an injected fault.
func ChaosInjected(v bool) attribute.KeyValue {
	return attribute.Bool(AttrChaosInjected, v)
}

// ChaosCategory records which fault category fired.
func ChaosCategory(category string) attribute.KeyValue {
	return attribute.String(AttrChaosCategory, category)
}

// ChaosStatusCode records the synthetic status code of an injected fault.
func ChaosStatusCode(code string) attribute.KeyValue {
	return attribute.String(AttrChaosStatusCode, code)
}

// ToolName records the name of the tool being invoked.
func ToolName(name string) attribute.KeyValue {
	return attribute.String(AttrToolName, name)
}

// SessionID records the session the operation belongs to.
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}
