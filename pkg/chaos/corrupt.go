// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import (
	"math"
	"sort"
)

// corruptionKind enumerates structured-record corruptions.
type corruptionKind string

const (
	corruptWrongPrice     corruptionKind = "wrong_price"
	corruptNegativeValue  corruptionKind = "negative_value"
	corruptMissingField   corruptionKind = "missing_field"
	corruptStaleTimestamp corruptionKind = "stale_timestamp"
	corruptWrongTicker    corruptionKind = "wrong_ticker"
)

var corruptionKinds = []corruptionKind{
	corruptWrongPrice,
	corruptNegativeValue,
	corruptMissingField,
	corruptStaleTimestamp,
	corruptWrongTicker,
}

// staleTimestamp is the fixed past date written by stale_timestamp.
const staleTimestamp = "2020-01-01 00:00:00"

var fakeTickers = []string{"XXXX", "ZZZZ", "FAKE", "TEST"}

// CorruptRecord randomly corrupts a structured record in place and
// returns it. One corruption kind is drawn uniformly per fired draw; a
// kind whose required field is absent from the record is a silent no-op.
// The draw is deliberately not retried in that case: rare invisible
// corruptions are acceptable for a demo fidelity tool, and re-rolling
// would skew the kind distribution toward whatever fields the record
// happens to carry.
func (e *Engine) CorruptRecord(record map[string]any) map[string]any {
	if record == nil {
		return record
	}

	e.mu.Lock()
	state := e.categories[CategoryDataCorruption]
	if !state.enabled || e.rng.Float64() >= state.rate {
		e.mu.Unlock()
		return record
	}

	kind := corruptionKinds[e.rng.Intn(len(corruptionKinds))]
	changed := e.applyCorruption(record, kind)
	e.mu.Unlock()

	if changed != "" {
		e.logger.Warn("chaos: corrupted record", "kind", string(kind), "field", changed)
	}
	return record
}

// applyCorruption mutates record according to kind and returns the name
// of the affected field, or "" when the kind was a no-op. Callers must
// hold e.mu (the engine RNG is consumed here).
func (e *Engine) applyCorruption(record map[string]any, kind corruptionKind) string {
	switch kind {
	case corruptWrongPrice:
		original, ok := toFloat(record["price"])
		if !ok || original == 0 {
			// A zero price cannot be scaled into a visibly wrong one;
			// treat it as a no-op like an absent field.
			return ""
		}
		// A factor near 1.0 can round back to the original, so redraw a
		// bounded number of times, then force the top of the range.
		for attempt := 0; attempt < 8; attempt++ {
			factor := 0.5 + e.rng.Float64()*1.5
			corrupted := math.Round(original*factor*100) / 100
			if corrupted != original {
				record["price"] = corrupted
				return "price"
			}
		}
		record["price"] = math.Round(original*2*100) / 100
		return "price"

	case corruptNegativeValue:
		change, ok := toFloat(record["change"])
		if !ok {
			return ""
		}
		record["change"] = -math.Abs(change)
		if pct, ok := toFloat(record["change_percent"]); ok {
			record["change_percent"] = -math.Abs(pct)
		}
		return "change"

	case corruptMissingField:
		if len(record) <= 2 {
			return ""
		}
		keys := make([]string, 0, len(record))
		for k := range record {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		victim := keys[e.rng.Intn(len(keys))]
		delete(record, victim)
		return victim

	case corruptStaleTimestamp:
		if _, ok := record["timestamp"]; !ok {
			return ""
		}
		record["timestamp"] = staleTimestamp
		return "timestamp"

	case corruptWrongTicker:
		if _, ok := record["ticker"]; !ok {
			return ""
		}
		record["ticker"] = fakeTickers[e.rng.Intn(len(fakeTickers))]
		return "ticker"
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
