// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import (
	"testing"
	"time"
)

func TestCorruptRecordDisabled(t *testing.T) {
	e := newTestEngine(t, 1)
	record := map[string]any{"price": 100.0, "ticker": "AAPL", "volume": 500}

	e.CorruptRecord(record)
	if record["price"] != 100.0 || record["ticker"] != "AAPL" || record["volume"] != 500 {
		t.Errorf("disabled corruption must not modify record: %+v", record)
	}
}

func TestApplyWrongPrice(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"price": 100.0}

	if field := e.applyCorruption(record, corruptWrongPrice); field != "price" {
		t.Fatalf("expected price corruption, got %q", field)
	}
	price, ok := record["price"].(float64)
	if !ok {
		t.Fatalf("price should remain float64, got %T", record["price"])
	}
	if price == 100.0 {
		t.Error("corrupted price must differ from original")
	}
	if price < 50.0 || price > 200.0 {
		t.Errorf("corrupted price %v outside [50,200]", price)
	}
}

func TestApplyWrongPriceZeroIsNoOp(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"price": 0.0, "ticker": "AAPL"}

	if field := e.applyCorruption(record, corruptWrongPrice); field != "" {
		t.Errorf("zero price must be a no-op, got %q", field)
	}
	if record["price"] != 0.0 {
		t.Errorf("zero price must stay unchanged, got %v", record["price"])
	}
}

func TestApplyWrongPriceNegative(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"price": -10.0}

	if field := e.applyCorruption(record, corruptWrongPrice); field != "price" {
		t.Fatalf("expected price corruption, got %q", field)
	}
	price := record["price"].(float64)
	if price == -10.0 {
		t.Error("corrupted price must differ from original")
	}
	if price < -20.0 || price > -5.0 {
		t.Errorf("corrupted price %v outside [-20,-5]", price)
	}
}

func TestCorruptRecordZeroPriceTerminates(t *testing.T) {
	e := newTestEngine(t, 13)
	mustSet(t, e, CategoryDataCorruption, true, 1.0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			record := map[string]any{"price": 0.0, "ticker": "AAPL", "volume": 1}
			e.CorruptRecord(record)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CorruptRecord did not return on a zero-price record")
	}

	// The engine must still serve other categories afterwards.
	if !e.Enabled(CategoryDataCorruption) {
		t.Error("engine state unreadable after zero-price corruption draws")
	}
}

func TestApplyWrongPriceMissingField(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"ticker": "AAPL"}

	if field := e.applyCorruption(record, corruptWrongPrice); field != "" {
		t.Errorf("missing price must be a no-op, got %q", field)
	}
	if record["ticker"] != "AAPL" {
		t.Error("no-op corruption must leave record untouched")
	}
}

func TestApplyNegativeValue(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"change": 2.45, "change_percent": 0.59}

	if field := e.applyCorruption(record, corruptNegativeValue); field != "change" {
		t.Fatalf("expected change corruption, got %q", field)
	}
	if record["change"].(float64) != -2.45 {
		t.Errorf("expected change -2.45, got %v", record["change"])
	}
	if record["change_percent"].(float64) != -0.59 {
		t.Errorf("expected change_percent -0.59, got %v", record["change_percent"])
	}
}

func TestApplyNegativeValueAlreadyNegative(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"change": -2.68}

	e.applyCorruption(record, corruptNegativeValue)
	if record["change"].(float64) != -2.68 {
		t.Errorf("already-negative change must stay negative, got %v", record["change"])
	}
}

func TestApplyMissingField(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"price": 100.0, "ticker": "AAPL", "volume": 500}

	field := e.applyCorruption(record, corruptMissingField)
	if field == "" {
		t.Fatal("expected a field removal on a 3-key record")
	}
	if len(record) != 2 {
		t.Errorf("expected 2 keys after removal, got %d", len(record))
	}
	if _, ok := record[field]; ok {
		t.Errorf("removed field %q still present", field)
	}
}

func TestApplyMissingFieldSmallRecord(t *testing.T) {
	e := newTestEngine(t, 21)
	record := map[string]any{"price": 100.0, "ticker": "AAPL"}

	if field := e.applyCorruption(record, corruptMissingField); field != "" {
		t.Errorf("records with <=2 keys must not lose fields, removed %q", field)
	}
	if len(record) != 2 {
		t.Errorf("expected record untouched, got %d keys", len(record))
	}
}

func TestApplyStaleTimestamp(t *testing.T) {
	e := newTestEngine(t, 21)

	record := map[string]any{"timestamp": "2026-08-26 12:00:00"}
	if field := e.applyCorruption(record, corruptStaleTimestamp); field != "timestamp" {
		t.Fatalf("expected timestamp corruption, got %q", field)
	}
	if record["timestamp"] != staleTimestamp {
		t.Errorf("expected stale timestamp, got %v", record["timestamp"])
	}

	noTimestamp := map[string]any{"price": 1.0}
	if field := e.applyCorruption(noTimestamp, corruptStaleTimestamp); field != "" {
		t.Errorf("missing timestamp must be a no-op, got %q", field)
	}
}

func TestApplyWrongTicker(t *testing.T) {
	e := newTestEngine(t, 21)

	record := map[string]any{"ticker": "AAPL"}
	if field := e.applyCorruption(record, corruptWrongTicker); field != "ticker" {
		t.Fatalf("expected ticker corruption, got %q", field)
	}
	got := record["ticker"].(string)
	valid := false
	for _, fake := range fakeTickers {
		if got == fake {
			valid = true
		}
	}
	if !valid {
		t.Errorf("corrupted ticker %q not in fake set", got)
	}
}

func TestCorruptRecordRateOne(t *testing.T) {
	e := newTestEngine(t, 13)
	mustSet(t, e, CategoryDataCorruption, true, 1.0)

	// Over repeated draws with all required fields present, every kind is
	// eventually selected and the record visibly changes.
	changed := 0
	for i := 0; i < 50; i++ {
		record := map[string]any{
			"price":          100.0,
			"change":         2.45,
			"change_percent": 0.59,
			"ticker":         "AAPL",
			"timestamp":      "2026-08-26 12:00:00",
			"volume":         500,
		}
		e.CorruptRecord(record)
		if record["price"] != 100.0 || record["ticker"] != "AAPL" ||
			record["timestamp"] != "2026-08-26 12:00:00" ||
			record["change"] != 2.45 || len(record) != 6 {
			changed++
		}
	}
	if changed != 50 {
		t.Errorf("with all fields present every fired draw must change the record, got %d/50", changed)
	}
}

func TestCorruptRecordNil(t *testing.T) {
	e := newTestEngine(t, 1)
	mustSet(t, e, CategoryDataCorruption, true, 1.0)
	if got := e.CorruptRecord(nil); got != nil {
		t.Error("nil record must pass through")
	}
}
