// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import "testing"

func TestTransposeAt(t *testing.T) {
	tests := []struct {
		run      string
		pos      int
		expected string
	}{
		{"123", 0, "213"},
		{"123", 1, "132"},
		{"45", 0, "54"},
		{"1234", 2, "1243"},
	}

	for _, tt := range tests {
		t.Run(tt.run, func(t *testing.T) {
			if got := transposeAt(tt.run, tt.pos); got != tt.expected {
				t.Errorf("transposeAt(%q, %d) = %q, want %q", tt.run, tt.pos, got, tt.expected)
			}
		})
	}
}

func TestMaybeTransposeNumbersDisabled(t *testing.T) {
	e := newTestEngine(t, 1)
	input := "Price: $123.45"
	if got := e.MaybeTransposeNumbers(input); got != input {
		t.Errorf("disabled sloppiness must return input unchanged, got %q", got)
	}
	if got := e.Stats().SloppyOutputs; got != 0 {
		t.Errorf("expected sloppy_outputs 0, got %d", got)
	}
}

func TestMaybeTransposeNumbersRateZero(t *testing.T) {
	e := newTestEngine(t, 1)
	mustSet(t, e, CategorySloppiness, true, 0.0)

	input := "Price: $123.45"
	for i := 0; i < 100; i++ {
		if got := e.MaybeTransposeNumbers(input); got != input {
			t.Fatal("rate 0.0 sloppiness must never corrupt")
		}
	}
}

func TestMaybeTransposeNumbersSingleRun(t *testing.T) {
	e := newTestEngine(t, 99)
	mustSet(t, e, CategorySloppiness, true, 1.0)

	// One multi-digit run, so the run choice is forced and only the swap
	// position varies. "Price: $123" can become "Price: $213" or "Price: $132".
	got := e.MaybeTransposeNumbers("Price: $123")
	if got != "Price: $213" && got != "Price: $132" {
		t.Errorf("unexpected transposition result %q", got)
	}
	if got := e.Stats().SloppyOutputs; got != 1 {
		t.Errorf("expected sloppy_outputs 1, got %d", got)
	}
}

func TestMaybeTransposeNumbersPreservesSurroundings(t *testing.T) {
	e := newTestEngine(t, 5)
	mustSet(t, e, CategorySloppiness, true, 1.0)

	input := "Price: $123.45"
	for i := 0; i < 50; i++ {
		got := e.MaybeTransposeNumbers(input)
		if len(got) != len(input) {
			t.Fatalf("length changed: %q -> %q", input, got)
		}
		// Non-digit characters must be untouched.
		for j := 0; j < len(input); j++ {
			inDigit := input[j] >= '0' && input[j] <= '9'
			if !inDigit && got[j] != input[j] {
				t.Fatalf("non-digit character changed at %d: %q -> %q", j, input, got)
			}
		}
		if got == input {
			t.Fatalf("rate 1.0 with multi-digit runs must always corrupt")
		}
		// Exactly one of the two runs may change.
		changedRuns := 0
		if got[8:11] != "123" {
			changedRuns++
		}
		if got[12:14] != "45" {
			changedRuns++
		}
		if changedRuns != 1 {
			t.Fatalf("expected exactly one corrupted run, got %d in %q", changedRuns, got)
		}
	}
}

func TestMaybeTransposeNumbersNoDigits(t *testing.T) {
	e := newTestEngine(t, 1)
	mustSet(t, e, CategorySloppiness, true, 1.0)

	input := "no numbers here"
	if got := e.MaybeTransposeNumbers(input); got != input {
		t.Errorf("text without digits must pass through, got %q", got)
	}
	if got := e.Stats().SloppyOutputs; got != 0 {
		t.Errorf("no-op must not count as sloppy output, got %d", got)
	}
}

func TestMaybeTransposeNumbersSingleDigitRun(t *testing.T) {
	e := newTestEngine(t, 1)
	mustSet(t, e, CategorySloppiness, true, 1.0)

	// Only run is a single digit: the draw fires but produces no corruption.
	input := "quantity: 7"
	for i := 0; i < 20; i++ {
		if got := e.MaybeTransposeNumbers(input); got != input {
			t.Fatalf("single-digit run must be a no-op, got %q", got)
		}
	}
	if got := e.Stats().SloppyOutputs; got != 0 {
		t.Errorf("single-digit no-op must not count, got %d", got)
	}
}
