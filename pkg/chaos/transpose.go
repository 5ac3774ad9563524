// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

package chaos

import (
	"regexp"
	"strings"
)

var digitRunPattern = regexp.MustCompile(`\d+`)

// MaybeTransposeNumbers randomly swaps two adjacent digits in one number
// in text, simulating a transcription hallucination ("$123.45" becomes
// "$213.45"). At most one digit run is altered per call, and only the
// first occurrence of the chosen run is replaced. Text without digits is
// returned unchanged. If the randomly chosen run is a single digit the
// draw produces no corruption; the draw is not retried.
func (e *Engine) MaybeTransposeNumbers(text string) string {
	e.mu.Lock()
	state := e.categories[CategorySloppiness]
	if !state.enabled {
		e.mu.Unlock()
		return text
	}
	if e.rng.Float64() >= state.rate {
		e.mu.Unlock()
		return text
	}

	runs := digitRunPattern.FindAllString(text, -1)
	if len(runs) == 0 {
		e.mu.Unlock()
		return text
	}

	target := runs[e.rng.Intn(len(runs))]
	if len(target) < 2 {
		e.mu.Unlock()
		return text
	}

	pos := e.rng.Intn(len(target) - 1)
	corrupted := transposeAt(target, pos)
	e.sloppyOutputs++
	e.mu.Unlock()

	result := strings.Replace(text, target, corrupted, 1)
	e.logger.Warn("chaos: number transposition",
		"original", target, "corrupted", corrupted)
	return result
}

// transposeAt swaps the digits at pos and pos+1 in run.
func transposeAt(run string, pos int) string {
	digits := []byte(run)
	digits[pos], digits[pos+1] = digits[pos+1], digits[pos]
	return string(digits)
}
