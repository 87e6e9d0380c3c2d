// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"fmt"
	"math"
	"strings"
)

const (
	// StrategyDeterministic selects the Deterministic strategy by name.
	StrategyDeterministic = "deterministic"
	// StrategyRandomized selects the Randomized strategy by name.
	StrategyRandomized = "randomized"
)

// deterministicText is repeated or truncated to build fixed strings.
const deterministicText = "string"

// deterministicPatternSeed keeps pattern strings stable between runs.
const deterministicPatternSeed = 1

// Strategy resolves choices a schema leaves open.
type Strategy interface {
	// PickBoolean returns boolean value.
	PickBoolean() bool
	// PickNumber returns value within inclusive bounds, whole when integer is set.
	PickNumber(minimum, maximum float64, integer bool) float64
	// PickString returns string with length within inclusive bounds.
	PickString(minLength, maxLength int) string
	// PickFormat returns string for known format.
	PickFormat(format string) (string, bool)
	// PickPattern returns string matching regular expression.
	PickPattern(pattern string) (string, bool)
	// PickEnum returns one of values; values is never empty.
	PickEnum(values []any) any
	// PickArrayLength returns item count within inclusive bounds.
	PickArrayLength(minItems, maxItems int) int
	// PickUnionBranch returns branch index in [0, count).
	PickUnionBranch(count int) int
	// PickInclusion reports whether optional property with probability is included.
	PickInclusion(probability float64) bool
}

// NewStrategy returns strategy by name; seed applies to randomized strategy.
func NewStrategy(name string, seed uint64) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyDeterministic, "static":
		return Deterministic{}, nil
	case StrategyRandomized, "random":
		return NewSeededRandomized(seed), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, name)
	}
}

// Deterministic picks fixed minimal or midpoint representatives.
// It is stateless and safe for concurrent use.
type Deterministic struct{}

var _ Strategy = Deterministic{}

// PickBoolean always returns false.
func (Deterministic) PickBoolean() bool {
	return false
}

// PickNumber returns min + floor((max-min)/2).
func (Deterministic) PickNumber(minimum, maximum float64, integer bool) float64 {
	if integer {
		minimum = math.Ceil(minimum)
		maximum = math.Floor(maximum)
	}

	if maximum < minimum {
		return minimum
	}

	return minimum + math.Floor((maximum-minimum)/2)
}

// PickString returns "string" fitted into length bounds.
func (Deterministic) PickString(minLength, maxLength int) string {
	minLength, maxLength = normalizeLengthBounds(minLength, maxLength)
	length := min(max(len(deterministicText), minLength), maxLength)
	return repeatToLength(deterministicText, length)
}

// PickFormat returns fixed literal for known format.
func (Deterministic) PickFormat(format string) (string, bool) {
	return FormatLiteral(format)
}

// PickPattern returns stable string matching pattern.
func (Deterministic) PickPattern(pattern string) (string, bool) {
	return patternString(pattern, deterministicPatternSeed)
}

// PickEnum returns first value.
func (Deterministic) PickEnum(values []any) any {
	if len(values) == 0 {
		return nil
	}

	return values[0]
}

// PickArrayLength returns minimum count, at least one.
func (Deterministic) PickArrayLength(minItems, _ int) int {
	return max(minItems, 1)
}

// PickUnionBranch returns first branch.
func (Deterministic) PickUnionBranch(_ int) int {
	return 0
}

// PickInclusion includes properties with probability of at least one half.
func (Deterministic) PickInclusion(probability float64) bool {
	return probability >= 0.5
}

// normalizeLengthBounds clamps negative bounds and orders them.
func normalizeLengthBounds(minLength, maxLength int) (int, int) {
	minLength = max(minLength, 0)
	if maxLength < minLength {
		maxLength = minLength
	}

	return minLength, maxLength
}

// repeatToLength repeats text until it reaches exact length.
func repeatToLength(text string, length int) string {
	if length <= 0 {
		return ""
	}

	repeated := strings.Repeat(text, length/len(text)+1)
	return repeated[:length]
}
