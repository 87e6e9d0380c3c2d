// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// defaultOptionalsProbability applies when optionalsProbability is unset or false.
const defaultOptionalsProbability = 0.8

// Policy controls how indeterminate schema positions resolve to values.
type Policy struct {
	// UseDefault prefers literal default values when present.
	UseDefault bool `json:"useDefault,omitempty" yaml:"useDefault,omitempty"`
	// UseExamples prefers the first example when default did not resolve the value.
	UseExamples bool `json:"useExamples,omitempty" yaml:"useExamples,omitempty"`
	// RequiredOnly suppresses all optional properties.
	RequiredOnly bool `json:"requiredOnly,omitempty" yaml:"requiredOnly,omitempty"`
	// AlwaysIncludeOptionals forces every optional property unless RequiredOnly is set.
	AlwaysIncludeOptionals bool `json:"alwaysIncludeOptionals,omitempty" yaml:"alwaysIncludeOptionals,omitempty"`
	// OptionalsProbability is the chance of including each optional property.
	OptionalsProbability Probability `json:"optionalsProbability" yaml:"optionalsProbability"`
	// OmitNulls drops optional properties whose generated value is null.
	OmitNulls bool `json:"omitNulls,omitempty" yaml:"omitNulls,omitempty"`
}

// Probability is a number in [0,1] or unset.
// An explicit false decodes as unset.
type Probability struct {
	value float64
	set   bool
}

// ProbabilityOf returns probability set to value.
func ProbabilityOf(value float64) Probability {
	return Probability{value: value, set: true}
}

// IsSet reports whether probability carries explicit number.
func (probability Probability) IsSet() bool {
	return probability.set
}

// Value returns effective probability clamped to [0,1], 0.8 when unset.
func (probability Probability) Value() float64 {
	if !probability.set || math.IsNaN(probability.value) {
		return defaultOptionalsProbability
	}

	return min(max(probability.value, 0), 1)
}

// MarshalJSON encodes unset probability as null.
func (probability Probability) MarshalJSON() ([]byte, error) {
	if !probability.set {
		return []byte("null"), nil
	}

	return json.Marshal(probability.value)
}

// UnmarshalJSON accepts number, null or false.
func (probability *Probability) UnmarshalJSON(data []byte) error {
	text := string(bytes.TrimSpace(data))
	switch text {
	case "null", "false":
		*probability = Probability{}
		return nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("%w: optionalsProbability must be number or false, got %s", ErrInvalidPolicy, text)
	}

	*probability = ProbabilityOf(value)
	return nil
}

// MarshalYAML encodes unset probability as null.
func (probability Probability) MarshalYAML() (any, error) {
	if !probability.set {
		return nil, nil
	}

	return probability.value, nil
}

// UnmarshalYAML accepts number, null or false.
func (probability *Probability) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: optionalsProbability must be scalar (line %d)", ErrInvalidPolicy, node.Line)
	}

	switch node.Tag {
	case "!!null":
		*probability = Probability{}
		return nil
	case "!!bool":
		var flag bool
		if err := node.Decode(&flag); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
		}

		if flag {
			return fmt.Errorf("%w: optionalsProbability must be number or false (line %d)", ErrInvalidPolicy, node.Line)
		}

		*probability = Probability{}
		return nil
	case "!!int", "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
		}

		*probability = ProbabilityOf(value)
		return nil
	default:
		return fmt.Errorf("%w: optionalsProbability must be number or false, got %q (line %d)", ErrInvalidPolicy, node.Value, node.Line)
	}
}

// ParsePolicy decodes JSON or YAML policy document with strict field checking.
// Empty input yields zero policy.
func ParsePolicy(data []byte) (Policy, error) {
	var policy Policy
	if len(bytes.TrimSpace(data)) == 0 {
		return policy, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&policy); err != nil {
		if errors.Is(err, io.EOF) {
			return Policy{}, nil
		}

		if errors.Is(err, ErrInvalidPolicy) {
			return Policy{}, err
		}

		return Policy{}, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	return policy, nil
}

// ParseOverrides decodes JSON or YAML override map; root must be object.
// Empty input yields empty map.
func ParseOverrides(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	value, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	return CheckOverrides(dropOrderMarkers(value))
}

// CheckOverrides verifies that decoded value is a flat override map.
func CheckOverrides(value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{}, nil
	}

	overrides, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrOverridesNotObject, value)
	}

	return overrides, nil
}
