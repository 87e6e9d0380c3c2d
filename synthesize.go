// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"math"
	"slices"
)

const (
	defaultMinLength = 5
	defaultMaxLength = 15
	defaultMinItems  = 1
	defaultMaxItems  = 3
	defaultMaximum   = 100
	// numberStep shifts exclusive bounds of non-integer numbers.
	numberStep = 0.001
	// ItemsOverrideKey holds per-element overrides for root arrays.
	ItemsOverrideKey = "items"
)

// synthesizer walks canonical schema and asks strategy for open choices.
type synthesizer struct {
	strategy Strategy
	policy   Policy
}

// Synthesize produces value conforming to schema.
// Overrides apply to root object keys after synthesis and replace values verbatim.
// A nil strategy means Deterministic.
func Synthesize(schema *Schema, policy Policy, strategy Strategy, overrides map[string]any) any {
	if strategy == nil {
		strategy = Deterministic{}
	}

	builder := synthesizer{policy: policy, strategy: strategy}
	return builder.value(schema, overrides)
}

// value dispatches on schema kind.
func (builder synthesizer) value(schema *Schema, overrides map[string]any) any {
	if schema == nil {
		return nil
	}

	switch schema.Kind {
	case KindString:
		return builder.stringValue(schema)
	case KindNumber:
		return builder.numberValue(schema, false)
	case KindInteger:
		return builder.numberValue(schema, true)
	case KindBoolean:
		return builder.strategy.PickBoolean()
	case KindNull, KindUnknown:
		return nil
	case KindArray:
		return builder.arrayValue(schema, overrides)
	case KindObject:
		return builder.objectValue(schema.Properties, schema.Required, overrides)
	case KindEnum:
		return builder.enumValue(schema)
	case KindUnion:
		return builder.unionValue(schema, overrides)
	case KindIntersection:
		return builder.intersectionValue(schema, overrides)
	default:
		return nil
	}
}

// literalValue returns default or first example when policy allows.
func (builder synthesizer) literalValue(schema *Schema) (any, bool) {
	if builder.policy.UseDefault && schema.Default != nil {
		return cloneValue(schema.Default), true
	}

	if builder.policy.UseExamples && len(schema.Examples) > 0 {
		return cloneValue(schema.Examples[0]), true
	}

	return nil, false
}

// stringValue honors format, default, examples, pattern and length in that order.
func (builder synthesizer) stringValue(schema *Schema) any {
	if schema.Format != "" {
		if value, ok := builder.strategy.PickFormat(schema.Format); ok {
			return value
		}
	}

	if value, ok := builder.literalValue(schema); ok {
		return value
	}

	if schema.Pattern != "" {
		if value, ok := builder.strategy.PickPattern(schema.Pattern); ok {
			return value
		}
	}

	minLength, maxLength := defaultMinLength, defaultMaxLength
	if schema.MinLength != nil {
		minLength = *schema.MinLength
	}

	if schema.MaxLength != nil {
		maxLength = *schema.MaxLength
		if schema.MinLength == nil {
			minLength = min(minLength, maxLength)
		}
	}

	return builder.strategy.PickString(minLength, maxLength)
}

// numberValue resolves effective bounds and picks value inside them.
func (builder synthesizer) numberValue(schema *Schema, integer bool) any {
	if value, ok := builder.literalValue(schema); ok {
		if integer {
			return integerValue(value)
		}

		return value
	}

	lower, upper := 0.0, float64(defaultMaximum)
	if schema.Minimum != nil {
		lower = *schema.Minimum
	}

	if schema.ExclusiveMinimum != nil {
		lower = *schema.ExclusiveMinimum
	}

	if schema.Maximum != nil {
		upper = *schema.Maximum
	}

	if schema.ExclusiveMaximum != nil {
		upper = *schema.ExclusiveMaximum
	}

	// One-sided bounds outside the default window drag the open side along.
	hasLower := schema.Minimum != nil || schema.ExclusiveMinimum != nil
	hasUpper := schema.Maximum != nil || schema.ExclusiveMaximum != nil
	switch {
	case hasLower && !hasUpper && lower >= upper:
		upper = lower + defaultMaximum
	case hasUpper && !hasLower && upper <= lower:
		lower = upper - defaultMaximum
	}

	step := numberStep
	if integer {
		step = 1
	}

	minimum, maximum := lower, upper
	if schema.ExclusiveMinimum != nil {
		minimum = lower + step
	}

	if schema.ExclusiveMaximum != nil {
		maximum = upper - step
	}

	// Open range narrower than one step only fits its midpoint.
	if !integer && minimum > maximum && lower < upper {
		return lower + (upper-lower)/2
	}

	value := builder.strategy.PickNumber(minimum, maximum, integer)
	if integer {
		return wholeValue(value)
	}

	return value
}

// enumValue returns default, example or strategy-picked literal.
func (builder synthesizer) enumValue(schema *Schema) any {
	if value, ok := builder.literalValue(schema); ok {
		return value
	}

	if len(schema.EnumValues) == 0 {
		return builder.stringValue(&Schema{Kind: KindString})
	}

	value := cloneValue(builder.strategy.PickEnum(schema.EnumValues))
	if schema.ValueKind == KindInteger {
		return integerValue(value)
	}

	return value
}

// arrayValue builds list or tuple, applying per-element overrides.
func (builder synthesizer) arrayValue(schema *Schema, overrides map[string]any) []any {
	elementOverrides := asSlice(overrides[ItemsOverrideKey])

	if len(schema.TupleItems) > 0 {
		out := make([]any, 0, len(schema.TupleItems))
		for index, item := range schema.TupleItems {
			out = append(out, builder.element(item, elementOverrides, index))
		}

		return out
	}

	minItems, maxItems := defaultMinItems, defaultMaxItems
	if schema.MinItems != nil {
		minItems = *schema.MinItems
	}

	if schema.MaxItems != nil {
		maxItems = *schema.MaxItems
	}

	count := max(builder.strategy.PickArrayLength(minItems, maxItems), 0)
	out := make([]any, 0, count)
	for index := range count {
		out = append(out, builder.element(schema.Items, elementOverrides, index))
	}

	return out
}

// element builds one array slot, preferring override at the same position.
func (builder synthesizer) element(schema *Schema, overrides []any, index int) any {
	if index >= len(overrides) || overrides[index] == nil {
		return builder.value(schema, nil)
	}

	if nested, ok := overrides[index].(map[string]any); ok && acceptsOverrides(schema) {
		return builder.value(schema, nested)
	}

	return cloneValue(overrides[index])
}

// objectValue synthesizes declared properties under inclusion policy, then applies overrides.
func (builder synthesizer) objectValue(properties *Properties, required []string, overrides map[string]any) map[string]any {
	out := make(map[string]any)
	if properties != nil {
		probability := builder.policy.OptionalsProbability.Value()
		for pair := properties.Oldest(); pair != nil; pair = pair.Next() {
			if _, overridden := overrides[pair.Key]; overridden {
				continue
			}

			if slices.Contains(required, pair.Key) {
				out[pair.Key] = builder.value(pair.Value, nil)
				continue
			}

			if !builder.includeOptional(probability) {
				continue
			}

			value := builder.value(pair.Value, nil)
			if value == nil && builder.policy.OmitNulls {
				continue
			}

			out[pair.Key] = value
		}
	}

	for key, value := range overrides {
		out[key] = cloneValue(value)
	}

	return out
}

// includeOptional applies requiredOnly, alwaysIncludeOptionals and probability in order.
func (builder synthesizer) includeOptional(probability float64) bool {
	switch {
	case builder.policy.RequiredOnly:
		return false
	case builder.policy.AlwaysIncludeOptionals:
		return true
	default:
		return builder.strategy.PickInclusion(probability)
	}
}

// intersectionValue merges object branches; non-object intersections use first concrete branch.
func (builder synthesizer) intersectionValue(schema *Schema, overrides map[string]any) any {
	properties, required, ok := objectShape(schema)
	if ok {
		return builder.objectValue(properties, required, overrides)
	}

	for _, branch := range schema.Branches {
		if branch != nil && branch.Kind != KindUnknown {
			return builder.value(branch, overrides)
		}
	}

	return nil
}

// unionValue synthesizes one strategy-selected branch.
func (builder synthesizer) unionValue(schema *Schema, overrides map[string]any) any {
	if len(schema.Branches) == 0 {
		return nil
	}

	index := builder.strategy.PickUnionBranch(len(schema.Branches))
	if index < 0 || index >= len(schema.Branches) {
		index = 0
	}

	return builder.value(schema.Branches[index], overrides)
}

// objectShape returns effective properties and required names of object or intersection node.
// Later intersection branches win on property name collision.
func objectShape(schema *Schema) (*Properties, []string, bool) {
	if schema == nil {
		return nil, nil, false
	}

	switch schema.Kind {
	case KindObject:
		return schema.Properties, schema.Required, true
	case KindIntersection:
		merged := newProperties()
		var required []string
		found := false
		for _, branch := range schema.Branches {
			properties, branchRequired, ok := objectShape(branch)
			if !ok {
				continue
			}

			found = true
			if properties != nil {
				for pair := properties.Oldest(); pair != nil; pair = pair.Next() {
					merged.Set(pair.Key, pair.Value)
				}
			}

			required = mergeRequiredKeys(required, branchRequired)
		}

		return merged, required, found
	default:
		return nil, nil, false
	}
}

// acceptsOverrides reports whether nested override map can be forwarded into schema.
func acceptsOverrides(schema *Schema) bool {
	if schema == nil {
		return false
	}

	switch schema.Kind {
	case KindObject, KindIntersection, KindUnion, KindArray:
		return true
	default:
		return false
	}
}

// integerValue converts whole float values into int64 when they fit.
func integerValue(value any) any {
	number, ok := value.(float64)
	if !ok || number != math.Trunc(number) {
		return value
	}

	return wholeValue(number)
}

// wholeValue returns int64 for values inside int64 range and float64 beyond it.
func wholeValue(value float64) any {
	if value < math.MinInt64 || value >= -math.MinInt64 || math.IsNaN(value) {
		return value
	}

	return int64(value)
}
