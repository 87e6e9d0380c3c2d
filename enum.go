// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import "math"

// enumLiterals collects literal values from any of the supported enum encodings.
func enumLiterals(object map[string]any, tagged any, hasTag bool) ([]any, bool) {
	if hasTag {
		return taggedEnumValues(tagged), true
	}

	if values, ok := object["enum"]; ok {
		return asSlice(values), true
	}

	if value, ok := object["const"]; ok {
		return []any{value}, true
	}

	for _, keyword := range []string{"oneOf", "anyOf"} {
		if values, ok := constOnlyValues(asSlice(object[keyword])); ok {
			return values, true
		}
	}

	return nil, false
}

// taggedEnumValues unwraps internal enum items carrying one value each.
func taggedEnumValues(raw any) []any {
	items := asSlice(raw)
	out := make([]any, 0, len(items))
	for _, item := range items {
		object := asMap(item)
		if object == nil {
			out = append(out, item)
			continue
		}

		for _, key := range []string{"const", "value"} {
			if value, ok := object[key]; ok {
				out = append(out, value)
				break
			}
		}
	}

	return out
}

// constOnlyValues returns values when every branch exposes exactly one const field.
func constOnlyValues(branches []any) ([]any, bool) {
	if len(branches) == 0 {
		return nil, false
	}

	out := make([]any, 0, len(branches))
	for _, branch := range branches {
		object := stripInternalMarkers(asMap(branch))
		if len(object) != 1 {
			return nil, false
		}

		value, ok := object["const"]
		if !ok {
			return nil, false
		}

		out = append(out, value)
	}

	return out, true
}

// enumSchema builds enum node, folding null literals into a nullable union.
func (canon *Canonicalizer) enumSchema(values []any, object map[string]any) *Schema {
	if len(values) == 0 {
		canon.diag.warnf("enum without values degraded to string")
		node := &Schema{Kind: KindString}
		applyAnnotations(node, object)
		return node
	}

	literals := make([]any, 0, len(values))
	hasNull := false
	for _, value := range values {
		if value == nil {
			hasNull = true
			continue
		}

		literals = append(literals, literalCopy(value))
	}

	if len(literals) == 0 {
		return NullSchema()
	}

	node := &Schema{
		Kind:       KindEnum,
		EnumValues: literals,
		ValueKind:  inferEnumKind(literals),
	}

	applyAnnotations(node, object)
	canon.sanitize(node)

	if hasNull {
		return &Schema{Kind: KindUnion, Branches: []*Schema{node, NullSchema()}}
	}

	return node
}

// inferEnumKind returns shared primitive kind of literals or string for mixed lists.
func inferEnumKind(values []any) Kind {
	var shared Kind
	allWhole := true

	for _, value := range values {
		var kind Kind
		switch typed := value.(type) {
		case string:
			kind = KindString
		case bool:
			kind = KindBoolean
		case map[string]any, []any:
			return KindString
		default:
			number, ok := asFloat(typed)
			if !ok {
				return KindString
			}

			kind = KindNumber
			if number != math.Trunc(number) {
				allWhole = false
			}
		}

		if shared == "" {
			shared = kind
			continue
		}

		if shared != kind {
			return KindString
		}
	}

	if shared == KindNumber && allWhole {
		return KindInteger
	}

	if shared == "" {
		return KindString
	}

	return shared
}
