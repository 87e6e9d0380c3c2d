// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// asString returns string value or empty string for other types.
func asString(value any) string {
	text, _ := value.(string)
	return text
}

// asSlice returns list value or nil for other types.
func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}

// asMap returns object value or nil for other types.
func asMap(value any) map[string]any {
	object, _ := value.(map[string]any)
	return object
}

// asBool returns boolean value and whether value was boolean.
func asBool(value any) (bool, bool) {
	flag, ok := value.(bool)
	return flag, ok
}

// asStringSlice returns string entries of list value.
func asStringSlice(value any) []string {
	items := asSlice(value)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok {
			out = append(out, text)
		}
	}

	return out
}

// asFloat converts JSON or YAML decoded numeric value into float64.
func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}

		return parsed, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

// asFloatPtr converts numeric value into pointer or nil.
func asFloatPtr(value any) *float64 {
	if _, isText := value.(string); isText {
		return nil
	}

	number, ok := asFloat(value)
	if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
		return nil
	}

	return &number
}

// asIntPtr converts non-negative numeric value into pointer or nil.
func asIntPtr(value any) *int {
	number := asFloatPtr(value)
	if number == nil || *number < 0 {
		return nil
	}

	return intPtr(int(*number))
}

// isNumeric reports whether value is a decoded number.
func isNumeric(value any) bool {
	if _, isText := value.(string); isText {
		return false
	}

	_, ok := asFloat(value)
	return ok
}

// normalizeNumber returns decoded number as float64, other values unchanged.
func normalizeNumber(value any) any {
	if !isNumeric(value) {
		return value
	}

	number, _ := asFloat(value)
	return number
}

// literalCopy returns detached schema literal without decoder order markers.
func literalCopy(value any) any {
	return dropOrderMarkers(cloneValue(normalizeNumber(value)))
}

// cloneValue deep-copies maps and slices used as generated payload values.
func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneValue(item)
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, cloneValue(item))
		}

		return out
	default:
		return typed
	}
}
