// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"reflect"
	"testing"
)

func TestSynthesizeStringPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema *Schema
		policy Policy
		want   any
	}{
		{
			name:   "length fallback",
			schema: &Schema{Kind: KindString},
			want:   "string",
		},
		{
			name:   "format wins over default",
			schema: &Schema{Kind: KindString, Format: FormatEmail, Default: "x"},
			policy: Policy{UseDefault: true},
			want:   "user@example.com",
		},
		{
			name:   "default when enabled",
			schema: &Schema{Kind: KindString, Default: "fixed", Examples: []any{"sample"}},
			policy: Policy{UseDefault: true, UseExamples: true},
			want:   "fixed",
		},
		{
			name:   "default ignored when disabled",
			schema: &Schema{Kind: KindString, Default: "fixed", Examples: []any{"sample"}},
			policy: Policy{UseExamples: true},
			want:   "sample",
		},
		{
			name:   "length bounds",
			schema: &Schema{Kind: KindString, MaxLength: intPtr(2)},
			want:   "st",
		},
		{
			name:   "unknown format falls through",
			schema: &Schema{Kind: KindString, Format: "ipv4", MinLength: intPtr(8)},
			want:   "stringst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Synthesize(tt.schema, tt.policy, Deterministic{}, nil); got != tt.want {
				t.Fatalf("Synthesize = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSynthesizePatternString(t *testing.T) {
	t.Parallel()

	got := Synthesize(&Schema{Kind: KindString, Pattern: `^[0-9]{4}$`}, Policy{}, Deterministic{}, nil)
	text, ok := got.(string)
	if !ok || len(text) != 4 {
		t.Fatalf("pattern value = %#v", got)
	}
}

func TestSynthesizeNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema *Schema
		policy Policy
		want   any
	}{
		{name: "number midpoint", schema: &Schema{Kind: KindNumber}, want: float64(50)},
		{name: "integer midpoint", schema: &Schema{Kind: KindInteger}, want: int64(50)},
		{name: "bounded", schema: &Schema{Kind: KindNumber, Minimum: floatPtr(10), Maximum: floatPtr(20)}, want: float64(15)},
		{name: "exclusive integer", schema: &Schema{Kind: KindInteger, ExclusiveMinimum: floatPtr(10), Maximum: floatPtr(20)}, want: int64(15)},
		{name: "exclusive number", schema: &Schema{Kind: KindNumber, ExclusiveMinimum: floatPtr(-0.001), Maximum: floatPtr(20)}, want: float64(10)},
		{name: "open range narrower than step", schema: &Schema{Kind: KindNumber, ExclusiveMinimum: floatPtr(0), ExclusiveMaximum: floatPtr(0.0005)}, want: 0.00025},
		{name: "maximum only below zero", schema: &Schema{Kind: KindNumber, Maximum: floatPtr(-10)}, want: float64(-60)},
		{name: "minimum only above window", schema: &Schema{Kind: KindInteger, Minimum: floatPtr(500)}, want: int64(550)},
		{name: "integer above int64", schema: &Schema{Kind: KindInteger, Minimum: floatPtr(1e19)}, want: float64(1e19)},
		{name: "integer below int64", schema: &Schema{Kind: KindInteger, Maximum: floatPtr(-1e19)}, want: float64(-1e19)},
		{name: "integer default beyond int64", schema: &Schema{Kind: KindInteger, Default: 1e19}, policy: Policy{UseDefault: true}, want: float64(1e19)},
		{name: "integer default", schema: &Schema{Kind: KindInteger, Default: float64(7)}, policy: Policy{UseDefault: true}, want: int64(7)},
		{name: "number example", schema: &Schema{Kind: KindNumber, Examples: []any{2.5}}, policy: Policy{UseExamples: true}, want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Synthesize(tt.schema, tt.policy, Deterministic{}, nil); got != tt.want {
				t.Fatalf("Synthesize = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSynthesizeRandomizedNumbersHonorBoundsOutsideInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema *Schema
		valid  func(float64) bool
	}{
		{name: "minimum above", schema: &Schema{Kind: KindInteger, Minimum: floatPtr(1e19)}, valid: func(value float64) bool { return value >= 1e19 }},
		{name: "maximum below", schema: &Schema{Kind: KindInteger, Maximum: floatPtr(-1e19)}, valid: func(value float64) bool { return value <= -1e19 }},
		{name: "narrow open range", schema: &Schema{Kind: KindNumber, ExclusiveMinimum: floatPtr(1), ExclusiveMaximum: floatPtr(1.0001)}, valid: func(value float64) bool { return value > 1 && value < 1.0001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for seed := range uint64(20) {
				value, ok := Synthesize(tt.schema, Policy{}, NewSeededRandomized(seed), nil).(float64)
				if !ok || !tt.valid(value) {
					t.Fatalf("seed %d: value %v out of bounds", seed, value)
				}
			}
		})
	}
}

func TestSynthesizeScalarsWithoutChoices(t *testing.T) {
	t.Parallel()

	if got := Synthesize(NullSchema(), Policy{}, nil, nil); got != nil {
		t.Fatalf("null = %#v", got)
	}

	if got := Synthesize(UnknownSchema(), Policy{}, nil, nil); got != nil {
		t.Fatalf("unknown = %#v", got)
	}

	if got := Synthesize(nil, Policy{}, nil, nil); got != nil {
		t.Fatalf("nil schema = %#v", got)
	}

	if got := Synthesize(&Schema{Kind: KindBoolean, Default: true}, Policy{UseDefault: true}, nil, nil); got != false {
		t.Fatalf("boolean = %#v, want strategy value false", got)
	}
}

func TestSynthesizeEnum(t *testing.T) {
	t.Parallel()

	enum := &Schema{Kind: KindEnum, EnumValues: []any{"a", "b"}, ValueKind: KindString}
	if got := Synthesize(enum, Policy{}, Deterministic{}, nil); got != "a" {
		t.Fatalf("enum = %#v, want a", got)
	}

	integers := &Schema{Kind: KindEnum, EnumValues: []any{float64(3), float64(4)}, ValueKind: KindInteger}
	if got := Synthesize(integers, Policy{}, Deterministic{}, nil); got != int64(3) {
		t.Fatalf("integer enum = %#v, want int64 3", got)
	}

	empty := &Schema{Kind: KindEnum}
	if got := Synthesize(empty, Policy{}, Deterministic{}, nil); got != "string" {
		t.Fatalf("empty enum = %#v, want string fallback", got)
	}
}

func TestSynthesizeArrays(t *testing.T) {
	t.Parallel()

	list := &Schema{Kind: KindArray, Items: &Schema{Kind: KindInteger}, MinItems: intPtr(2)}
	if got := Synthesize(list, Policy{}, Deterministic{}, nil); !reflect.DeepEqual(got, []any{int64(50), int64(50)}) {
		t.Fatalf("list = %#v", got)
	}

	tuple := &Schema{Kind: KindArray, TupleItems: []*Schema{{Kind: KindString}, {Kind: KindBoolean}, NullSchema()}, MaxItems: intPtr(1)}
	if got := Synthesize(tuple, Policy{}, Deterministic{}, nil); !reflect.DeepEqual(got, []any{"string", false, nil}) {
		t.Fatalf("tuple = %#v", got)
	}

	item := &Schema{
		Kind:       KindObject,
		Properties: propertiesOf("id", &Schema{Kind: KindString}, "n", &Schema{Kind: KindInteger}),
		Required:   []string{"id", "n"},
	}

	overrides := map[string]any{
		ItemsOverrideKey: []any{map[string]any{"id": "first"}, "raw"},
	}

	withOverrides := &Schema{Kind: KindArray, Items: item, MinItems: intPtr(3)}
	want := []any{
		map[string]any{"id": "first", "n": int64(50)},
		"raw",
		map[string]any{"id": "string", "n": int64(50)},
	}

	if got := Synthesize(withOverrides, Policy{}, Deterministic{}, overrides); !reflect.DeepEqual(got, want) {
		t.Fatalf("element overrides = %#v, want %#v", got, want)
	}
}

func TestSynthesizeObjectInclusionPolicy(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Kind: KindObject,
		Properties: propertiesOf(
			"a", &Schema{Kind: KindString},
			"b", &Schema{Kind: KindString},
			"c", NullSchema(),
		),
		Required: []string{"a"},
	}

	tests := []struct {
		name   string
		policy Policy
		want   map[string]any
	}{
		{
			name:   "default probability includes",
			policy: Policy{},
			want:   map[string]any{"a": "string", "b": "string", "c": nil},
		},
		{
			name:   "required only",
			policy: Policy{RequiredOnly: true, AlwaysIncludeOptionals: true},
			want:   map[string]any{"a": "string"},
		},
		{
			name:   "zero probability",
			policy: Policy{OptionalsProbability: ProbabilityOf(0)},
			want:   map[string]any{"a": "string"},
		},
		{
			name:   "always include beats zero probability",
			policy: Policy{AlwaysIncludeOptionals: true, OptionalsProbability: ProbabilityOf(0)},
			want:   map[string]any{"a": "string", "b": "string", "c": nil},
		},
		{
			name:   "omit nulls",
			policy: Policy{AlwaysIncludeOptionals: true, OmitNulls: true},
			want:   map[string]any{"a": "string", "b": "string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Synthesize(schema, tt.policy, Deterministic{}, nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Synthesize = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSynthesizeOverridesWin(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Kind: KindObject,
		Properties: propertiesOf(
			"name", &Schema{Kind: KindString, MaxLength: intPtr(2)},
			"nested", &Schema{Kind: KindObject, Properties: propertiesOf("x", &Schema{Kind: KindInteger}), Required: []string{"x"}},
		),
		Required: []string{"name", "nested"},
	}

	overrides := map[string]any{
		"name":   "a much longer name",
		"nested": map[string]any{"y": true},
		"extra":  float64(1),
	}

	got := Synthesize(schema, Policy{RequiredOnly: true}, Deterministic{}, overrides)
	want := map[string]any{
		"name":   "a much longer name",
		"nested": map[string]any{"y": true},
		"extra":  float64(1),
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Synthesize = %#v, want %#v", got, want)
	}

	overrides["nested"].(map[string]any)["y"] = false
	if got.(map[string]any)["nested"].(map[string]any)["y"] != true {
		t.Fatal("override value was not copied")
	}
}

func TestSynthesizeIntersectionMergesBranches(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Kind: KindIntersection,
		Branches: []*Schema{
			{Kind: KindObject, Properties: propertiesOf("x", &Schema{Kind: KindString}, "shared", &Schema{Kind: KindString}), Required: []string{"x"}},
			{Kind: KindObject, Properties: propertiesOf("y", &Schema{Kind: KindString}, "shared", &Schema{Kind: KindInteger}), Required: []string{"shared"}},
		},
	}

	required := Synthesize(schema, Policy{RequiredOnly: true}, Deterministic{}, nil)
	if !reflect.DeepEqual(required, map[string]any{"x": "string", "shared": int64(50)}) {
		t.Fatalf("required-only intersection = %#v", required)
	}

	all := Synthesize(schema, Policy{AlwaysIncludeOptionals: true}, Deterministic{}, nil)
	if !reflect.DeepEqual(all, map[string]any{"x": "string", "y": "string", "shared": int64(50)}) {
		t.Fatalf("full intersection = %#v", all)
	}
}

func TestSynthesizeNonObjectIntersectionUsesFirstConcreteBranch(t *testing.T) {
	t.Parallel()

	schema := &Schema{Kind: KindIntersection, Branches: []*Schema{UnknownSchema(), {Kind: KindString, MaxLength: intPtr(3)}}}
	if got := Synthesize(schema, Policy{}, Deterministic{}, nil); got != "str" {
		t.Fatalf("Synthesize = %#v, want str", got)
	}
}

func TestSynthesizeUnionForwardsOverrides(t *testing.T) {
	t.Parallel()

	schema := &Schema{
		Kind: KindUnion,
		Branches: []*Schema{
			{Kind: KindObject, Properties: propertiesOf("a", &Schema{Kind: KindString}), Required: []string{"a"}},
			{Kind: KindString},
		},
	}

	got := Synthesize(schema, Policy{}, Deterministic{}, map[string]any{"a": "X"})
	if !reflect.DeepEqual(got, map[string]any{"a": "X"}) {
		t.Fatalf("Synthesize = %#v", got)
	}
}

func TestSynthesizeNullableUnionDeterministicPicksValue(t *testing.T) {
	t.Parallel()

	schema := Canonicalize(mustDecodeFragment(t, `{"type":"string","format":"uuid","nullable":true}`), nil, nil)
	if got := Synthesize(schema, Policy{}, nil, nil); got != "550e8400-e29b-41d4-a716-446655440000" {
		t.Fatalf("Synthesize = %#v", got)
	}
}

// propertiesOf builds ordered properties from name/schema pairs.
func propertiesOf(pairs ...any) *Properties {
	properties := newProperties()
	for index := 0; index+1 < len(pairs); index += 2 {
		properties.Set(pairs[index].(string), pairs[index+1].(*Schema))
	}

	return properties
}
