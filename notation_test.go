// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"reflect"
	"testing"
)

func TestReadNotationObject(t *testing.T) {
	t.Parallel()

	schema, diag := ReadNotation(`z.object({
		id: z.string().uuid(),
		email: z.string().email(),
		age: z.number().int().min(18).max(99).optional(),
		"display name"?: z.string().min(2),
	});`)
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}

	if schema.Kind != KindObject {
		t.Fatalf("kind = %s, want object", schema.Kind)
	}

	if got := schema.PropertyNames(); !reflect.DeepEqual(got, []string{"id", "email", "age", "display name"}) {
		t.Fatalf("property order = %v", got)
	}

	if !reflect.DeepEqual(schema.Required, []string{"id", "email"}) {
		t.Fatalf("required = %v", schema.Required)
	}

	age, _ := schema.Property("age")
	if age.Kind != KindInteger || *age.Minimum != 18 || *age.Maximum != 99 {
		t.Fatalf("age = %#v", age)
	}

	name, _ := schema.Property("display name")
	if name.MinLength == nil || *name.MinLength != 2 {
		t.Fatalf("display name = %#v", name)
	}

	email, _ := schema.Property("email")
	if email.Format != FormatEmail {
		t.Fatalf("email format = %q", email.Format)
	}
}

func TestReadNotationArraySuffixKeepsFieldRequired(t *testing.T) {
	t.Parallel()

	schema, diag := ReadNotation(`z.object({ tags: z.string().optional().array(), notes: z.string().array().optional() })`)
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}

	if !reflect.DeepEqual(schema.Required, []string{"tags"}) {
		t.Fatalf("required = %v, want [tags]", schema.Required)
	}

	tags, _ := schema.Property("tags")
	if tags.Kind != KindArray || tags.Items == nil || tags.Items.Kind != KindString {
		t.Fatalf("tags = %#v", tags)
	}
}

func TestReadNotationCombinators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, schema *Schema)
	}{
		{
			name: "union",
			text: `z.union([z.string(), z.number()])`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindUnion || len(schema.Branches) != 2 || schema.Branches[1].Kind != KindNumber {
					t.Fatalf("union = %#v", schema)
				}
			},
		},
		{
			name: "or suffix",
			text: `z.string().or(z.boolean())`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindUnion || schema.Branches[1].Kind != KindBoolean {
					t.Fatalf("or = %#v", schema)
				}
			},
		},
		{
			name: "enum",
			text: `z.enum(["draft", "published"])`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindEnum || !reflect.DeepEqual(schema.EnumValues, []any{"draft", "published"}) || schema.ValueKind != KindString {
					t.Fatalf("enum = %#v", schema)
				}
			},
		},
		{
			name: "literal number",
			text: `z.literal(3)`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindEnum || schema.ValueKind != KindInteger || schema.EnumValues[0] != float64(3) {
					t.Fatalf("literal = %#v", schema)
				}
			},
		},
		{
			name: "tuple",
			text: `z.tuple([z.string(), z.int()])`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindArray || len(schema.TupleItems) != 2 || schema.TupleItems[1].Kind != KindInteger {
					t.Fatalf("tuple = %#v", schema)
				}
			},
		},
		{
			name: "array suffix with bounds",
			text: `z.string().array().min(2).max(4)`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindArray || schema.Items.Kind != KindString || *schema.MinItems != 2 || *schema.MaxItems != 4 {
					t.Fatalf("array = %#v", schema)
				}
			},
		},
		{
			name: "nullable keeps constraints on value branch",
			text: `z.string().nullable().max(3)`,
			check: func(t *testing.T, schema *Schema) {
				if !schema.isNullable() || *schema.Branches[0].MaxLength != 3 {
					t.Fatalf("nullable = %#v", schema)
				}
			},
		},
		{
			name: "regex literal",
			text: `z.string().regex(/^[a-z]+,[0-9]{2}$/i)`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Pattern != `^[a-z]+,[0-9]{2}$` {
					t.Fatalf("pattern = %q", schema.Pattern)
				}
			},
		},
		{
			name: "describe and default",
			text: `z.number().positive().default(5).describe("Retry count, per job")`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Default != float64(5) || schema.Description != "Retry count, per job" || *schema.ExclusiveMinimum != 0 {
					t.Fatalf("number = %#v", schema)
				}
			},
		},
		{
			name: "intersection",
			text: `z.intersection(z.object({a: z.string()}), z.object({b: z.string()}))`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindIntersection || len(schema.Branches) != 2 {
					t.Fatalf("intersection = %#v", schema)
				}
			},
		},
		{
			name: "record",
			text: `z.record(z.string(), z.number())`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindObject || schema.AdditionalProperties == nil || schema.AdditionalProperties.Schema.Kind != KindNumber {
					t.Fatalf("record = %#v", schema)
				}
			},
		},
		{
			name: "strict object",
			text: `z.strictObject({})`,
			check: func(t *testing.T, schema *Schema) {
				if schema.Kind != KindObject || schema.AdditionalProperties == nil || schema.AdditionalProperties.Allowed {
					t.Fatalf("strict object = %#v", schema)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schema, diag := ReadNotation(tt.text)
			if diag.HasWarnings() {
				t.Fatalf("unexpected warnings: %v", diag.Warnings())
			}

			tt.check(t, schema)
		})
	}
}

func TestReadNotationDegradesUnknownFragments(t *testing.T) {
	t.Parallel()

	schema, diag := ReadNotation(`z.object({ a: z.custom(), b: z.string().brand("x") })`)
	assertWarning(t, diag, `unsupported notation constructor "custom"`)
	assertWarning(t, diag, `unsupported notation suffix "brand"`)

	a, _ := schema.Property("a")
	if a.Kind != KindUnknown {
		t.Fatalf("a = %#v, want unknown", a)
	}

	b, _ := schema.Property("b")
	if b.Kind != KindString {
		t.Fatalf("b = %#v, want string", b)
	}

	broken, diag := ReadNotation(`z.object({ a: z.string()`)
	if broken.Kind != KindUnknown {
		t.Fatalf("unbalanced = %#v, want unknown", broken)
	}

	assertWarning(t, diag, "unrecognized notation fragment")
}

func TestReadNotationIgnoresDelimitersInsideLiterals(t *testing.T) {
	t.Parallel()

	schema, diag := ReadNotation(`z.object({ "a,b": z.string().describe("uses } and ) inside"), c: z.literal('x:y') })`)
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}

	if got := schema.PropertyNames(); !reflect.DeepEqual(got, []string{"a,b", "c"}) {
		t.Fatalf("property names = %v", got)
	}

	c, _ := schema.Property("c")
	if c.EnumValues[0] != "x:y" {
		t.Fatalf("literal = %#v", c.EnumValues)
	}
}

func TestNotationMatchesEquivalentJSONSchema(t *testing.T) {
	t.Parallel()

	fromNotation := ParseNotation(`z.object({
		id: z.string().uuid(),
		name: z.string().min(1),
		age: z.number().int().optional(),
		tags: z.array(z.string()),
	})`)

	fromJSON := Canonicalize(mustDecodeFragment(t, `{
  "type": "object",
  "properties": {
    "id": {"type": "string", "format": "uuid"},
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer"},
    "tags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["id", "name", "tags"]
}`), nil, nil)

	if StructuralHash(fromNotation) != StructuralHash(fromJSON) {
		t.Fatal("notation and json schema hash differently")
	}

	policy := Policy{AlwaysIncludeOptionals: true}
	left := Synthesize(fromNotation, policy, Deterministic{}, nil)
	right := Synthesize(fromJSON, policy, Deterministic{}, nil)
	if !reflect.DeepEqual(left, right) {
		t.Fatalf("synthesized values differ: %#v != %#v", left, right)
	}
}

func TestSynthesizeNotation(t *testing.T) {
	t.Parallel()

	got := SynthesizeNotation(
		`z.object({ id: z.string().uuid(), count: z.number().int().gte(1).lte(9), note: z.string().optional() })`,
		Policy{RequiredOnly: true},
		nil,
		map[string]any{"count": float64(42)},
	)

	want := map[string]any{
		"id":    "550e8400-e29b-41d4-a716-446655440000",
		"count": float64(42),
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SynthesizeNotation = %#v, want %#v", got, want)
	}
}

func TestSplitTopLevel(t *testing.T) {
	t.Parallel()

	parts, ok := splitTopLevel(`a, f(b, c), [d, e], "x,y", /,/,`, ',')
	if !ok {
		t.Fatal("splitTopLevel reported unbalanced input")
	}

	want := []string{"a", "f(b, c)", "[d, e]", `"x,y"`, "/,/"}
	if !reflect.DeepEqual(parts, want) {
		t.Fatalf("parts = %q, want %q", parts, want)
	}

	for _, text := range []string{"f(a", "a]", `"open`, "(]"} {
		if _, ok := splitTopLevel(text, ','); ok {
			t.Fatalf("splitTopLevel(%q) reported balanced input", text)
		}
	}
}

func TestMatchingClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		open int
		want int
	}{
		{text: "(a(b)c)", open: 0, want: 6},
		{text: "(a(b)c)", open: 2, want: 4},
		{text: `{"}": 1}`, open: 0, want: 7},
		{text: "(open", open: 0, want: -1},
		{text: "abc", open: 0, want: -1},
	}

	for _, tt := range tests {
		if got := matchingClose(tt.text, tt.open); got != tt.want {
			t.Fatalf("matchingClose(%q, %d) = %d, want %d", tt.text, tt.open, got, tt.want)
		}
	}
}
