// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"errors"
	"reflect"
	"testing"
)

func newUserRegistry(t *testing.T) *Registry {
	t.Helper()

	fragments, err := LoadFragments([]byte(`
$defs:
  User:
    type: object
    required: [id, name]
    properties:
      id: {type: string, format: uuid}
      name: {type: string}
      age: {type: integer, minimum: 18, maximum: 30}
`))
	if err != nil {
		t.Fatalf("LoadFragments: %v", err)
	}

	registry, _, diag := Compile(fragments)
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}

	return registry
}

func TestBuilderProperties(t *testing.T) {
	t.Parallel()

	builder, err := newUserRegistry(t).Builder("User")
	if err != nil {
		t.Fatalf("Builder: %v", err)
	}

	if builder.Symbol() != "User" || builder.Schema().Kind != KindObject {
		t.Fatalf("builder = %s %s", builder.Symbol(), builder.Schema().Kind)
	}

	properties := builder.Properties()
	got := make([]string, 0, len(properties))
	for _, property := range properties {
		marker := ""
		if property.Required {
			marker = "*"
		}

		got = append(got, property.Name+marker)
	}

	want := []string{"id*", "name*", "age"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("properties = %v, want %v", got, want)
	}
}

func TestBuilderSetAndBuild(t *testing.T) {
	t.Parallel()

	builder, err := newUserRegistry(t).Builder("User")
	if err != nil {
		t.Fatalf("Builder: %v", err)
	}

	if err := builder.Set("name", "Ada"); err != nil {
		t.Fatalf("Set(name): %v", err)
	}

	if err := builder.Set("age", float64(99)); err != nil {
		t.Fatalf("Set(age): %v", err)
	}

	if err := builder.Set("nickname", "x"); !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("Set(nickname) error = %v, want ErrUnknownProperty", err)
	}

	got := builder.Build(Policy{RequiredOnly: true}, nil)
	want := map[string]any{
		"id":   "550e8400-e29b-41d4-a716-446655440000",
		"name": "Ada",
		"age":  float64(99),
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Build = %#v, want %#v", got, want)
	}

	builder.Unset("age")
	got = builder.Build(Policy{AlwaysIncludeOptionals: true}, nil)
	if got.(map[string]any)["age"] != int64(24) {
		t.Fatalf("age after Unset = %#v, want 24", got.(map[string]any)["age"])
	}
}

func TestBuilderOverridesIsCopy(t *testing.T) {
	t.Parallel()

	builder, err := newUserRegistry(t).Builder("User")
	if err != nil {
		t.Fatalf("Builder: %v", err)
	}

	if err := builder.Set("name", "Ada"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	overrides := builder.Overrides()
	overrides["name"] = "Grace"

	if builder.Overrides()["name"] != "Ada" {
		t.Fatal("Overrides copy mutated builder state")
	}
}

func TestBuilderRejectsNonObject(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	symbol := registry.Register(&Schema{Kind: KindString}, "label")

	builder, err := registry.Builder(symbol)
	if err != nil {
		t.Fatalf("Builder: %v", err)
	}

	if len(builder.Properties()) != 0 {
		t.Fatalf("properties = %v, want none", builder.Properties())
	}

	if err := builder.Set("x", 1); !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("Set error = %v, want ErrUnknownProperty", err)
	}

	if _, err := registry.Builder("Missing"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("Builder(Missing) error = %v, want ErrUnknownSymbol", err)
	}
}
