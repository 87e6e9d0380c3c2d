// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"fmt"
	"maps"
	"slices"
)

// Property describes one settable property of a registered object schema.
type Property struct {
	Schema   *Schema
	Name     string
	Required bool
}

// Builder collects per-property overrides for one registered schema.
type Builder struct {
	schema    *Schema
	overrides map[string]any
	symbol    string
}

// Builder returns override builder for registered symbol.
func (registry *Registry) Builder(symbol string) (*Builder, error) {
	schema, ok := registry.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSymbol, symbol)
	}

	return &Builder{
		schema:    schema,
		overrides: make(map[string]any),
		symbol:    symbol,
	}, nil
}

// Generate synthesizes value for registered symbol.
func (registry *Registry) Generate(symbol string, policy Policy, strategy Strategy, overrides map[string]any) (any, error) {
	schema, ok := registry.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSymbol, symbol)
	}

	return Synthesize(schema, policy, strategy, overrides), nil
}

// Symbol returns registry symbol of builder schema.
func (builder *Builder) Symbol() string {
	return builder.symbol
}

// Schema returns registered schema.
func (builder *Builder) Schema() *Schema {
	return builder.schema
}

// Properties returns settable properties in declaration order.
func (builder *Builder) Properties() []Property {
	properties, required, ok := objectShape(builder.schema)
	if !ok || properties == nil {
		return nil
	}

	out := make([]Property, 0, properties.Len())
	for pair := properties.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Property{
			Name:     pair.Key,
			Required: slices.Contains(required, pair.Key),
			Schema:   pair.Value,
		})
	}

	return out
}

// Set stores override value for declared property.
func (builder *Builder) Set(name string, value any) error {
	properties, _, ok := objectShape(builder.schema)
	if !ok || properties == nil {
		return fmt.Errorf("%w %q on %s", ErrUnknownProperty, name, builder.symbol)
	}

	if _, declared := properties.Get(name); !declared {
		return fmt.Errorf("%w %q on %s", ErrUnknownProperty, name, builder.symbol)
	}

	builder.overrides[name] = value
	return nil
}

// Unset removes override for property.
func (builder *Builder) Unset(name string) {
	delete(builder.overrides, name)
}

// Overrides returns copy of collected overrides.
func (builder *Builder) Overrides() map[string]any {
	return maps.Clone(builder.overrides)
}

// Build synthesizes value with collected overrides.
func (builder *Builder) Build(policy Policy, strategy Strategy) any {
	return Synthesize(builder.schema, policy, strategy, builder.overrides)
}
