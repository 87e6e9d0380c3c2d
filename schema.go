// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"slices"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies canonical schema variant.
type Kind string

const (
	// KindString is a string value.
	KindString Kind = "string"
	// KindNumber is a floating point number.
	KindNumber Kind = "number"
	// KindInteger is a whole number.
	KindInteger Kind = "integer"
	// KindBoolean is a boolean value.
	KindBoolean Kind = "boolean"
	// KindNull is the literal null.
	KindNull Kind = "null"
	// KindArray is a list or fixed-length tuple.
	KindArray Kind = "array"
	// KindObject is a keyed record with declared properties.
	KindObject Kind = "object"
	// KindEnum is a closed list of literal values.
	KindEnum Kind = "enum"
	// KindUnion requires a value to satisfy one of its branches.
	KindUnion Kind = "union"
	// KindIntersection requires a value to satisfy all of its branches.
	KindIntersection Kind = "intersection"
	// KindUnknown carries no known constraint.
	KindUnknown Kind = "unknown"
)

// Properties is an ordered property name to schema map.
type Properties = orderedmap.OrderedMap[string, *Schema]

// Schema is one canonical schema node.
//
// Nodes produced by Canonicalize, ReadNotation and Registry are shared between
// consumers and must not be modified after construction.
type Schema struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Format    string `json:"format,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`

	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	MinItems   *int      `json:"minItems,omitempty"`
	MaxItems   *int      `json:"maxItems,omitempty"`
	Items      *Schema   `json:"items,omitempty"`
	TupleItems []*Schema `json:"tupleItems,omitempty"`

	Properties           *Properties           `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties,omitempty"`

	EnumValues []any `json:"enumValues,omitempty"`
	ValueKind  Kind  `json:"valueKind,omitempty"`

	Default  any   `json:"default,omitempty"`
	Examples []any `json:"examples,omitempty"`

	Branches []*Schema `json:"branches,omitempty"`
}

// AdditionalProperties holds either boolean or schema form of additionalProperties.
type AdditionalProperties struct {
	Allowed bool
	Schema  *Schema
}

// MarshalJSON encodes schema form when present, boolean form otherwise.
func (additional AdditionalProperties) MarshalJSON() ([]byte, error) {
	if additional.Schema != nil {
		return json.Marshal(additional.Schema)
	}

	return json.Marshal(additional.Allowed)
}

// UnknownSchema returns a node without constraints.
func UnknownSchema() *Schema {
	return &Schema{Kind: KindUnknown}
}

// NullSchema returns a node matching only literal null.
func NullSchema() *Schema {
	return &Schema{Kind: KindNull}
}

// IsRequired reports whether property name is listed as required.
func (schema *Schema) IsRequired(name string) bool {
	if schema == nil {
		return false
	}

	return slices.Contains(schema.Required, name)
}

// Property returns declared property schema by name.
func (schema *Schema) Property(name string) (*Schema, bool) {
	if schema == nil || schema.Properties == nil {
		return nil, false
	}

	return schema.Properties.Get(name)
}

// PropertyNames returns declared property names in declaration order.
func (schema *Schema) PropertyNames() []string {
	if schema == nil || schema.Properties == nil {
		return nil
	}

	out := make([]string, 0, schema.Properties.Len())
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}

	return out
}

// isNullable reports whether union node carries a null branch.
func (schema *Schema) isNullable() bool {
	if schema == nil || schema.Kind != KindUnion {
		return false
	}

	for _, branch := range schema.Branches {
		if branch != nil && branch.Kind == KindNull {
			return true
		}
	}

	return false
}

// newProperties returns empty ordered property map.
func newProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

func intPtr(value int) *int {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
