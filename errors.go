// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import "errors"

var (
	// ErrDecodeSchema is returned when schema document decoding fails.
	ErrDecodeSchema = errors.New("decode schema")
	// ErrSchemaRootType is returned when schema document root is not an object.
	ErrSchemaRootType = errors.New("schema document root must be object")
	// ErrReflectType is returned when Go type reflection produces no usable schema.
	ErrReflectType = errors.New("reflect go type")
	// ErrUnknownSymbol is returned when registry has no schema for requested symbol.
	ErrUnknownSymbol = errors.New("unknown schema symbol")
	// ErrUnknownProperty is returned when builder override targets undeclared property.
	ErrUnknownProperty = errors.New("unknown schema property")
	// ErrInvalidPolicy is returned when generation policy field has wrong type.
	ErrInvalidPolicy = errors.New("invalid generation policy")
	// ErrOverridesNotObject is returned when override map input is not an object.
	ErrOverridesNotObject = errors.New("overrides must be object")
	// ErrUnknownStrategy is returned when value strategy name is not supported.
	ErrUnknownStrategy = errors.New("unknown value strategy")
	// ErrUnknownOutputFormat is returned when output format is not supported.
	ErrUnknownOutputFormat = errors.New("unknown output format")
	// ErrEncodeJSON is returned when generated value JSON encoding fails.
	ErrEncodeJSON = errors.New("encode json")
	// ErrEncodeYAML is returned when generated value YAML encoding fails.
	ErrEncodeYAML = errors.New("encode yaml")
)
