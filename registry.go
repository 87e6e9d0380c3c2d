// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// defaultSymbolName is used when base name has no identifier characters.
const defaultSymbolName = "Schema"

// Registry maps structural hashes of canonical schemas to symbolic names.
//
// Registry is append-only. It is populated once per batch and must not be
// modified while synthesis calls read from it.
type Registry struct {
	symbols map[string]string
	schemas *orderedmap.OrderedMap[string, *Schema]
	hashes  structuralHasher
}

// NewRegistry returns empty registry.
func NewRegistry() *Registry {
	return &Registry{
		symbols: make(map[string]string),
		schemas: orderedmap.New[string, *Schema](),
		hashes:  make(structuralHasher),
	}
}

// Compile canonicalizes all named fragments in sorted order and registers them.
// The returned map links each fragment name to its registry symbol.
func Compile(allRawByName map[string]any) (*Registry, map[string]string, *Diagnostics) {
	names := make([]string, 0, len(allRawByName))
	for name := range allRawByName {
		names = append(names, name)
	}

	sort.Strings(names)

	registry := NewRegistry()
	canon := NewCanonicalizer(allRawByName)
	aliases := make(map[string]string, len(names))
	for _, name := range names {
		schema := canon.Canonicalize(allRawByName[name], nil)
		aliases[name] = registry.Register(schema, name)
	}

	return registry, aliases, canon.Diagnostics()
}

// Register stores schema under symbol derived from baseName and returns the symbol.
// Structurally identical schemas always receive the symbol of the first registration.
func (registry *Registry) Register(schema *Schema, baseName string) string {
	if schema == nil {
		schema = UnknownSchema()
	}

	hash := registry.hashes.hash(schema)
	if symbol, ok := registry.symbols[hash]; ok {
		return symbol
	}

	symbol := registry.mintSymbol(baseName)
	registry.symbols[hash] = symbol
	registry.schemas.Set(symbol, schema)
	return symbol
}

// Lookup returns schema registered under symbol.
func (registry *Registry) Lookup(symbol string) (*Schema, bool) {
	return registry.schemas.Get(symbol)
}

// Symbols returns registered symbols in registration order.
func (registry *Registry) Symbols() []string {
	out := make([]string, 0, registry.schemas.Len())
	for pair := registry.schemas.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}

	return out
}

// Len returns number of registered symbols.
func (registry *Registry) Len() int {
	return registry.schemas.Len()
}

// Table returns symbol to schema table in registration order.
func (registry *Registry) Table() *orderedmap.OrderedMap[string, *Schema] {
	out := orderedmap.New[string, *Schema](registry.schemas.Len())
	for pair := registry.schemas.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}

	return out
}

// MarshalJSON encodes symbol to schema table preserving registration order.
func (registry *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(registry.schemas)
}

// mintSymbol returns unused symbol for base name with numeric suffix on collision.
func (registry *Registry) mintSymbol(baseName string) string {
	base := symbolName(baseName)
	if _, taken := registry.schemas.Get(base); !taken {
		return base
	}

	for index := 2; ; index++ {
		candidate := base + strconv.Itoa(index)
		if _, taken := registry.schemas.Get(candidate); !taken {
			return candidate
		}
	}
}

// symbolName converts free-form name into PascalCase identifier.
func symbolName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var out strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		out.WriteString(string(runes))
	}

	symbol := out.String()
	if symbol == "" {
		return defaultSymbolName
	}

	if unicode.IsDigit([]rune(symbol)[0]) {
		return defaultSymbolName + symbol
	}

	return symbol
}

// StructuralHash returns order-independent hash of schema structure.
// Documentation fields do not contribute to the hash.
func StructuralHash(schema *Schema) string {
	return make(structuralHasher).hash(schema)
}

// structuralHasher memoizes hashes of shared nodes; child nodes contribute
// their own hash, so every node is serialized once.
type structuralHasher map[*Schema]string

func (hashes structuralHasher) hash(schema *Schema) string {
	if hash, ok := hashes[schema]; ok {
		return hash
	}

	data, err := json.Marshal(hashes.form(schema))
	if err != nil {
		data = []byte(err.Error())
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	hashes[schema] = hash
	return hash
}

// form returns key-sorted serializable view of schema without empty fields.
func (hashes structuralHasher) form(schema *Schema) any {
	if schema == nil {
		return nil
	}

	out := map[string]any{"kind": string(schema.Kind)}
	setText := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	setInt := func(key string, value *int) {
		if value != nil {
			out[key] = *value
		}
	}
	setFloat := func(key string, value *float64) {
		if value != nil {
			out[key] = *value
		}
	}

	setText("format", schema.Format)
	setText("pattern", schema.Pattern)
	setText("valueKind", string(schema.ValueKind))
	setInt("minLength", schema.MinLength)
	setInt("maxLength", schema.MaxLength)
	setInt("minItems", schema.MinItems)
	setInt("maxItems", schema.MaxItems)
	setFloat("minimum", schema.Minimum)
	setFloat("maximum", schema.Maximum)
	setFloat("exclusiveMinimum", schema.ExclusiveMinimum)
	setFloat("exclusiveMaximum", schema.ExclusiveMaximum)

	if schema.Items != nil {
		out["items"] = hashes.hash(schema.Items)
	}

	if len(schema.TupleItems) > 0 {
		out["tupleItems"] = hashes.list(schema.TupleItems)
	}

	if schema.Properties != nil && schema.Properties.Len() > 0 {
		properties := make(map[string]any, schema.Properties.Len())
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			properties[pair.Key] = hashes.hash(pair.Value)
		}

		out["properties"] = properties
	}

	if len(schema.Required) > 0 {
		required := append([]string(nil), schema.Required...)
		sort.Strings(required)
		out["required"] = required
	}

	if additional := schema.AdditionalProperties; additional != nil {
		if additional.Schema != nil {
			out["additionalProperties"] = hashes.hash(additional.Schema)
		} else {
			out["additionalProperties"] = additional.Allowed
		}
	}

	if len(schema.EnumValues) > 0 {
		out["enumValues"] = schema.EnumValues
	}

	if schema.Default != nil {
		out["default"] = schema.Default
	}

	if len(schema.Examples) > 0 {
		out["examples"] = schema.Examples
	}

	if len(schema.Branches) > 0 {
		out["branches"] = hashes.list(schema.Branches)
	}

	return out
}

func (hashes structuralHasher) list(schemas []*Schema) []string {
	out := make([]string, 0, len(schemas))
	for _, schema := range schemas {
		out = append(out, hashes.hash(schema))
	}

	return out
}
