// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// rootFragmentName names top-level document schema when it has no definition container.
const rootFragmentName = "Root"

// LoadFragments decodes JSON or YAML schema document into named raw fragments.
// Fragments come from components.schemas, $defs or definitions; otherwise the
// document itself is one fragment named Root.
func LoadFragments(data []byte) (map[string]any, error) {
	value, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	root, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrSchemaRootType, value)
	}

	return selectFragments(root), nil
}

// FragmentsFromValue reflects Go value type into named raw fragments.
// The returned name identifies fragment describing the value type itself.
func FragmentsFromValue(value any) (map[string]any, string, error) {
	if value == nil {
		return nil, "", fmt.Errorf("%w: nil value", ErrReflectType)
	}

	reflector := new(jsonschema.Reflector)
	schema := reflector.Reflect(value)
	if schema == nil {
		return nil, "", fmt.Errorf("%w: empty result for %T", ErrReflectType, value)
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrReflectType, err)
	}

	fragments, err := LoadFragments(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrReflectType, err)
	}

	name := referenceName(schema.Ref)
	if name == "" {
		name = reflectedTypeName(value)
	}

	if _, ok := fragments[name]; !ok {
		if _, ok := fragments[rootFragmentName]; !ok {
			return nil, "", fmt.Errorf("%w: no fragment for %T", ErrReflectType, value)
		}

		name = rootFragmentName
	}

	return fragments, name, nil
}

// selectFragments picks definition container of decoded document.
func selectFragments(root map[string]any) map[string]any {
	if components := asMap(root["components"]); components != nil {
		if schemas := asMap(components["schemas"]); schemas != nil {
			return schemas
		}
	}

	for _, key := range []string{"$defs", "definitions"} {
		definitions := asMap(root[key])
		if definitions == nil {
			continue
		}

		out := make(map[string]any, len(definitions)+1)
		for name, fragment := range definitions {
			out[name] = fragment
		}

		if hasObjectShape(root) || root["type"] != nil {
			if _, exists := out[rootFragmentName]; !exists {
				out[rootFragmentName] = root
			}
		}

		return out
	}

	return map[string]any{rootFragmentName: root}
}

// reflectedTypeName returns Go type name of value, pointers dereferenced.
func reflectedTypeName(value any) string {
	kind := reflect.TypeOf(value)
	for kind.Kind() == reflect.Pointer {
		kind = kind.Elem()
	}

	return kind.Name()
}

// decodeDocument decodes JSON or YAML bytes into generic values.
// Numbers become float64 and properties maps carry their declaration order.
func decodeDocument(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDecodeSchema)
	}

	// JSON input gets JSON syntax errors; YAML decoding keeps key order for both.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, new(any)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
		}
	}

	var document yaml.Node
	if err := yaml.Unmarshal(trimmed, &document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
	}

	if len(document.Content) == 0 {
		return nil, nil
	}

	return nodeValue(document.Content[0], 0)
}

// nodeValue converts one yaml.Node into generic value.
func nodeValue(node *yaml.Node, depth int) (any, error) {
	if depth > 10*defaultMaxDepth {
		return nil, fmt.Errorf("%w: document nesting too deep at line %d", ErrDecodeSchema, node.Line)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return nodeValue(node.Content[0], depth+1)
	case yaml.AliasNode:
		return nodeValue(node.Alias, depth+1)
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := nodeValue(item, depth+1)
			if err != nil {
				return nil, err
			}

			out = append(out, value)
		}

		return out, nil
	case yaml.MappingNode:
		return mappingValue(node, depth)
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, fmt.Errorf("%w: unsupported node at line %d", ErrDecodeSchema, node.Line)
	}
}

// mappingValue converts mapping node, recording key order of nested properties map.
func mappingValue(node *yaml.Node, depth int) (any, error) {
	out := make(map[string]any, len(node.Content)/2)

	for index := 0; index+1 < len(node.Content); index += 2 {
		keyNode, valueNode := node.Content[index], node.Content[index+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.Tag == "!!merge" {
			merged, err := nodeValue(valueNode, depth+1)
			if err != nil {
				return nil, err
			}

			for key, value := range asMap(merged) {
				if _, exists := out[key]; !exists {
					out[key] = value
				}
			}

			continue
		}

		value, err := nodeValue(valueNode, depth+1)
		if err != nil {
			return nil, err
		}

		out[keyNode.Value] = value
	}

	if asMap(out["properties"]) != nil {
		if _, exists := out[markerPropertyOrder]; !exists {
			out[markerPropertyOrder] = propertyKeys(node, "properties")
		}
	}

	return out, nil
}

// propertyKeys returns declared key order of child mapping stored under key.
func propertyKeys(node *yaml.Node, key string) []any {
	for index := 0; index+1 < len(node.Content); index += 2 {
		if node.Content[index].Value != key {
			continue
		}

		child := node.Content[index+1]
		for child.Kind == yaml.AliasNode && child.Alias != nil {
			child = child.Alias
		}

		keys := make([]any, 0, len(child.Content)/2)
		for position := 0; position+1 < len(child.Content); position += 2 {
			keys = append(keys, child.Content[position].Value)
		}

		return keys
	}

	return nil
}

// scalarValue converts scalar node honoring resolved YAML tag.
func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var flag bool
		if err := node.Decode(&flag); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
		}

		return flag, nil
	case "!!int", "!!float":
		var number float64
		if err := node.Decode(&number); err != nil {
			parsed, parseErr := strconv.ParseFloat(node.Value, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrDecodeSchema, err)
			}

			number = parsed
		}

		return number, nil
	default:
		return node.Value, nil
	}
}

// dropOrderMarkers removes property order markers from decoded data that is not a schema.
func dropOrderMarkers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		delete(typed, markerPropertyOrder)
		for key, item := range typed {
			typed[key] = dropOrderMarkers(item)
		}
	case []any:
		for index, item := range typed {
			typed[index] = dropOrderMarkers(item)
		}
	}

	return value
}
