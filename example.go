// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

const (
	// OutputJSON encodes generated payload as JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML encodes generated payload as YAML.
	OutputYAML OutputFormat = "yaml"
)

// OutputFormat configures output format for generated payload.
type OutputFormat string

// orderedObject is generated object with keys in schema declaration order.
type orderedObject = orderedmap.OrderedMap[string, any]

// ParseOutputFormat validates and normalizes caller format value.
func ParseOutputFormat(format string) (OutputFormat, error) {
	normalized := OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	switch normalized {
	case OutputJSON, OutputYAML:
		return normalized, nil
	case "yml":
		return OutputYAML, nil
	case "":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownOutputFormat, format)
	}
}

// Encode returns generated payload encoded in selected format.
// Schema, when not nil, orders object keys and annotates YAML output.
func Encode(value any, schema *Schema, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputJSON:
		return EncodeJSON(value, schema)
	case OutputYAML:
		return EncodeYAML(value, schema)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOutputFormat, format)
	}
}

// EncodeJSON serializes generated payload as pretty JSON.
func EncodeJSON(value any, schema *Schema) ([]byte, error) {
	data, err := marshalPrettyJSON(orderValue(value, schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeJSON, err)
	}

	return data, nil
}

// EncodeYAML serializes generated payload as YAML with title/description key comments.
func EncodeYAML(value any, schema *Schema) ([]byte, error) {
	rootNode, err := yamlNodeForValue(orderValue(value, schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
	}

	annotateYAMLNode(rootNode, schema)

	data, err := marshalYAMLNode(rootNode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
	}

	return data, nil
}

// EncodeRegistry serializes symbol table in registration order.
func EncodeRegistry(registry *Registry, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputJSON:
		data, err := marshalPrettyJSON(registry)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeJSON, err)
		}

		return data, nil
	case OutputYAML:
		data, err := json.Marshal(registry)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
		}

		// JSON is valid YAML flow syntax, so node decoding keeps symbol order.
		var document yaml.Node
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
		}

		if len(document.Content) == 0 {
			return nil, fmt.Errorf("%w: empty registry document", ErrEncodeYAML)
		}

		resetYAMLStyle(document.Content[0])
		out, err := marshalYAMLNode(document.Content[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeYAML, err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOutputFormat, format)
	}
}

// marshalPrettyJSON serializes value as indented JSON without HTML escaping.
func marshalPrettyJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// marshalYAMLNode serializes YAML node as document.
func marshalYAMLNode(node *yaml.Node) ([]byte, error) {
	document := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{node},
	}

	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// resetYAMLStyle drops flow and quoting styles of nodes decoded from JSON.
func resetYAMLStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		resetYAMLStyle(child)
	}
}

// orderValue converts generated maps into ordered objects.
// Declared properties come first in schema order, remaining keys follow sorted.
func orderValue(value any, schema *Schema) any {
	switch typed := value.(type) {
	case map[string]any:
		schema = shapeFor(schema, typed)
		properties, _, _ := objectShape(schema)

		out := orderedmap.New[string, any]()
		if properties != nil {
			for pair := properties.Oldest(); pair != nil; pair = pair.Next() {
				if item, ok := typed[pair.Key]; ok {
					out.Set(pair.Key, orderValue(item, pair.Value))
				}
			}
		}

		for _, key := range sortedKeys(typed) {
			if _, done := out.Get(key); done {
				continue
			}

			out.Set(key, orderValue(typed[key], additionalSchema(schema)))
		}

		return out
	case []any:
		schema = shapeFor(schema, typed)
		out := make([]any, 0, len(typed))
		for index, item := range typed {
			out = append(out, orderValue(item, elementSchema(schema, index)))
		}

		return out
	default:
		return value
	}
}

// shapeFor selects union branch whose kind matches generated container value.
func shapeFor(schema *Schema, value any) *Schema {
	if schema == nil || schema.Kind != KindUnion {
		return schema
	}

	for _, branch := range schema.Branches {
		candidate := shapeFor(branch, value)
		if candidate == nil {
			continue
		}

		switch value.(type) {
		case map[string]any:
			if _, _, ok := objectShape(candidate); ok {
				return candidate
			}
		case []any:
			if candidate.Kind == KindArray {
				return candidate
			}
		}
	}

	return nil
}

// additionalSchema returns schema of undeclared object keys, if any.
func additionalSchema(schema *Schema) *Schema {
	if schema == nil || schema.AdditionalProperties == nil {
		return nil
	}

	return schema.AdditionalProperties.Schema
}

// elementSchema returns schema of array element at index.
func elementSchema(schema *Schema, index int) *Schema {
	if schema == nil || schema.Kind != KindArray {
		return nil
	}

	if len(schema.TupleItems) > 0 {
		if index < len(schema.TupleItems) {
			return schema.TupleItems[index]
		}

		return nil
	}

	return schema.Items
}

// annotateYAMLNode assigns schema title/description comments to YAML map keys.
func annotateYAMLNode(node *yaml.Node, schema *Schema) {
	if node == nil || schema == nil {
		return
	}

	switch node.Kind {
	case yaml.MappingNode:
		properties, _, _ := objectShape(shapeForNode(schema, node.Kind))
		for index := 0; index+1 < len(node.Content); index += 2 {
			keyNode := node.Content[index]
			valueNode := node.Content[index+1]

			var property *Schema
			if properties != nil {
				property, _ = properties.Get(keyNode.Value)
			}

			if property == nil {
				continue
			}

			if comment := schemaKeyComment(property); comment != "" {
				keyNode.HeadComment = comment
			}

			annotateYAMLNode(valueNode, property)
		}
	case yaml.SequenceNode:
		arraySchema := shapeForNode(schema, node.Kind)
		for index, item := range node.Content {
			annotateYAMLNode(item, elementSchema(arraySchema, index))
		}
	}
}

// shapeForNode selects union branch matching YAML container node kind.
func shapeForNode(schema *Schema, kind yaml.Kind) *Schema {
	switch kind {
	case yaml.MappingNode:
		return shapeFor(schema, map[string]any{})
	case yaml.SequenceNode:
		return shapeFor(schema, []any{})
	default:
		return schema
	}
}

// schemaKeyComment builds YAML key comment from schema title and description.
func schemaKeyComment(schema *Schema) string {
	if schema.isNullable() {
		schema = suffixTarget(schema)
	}

	title := strings.TrimSpace(schema.Title)
	description := strings.TrimSpace(schema.Description)

	switch {
	case title == "" && description == "":
		return ""
	case title == "":
		return normalizeYAMLComment(description)
	case description == "":
		return normalizeYAMLComment(title)
	default:
		if title == description {
			return normalizeYAMLComment(title)
		}

		return normalizeYAMLComment(title + "\n" + description)
	}
}

// normalizeYAMLComment drops blank lines from comment body.
func normalizeYAMLComment(comment string) string {
	lines := strings.Split(comment, "\n")
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		normalized = append(normalized, strings.TrimRight(line, " \t\r"))
	}

	return strings.Join(normalized, "\n")
}

// yamlNodeForValue builds deterministic yaml.Node tree from generated value.
func yamlNodeForValue(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalarNode("!!null", "null"), nil

	case bool:
		return yamlScalarNode("!!bool", strconv.FormatBool(typed)), nil

	case string:
		return yamlScalarNode("!!str", typed), nil

	case json.Number:
		if int64Value, err := typed.Int64(); err == nil {
			return yamlScalarNode("!!int", strconv.FormatInt(int64Value, 10)), nil
		}

		float64Value, err := typed.Float64()
		if err != nil {
			return nil, err
		}

		return yamlFloatNode(float64Value), nil

	case int:
		return yamlScalarNode("!!int", strconv.Itoa(typed)), nil

	case int64:
		return yamlScalarNode("!!int", strconv.FormatInt(typed, 10)), nil

	case float64:
		return yamlFloatNode(typed), nil

	case *orderedObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			valueNode, err := yamlNodeForValue(pair.Value)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalarNode("!!str", pair.Key), valueNode)
		}

		return node, nil

	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(typed) {
			valueNode, err := yamlNodeForValue(typed[key])
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalarNode("!!str", key), valueNode)
		}

		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			valueNode, err := yamlNodeForValue(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, valueNode)
		}

		return node, nil

	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}

		var normalized any
		if err := json.Unmarshal(data, &normalized); err != nil {
			return nil, err
		}

		return yamlNodeForValue(normalized)
	}
}

// yamlFloatNode tags whole finite floats as integers.
func yamlFloatNode(value float64) *yaml.Node {
	if value == math.Trunc(value) && !math.IsInf(value, 0) && math.Abs(value) < 1<<53 {
		return yamlScalarNode("!!int", strconv.FormatInt(int64(value), 10))
	}

	return yamlScalarNode("!!float", strconv.FormatFloat(value, 'g', -1, 64))
}

// yamlScalarNode creates one scalar yaml.Node with explicit tag.
func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   tag,
		Value: value,
	}
}

// sortedKeys returns map keys in lexical order.
func sortedKeys(object map[string]any) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
