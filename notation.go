// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"strconv"
	"strings"
)

// notationCall is one constructor or chained suffix call.
type notationCall struct {
	name string
	args string
}

// notationNode is parsed notation expression with field-level flags.
type notationNode struct {
	schema   *Schema
	optional bool
}

// notationReader recovers canonical schemas from constraint notation text.
type notationReader struct {
	diag  *Diagnostics
	depth int
}

// ReadNotation parses zod-style constraint notation into canonical schema.
// Fragments that cannot be parsed become unknown nodes and are reported in diagnostics.
func ReadNotation(text string) (*Schema, *Diagnostics) {
	reader := notationReader{diag: &Diagnostics{}}
	return reader.expression(text).schema, reader.diag
}

// ParseNotation parses constraint notation, discarding diagnostics.
func ParseNotation(text string) *Schema {
	schema, _ := ReadNotation(text)
	return schema
}

// SynthesizeNotation parses constraint notation and synthesizes value for it.
func SynthesizeNotation(text string, policy Policy, strategy Strategy, overrides map[string]any) any {
	return Synthesize(ParseNotation(text), policy, strategy, overrides)
}

// expression parses constructor call followed by chained suffixes.
func (reader *notationReader) expression(text string) notationNode {
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	if text == "" {
		reader.diag.warnf("empty notation fragment")
		return notationNode{schema: UnknownSchema()}
	}

	if reader.depth >= defaultMaxDepth {
		reader.diag.warnf("notation nesting deeper than %d truncated", defaultMaxDepth)
		return notationNode{schema: UnknownSchema()}
	}

	reader.depth++
	defer func() { reader.depth-- }()

	calls, ok := parseCallChain(text)
	if !ok || len(calls) == 0 {
		reader.diag.warnf("unrecognized notation fragment %q", text)
		return notationNode{schema: UnknownSchema()}
	}

	node := notationNode{schema: reader.constructor(calls[0])}
	for _, call := range calls[1:] {
		reader.suffix(&node, call)
	}

	return node
}

// constructor builds node for leading call.
func (reader *notationReader) constructor(call notationCall) *Schema {
	switch call.name {
	case "string":
		return &Schema{Kind: KindString}
	case "number":
		return &Schema{Kind: KindNumber}
	case "int", "bigint":
		return &Schema{Kind: KindInteger}
	case "boolean":
		return &Schema{Kind: KindBoolean}
	case "null", "undefined", "void":
		return NullSchema()
	case "any", "unknown":
		return UnknownSchema()
	case "email", "uuid", "url", "date":
		return &Schema{Kind: KindString, Format: notationFormat(call.name)}
	case "datetime":
		return &Schema{Kind: KindString, Format: FormatDateTime}
	case "object", "strictObject", "looseObject":
		return reader.object(call)
	case "array":
		return &Schema{Kind: KindArray, Items: reader.expression(firstArgument(call.args)).schema}
	case "tuple":
		return &Schema{Kind: KindArray, TupleItems: reader.schemaList(firstArgument(call.args))}
	case "enum":
		return reader.enum(firstArgument(call.args))
	case "literal":
		value, ok := parseLiteral(firstArgument(call.args))
		if !ok {
			reader.diag.warnf("unrecognized literal %q", call.args)
			return UnknownSchema()
		}

		if value == nil {
			return NullSchema()
		}

		return &Schema{Kind: KindEnum, EnumValues: []any{value}, ValueKind: inferEnumKind([]any{value})}
	case "union":
		return newUnion(reader.schemaList(firstArgument(call.args)))
	case "discriminatedUnion":
		args, _ := splitTopLevel(call.args, ',')
		if len(args) < 2 {
			reader.diag.warnf("discriminated union without options")
			return UnknownSchema()
		}

		return newUnion(reader.schemaList(args[1]))
	case "intersection":
		args, _ := splitTopLevel(call.args, ',')
		branches := make([]*Schema, 0, len(args))
		for _, arg := range args {
			branches = append(branches, reader.expression(arg).schema)
		}

		return newIntersection(branches)
	case "record":
		args, _ := splitTopLevel(call.args, ',')
		if len(args) == 0 {
			return &Schema{Kind: KindObject, AdditionalProperties: &AdditionalProperties{Allowed: true}}
		}

		value := reader.expression(args[len(args)-1]).schema
		return &Schema{Kind: KindObject, AdditionalProperties: &AdditionalProperties{Allowed: true, Schema: value}}
	default:
		reader.diag.warnf("unsupported notation constructor %q", call.name)
		return UnknownSchema()
	}
}

// object parses brace-delimited key:schema pairs.
func (reader *notationReader) object(call notationCall) *Schema {
	node := &Schema{Kind: KindObject}
	if call.name == "strictObject" {
		node.AdditionalProperties = &AdditionalProperties{Allowed: false}
	}

	body := strings.TrimSpace(firstArgument(call.args))
	if body == "" {
		return node
	}

	if !strings.HasPrefix(body, "{") || matchingClose(body, 0) != len(body)-1 {
		reader.diag.warnf("object shape must be brace-delimited: %q", body)
		return UnknownSchema()
	}

	entries, ok := splitTopLevel(body[1:len(body)-1], ',')
	if !ok {
		reader.diag.warnf("unbalanced object shape %q", body)
		return UnknownSchema()
	}

	for _, entry := range entries {
		colon := indexTopLevel(entry, ':')
		if colon <= 0 {
			reader.diag.warnf("object entry without key %q", entry)
			continue
		}

		key, optional := notationKey(entry[:colon])
		value := reader.expression(entry[colon+1:])
		if node.Properties == nil {
			node.Properties = newProperties()
		}

		node.Properties.Set(key, value.schema)
		if !optional && !value.optional {
			node.Required = append(node.Required, key)
		}
	}

	return node
}

// enum parses literal list into enum node.
func (reader *notationReader) enum(text string) *Schema {
	value, ok := parseLiteral(text)
	values := asSlice(value)
	if !ok || len(values) == 0 {
		reader.diag.warnf("enum without values degraded to string")
		return &Schema{Kind: KindString}
	}

	literals := make([]any, 0, len(values))
	for _, item := range values {
		if item != nil {
			literals = append(literals, item)
		}
	}

	if len(literals) == 0 {
		return NullSchema()
	}

	return &Schema{Kind: KindEnum, EnumValues: literals, ValueKind: inferEnumKind(literals)}
}

// schemaList parses bracket-delimited list of expressions.
func (reader *notationReader) schemaList(text string) []*Schema {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") && matchingClose(text, 0) == len(text)-1 {
		text = text[1 : len(text)-1]
	}

	items, ok := splitTopLevel(text, ',')
	if !ok {
		reader.diag.warnf("unbalanced schema list %q", text)
		return nil
	}

	out := make([]*Schema, 0, len(items))
	for _, item := range items {
		out = append(out, reader.expression(item).schema)
	}

	return out
}

// suffix applies one chained constraint call to node.
func (reader *notationReader) suffix(node *notationNode, call notationCall) {
	target := suffixTarget(node.schema)
	number, hasNumber := numberArgument(call.args)

	switch call.name {
	case "optional":
		node.optional = true
	case "nullable":
		node.schema = makeNullable(node.schema)
	case "nullish":
		node.optional = true
		node.schema = makeNullable(node.schema)
	case "default":
		if value, ok := parseLiteral(firstArgument(call.args)); ok && value != nil {
			target.Default = value
		}
	case "describe":
		if value, ok := parseLiteral(firstArgument(call.args)); ok {
			target.Description = asString(value)
		}
	case "array":
		// Optional elements do not make the list itself optional.
		node.schema = &Schema{Kind: KindArray, Items: node.schema}
		node.optional = false
	case "or":
		node.schema = newUnion([]*Schema{node.schema, reader.expression(firstArgument(call.args)).schema})
	case "and":
		node.schema = newIntersection([]*Schema{node.schema, reader.expression(firstArgument(call.args)).schema})
	case "int":
		if target.Kind == KindNumber {
			target.Kind = KindInteger
		}
	case "positive":
		target.ExclusiveMinimum = floatPtr(0)
	case "nonnegative":
		target.Minimum = floatPtr(0)
	case "negative":
		target.ExclusiveMaximum = floatPtr(0)
	case "nonpositive":
		target.Maximum = floatPtr(0)
	case "email", "uuid", "url", "date":
		target.Format = notationFormat(call.name)
	case "datetime":
		target.Format = FormatDateTime
	case "regex":
		if pattern, ok := regexArgument(call.args); ok {
			target.Pattern = pattern
		}
	case "nonempty":
		applyLowerBound(target, 1, false)
	case "min", "gte":
		if hasNumber {
			applyLowerBound(target, number, false)
		}
	case "gt":
		if hasNumber {
			applyLowerBound(target, number, true)
		}
	case "max", "lte":
		if hasNumber {
			applyUpperBound(target, number, false)
		}
	case "lt":
		if hasNumber {
			applyUpperBound(target, number, true)
		}
	case "length":
		if hasNumber {
			applyLowerBound(target, number, false)
			applyUpperBound(target, number, false)
		}
	case "trim", "toLowerCase", "toUpperCase", "finite", "safe", "strict", "passthrough", "strip", "readonly":
	default:
		reader.diag.warnf("unsupported notation suffix %q ignored", call.name)
	}
}

// applyLowerBound sets minimum, minLength or minItems depending on kind.
func applyLowerBound(schema *Schema, value float64, exclusive bool) {
	switch schema.Kind {
	case KindString:
		schema.MinLength = intPtr(int(value))
	case KindArray:
		schema.MinItems = intPtr(int(value))
	case KindNumber, KindInteger:
		if exclusive {
			schema.ExclusiveMinimum = floatPtr(value)
			return
		}

		schema.Minimum = floatPtr(value)
	}
}

// applyUpperBound sets maximum, maxLength or maxItems depending on kind.
func applyUpperBound(schema *Schema, value float64, exclusive bool) {
	switch schema.Kind {
	case KindString:
		schema.MaxLength = intPtr(int(value))
	case KindArray:
		schema.MaxItems = intPtr(int(value))
	case KindNumber, KindInteger:
		if exclusive {
			schema.ExclusiveMaximum = floatPtr(value)
			return
		}

		schema.Maximum = floatPtr(value)
	}
}

// suffixTarget returns non-null branch of nullable union, node itself otherwise.
func suffixTarget(schema *Schema) *Schema {
	if schema.isNullable() && len(schema.Branches) == 2 {
		if schema.Branches[0].Kind != KindNull {
			return schema.Branches[0]
		}

		return schema.Branches[1]
	}

	return schema
}

// makeNullable wraps schema into union with null branch once.
func makeNullable(schema *Schema) *Schema {
	switch {
	case schema.Kind == KindNull, schema.Kind == KindUnknown, schema.isNullable():
		return schema
	}

	return &Schema{Kind: KindUnion, Branches: []*Schema{schema, NullSchema()}}
}

// newIntersection builds intersection node, collapsing trivial branch lists.
func newIntersection(branches []*Schema) *Schema {
	switch len(branches) {
	case 0:
		return UnknownSchema()
	case 1:
		return branches[0]
	}

	return &Schema{Kind: KindIntersection, Branches: branches}
}

// notationFormat maps format suffix names onto string formats.
func notationFormat(name string) string {
	switch name {
	case "url":
		return FormatURI
	case "datetime":
		return FormatDateTime
	default:
		return name
	}
}

// notationKey unquotes object key and strips trailing optional marker.
func notationKey(text string) (string, bool) {
	text = strings.TrimSpace(text)
	optional := strings.HasSuffix(text, "?")
	text = strings.TrimSpace(strings.TrimSuffix(text, "?"))

	if value, ok := parseLiteral(text); ok {
		if key, isText := value.(string); isText {
			return key, optional
		}
	}

	return text, optional
}

// parseCallChain splits `z.name(args).suffix(args)...` into calls.
// Leading identifiers without arguments are namespaces and are skipped.
func parseCallChain(text string) ([]notationCall, bool) {
	var calls []notationCall
	position := 0

	for position < len(text) {
		start := position
		for position < len(text) && isIdentifierChar(text[position]) {
			position++
		}

		name := text[start:position]
		if name == "" {
			return nil, false
		}

		for position < len(text) && text[position] == ' ' {
			position++
		}

		switch {
		case position < len(text) && text[position] == '(':
			end := matchingClose(text, position)
			if end < 0 {
				return nil, false
			}

			calls = append(calls, notationCall{name: name, args: strings.TrimSpace(text[position+1 : end])})
			position = end + 1
		case len(calls) == 0 && position < len(text) && text[position] == '.':
		default:
			return nil, false
		}

		for position < len(text) && strings.ContainsRune(" \t\r\n", rune(text[position])) {
			position++
		}

		if position == len(text) {
			break
		}

		if text[position] != '.' {
			return nil, false
		}

		position++
		for position < len(text) && strings.ContainsRune(" \t\r\n", rune(text[position])) {
			position++
		}
	}

	return calls, true
}

// firstArgument returns first top-level call argument.
func firstArgument(args string) string {
	parts, ok := splitTopLevel(args, ',')
	if !ok || len(parts) == 0 {
		return ""
	}

	return parts[0]
}

// numberArgument parses first call argument as number.
func numberArgument(args string) (float64, bool) {
	value, ok := parseLiteral(firstArgument(args))
	if !ok || !isNumeric(value) {
		return 0, false
	}

	return asFloat(value)
}

// regexArgument extracts pattern source from regex literal or string argument.
func regexArgument(args string) (string, bool) {
	arg := firstArgument(args)
	if strings.HasPrefix(arg, "/") {
		end := strings.LastIndex(arg, "/")
		if end <= 0 {
			return "", false
		}

		return arg[1:end], true
	}

	if value, ok := parseLiteral(arg); ok {
		if pattern, isText := value.(string); isText {
			return pattern, true
		}
	}

	return "", false
}

// parseLiteral parses string, number, boolean, null, array and object literals.
func parseLiteral(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	switch text {
	case "true":
		return true, true
	case "false":
		return false, true
	case "null", "undefined":
		return nil, true
	}

	switch text[0] {
	case '"', '\'', '`':
		if quotedEnd(text, 0) != len(text)-1 {
			return nil, false
		}

		return unquoteLiteral(text), true
	case '[':
		if matchingClose(text, 0) != len(text)-1 {
			return nil, false
		}

		items, ok := splitTopLevel(text[1:len(text)-1], ',')
		if !ok {
			return nil, false
		}

		out := make([]any, 0, len(items))
		for _, item := range items {
			value, ok := parseLiteral(item)
			if !ok {
				return nil, false
			}

			out = append(out, value)
		}

		return out, true
	case '{':
		if matchingClose(text, 0) != len(text)-1 {
			return nil, false
		}

		entries, ok := splitTopLevel(text[1:len(text)-1], ',')
		if !ok {
			return nil, false
		}

		out := make(map[string]any, len(entries))
		for _, entry := range entries {
			colon := indexTopLevel(entry, ':')
			if colon <= 0 {
				return nil, false
			}

			key, _ := notationKey(entry[:colon])
			value, ok := parseLiteral(entry[colon+1:])
			if !ok {
				return nil, false
			}

			out[key] = value
		}

		return out, true
	}

	number, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return nil, false
	}

	return number, true
}

// unquoteLiteral removes quotes and resolves common escape sequences.
func unquoteLiteral(text string) string {
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var out strings.Builder
	for index := 0; index < len(body); index++ {
		char := body[index]
		if char != '\\' || index+1 >= len(body) {
			out.WriteByte(char)
			continue
		}

		index++
		switch body[index] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		default:
			out.WriteByte(body[index])
		}
	}

	return out.String()
}
