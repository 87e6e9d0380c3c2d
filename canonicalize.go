// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// defaultMaxDepth truncates deep non-cyclic nesting to unknown.
const defaultMaxDepth = 64

const (
	// markerEnumItems carries internal tagged enum items.
	markerEnumItems = "x-enum-items"
	// markerPropertyOrder carries declaration order of properties keys.
	markerPropertyOrder = "x-property-order"
)

// SeenSet holds identities of raw fragments on the active canonicalization path.
type SeenSet map[uintptr]struct{}

// Diagnostics carries non-fatal warnings produced while reading schemas.
type Diagnostics struct {
	warnings []string
}

// HasWarnings reports whether any warning was recorded.
func (diag *Diagnostics) HasWarnings() bool {
	return diag != nil && len(diag.warnings) > 0
}

// Warnings returns a copy of recorded warnings.
func (diag *Diagnostics) Warnings() []string {
	if diag == nil {
		return nil
	}

	return append([]string(nil), diag.warnings...)
}

func (diag *Diagnostics) warnf(format string, args ...any) {
	if diag == nil {
		return
	}

	diag.warnings = append(diag.warnings, fmt.Sprintf(format, args...))
}

// Canonicalizer converts raw schema fragments into canonical schema trees.
//
// Finished nodes are shared between every position that reaches the same raw
// fragment, so definitions referenced from many places are converted once.
// Raw fragments must not change while canonicalizer is in use.
type Canonicalizer struct {
	fragments map[string]any
	diag      *Diagnostics
	cache     map[uintptr]cachedSchema
	maxDepth  int
	depth     int
	// cyclic reports that current subtree truncated a cycle.
	cyclic bool
	// clipped reports that current subtree hit the depth limit.
	clipped bool
}

// cachedSchema is finished node for one raw fragment.
type cachedSchema struct {
	raw   map[string]any
	node  *Schema
	depth int
	// depthBound nodes are valid only when reached at the same depth.
	depthBound bool
}

// NewCanonicalizer returns canonicalizer resolving references against named fragments.
func NewCanonicalizer(allRawByName map[string]any) *Canonicalizer {
	return &Canonicalizer{
		fragments: allRawByName,
		diag:      &Diagnostics{},
		cache:     make(map[uintptr]cachedSchema),
		maxDepth:  defaultMaxDepth,
	}
}

// SetMaxDepth limits nesting depth; values below one restore the default.
func (canon *Canonicalizer) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = defaultMaxDepth
	}

	canon.maxDepth = depth
	clear(canon.cache)
}

// Diagnostics returns warnings collected by all canonicalization calls.
func (canon *Canonicalizer) Diagnostics() *Diagnostics {
	return canon.diag
}

// Canonicalize converts one raw fragment, resolving references by name.
func Canonicalize(raw any, allRawByName map[string]any, seen SeenSet) *Schema {
	return NewCanonicalizer(allRawByName).Canonicalize(raw, seen)
}

// Canonicalize converts one raw fragment; seen may be nil.
func (canon *Canonicalizer) Canonicalize(raw any, seen SeenSet) *Schema {
	if seen == nil {
		seen = make(SeenSet)
	}

	return canon.canonicalize(raw, seen)
}

// canonicalize guards recursion, reuses finished fragments and dispatches conversion.
func (canon *Canonicalizer) canonicalize(raw any, seen SeenSet) *Schema {
	object := asMap(raw)
	if object == nil {
		return UnknownSchema()
	}

	if canon.depth >= canon.maxDepth {
		canon.diag.warnf("schema nesting deeper than %d truncated", canon.maxDepth)
		canon.clipped = true
		return UnknownSchema()
	}

	id := fragmentIdentity(object)
	if _, active := seen[id]; active {
		canon.diag.warnf("cyclic schema reference truncated")
		canon.cyclic = true
		return UnknownSchema()
	}

	if entry, ok := canon.cache[id]; ok && (!entry.depthBound || entry.depth == canon.depth) {
		return entry.node
	}

	outerCyclic, outerClipped := canon.cyclic, canon.clipped
	canon.cyclic, canon.clipped = false, false

	seen[id] = struct{}{}
	canon.depth++
	node := canon.convert(object, seen)
	canon.depth--
	delete(seen, id)

	// Truncated cycles depend on the active path, so such subtrees stay uncached.
	if !canon.cyclic {
		canon.cache[id] = cachedSchema{raw: object, node: node, depth: canon.depth, depthBound: canon.clipped}
	}

	canon.cyclic = outerCyclic || canon.cyclic
	canon.clipped = outerClipped || canon.clipped
	return node
}

// convert builds node for fragment that is already on the active path.
func (canon *Canonicalizer) convert(object map[string]any, seen SeenSet) *Schema {
	tagged, hasTag := object[markerEnumItems]
	order := asStringSlice(object[markerPropertyOrder])
	object = stripInternalMarkers(object)

	node, folded := canon.build(object, tagged, hasTag, order, seen)
	if !folded {
		node = foldNullable(node, object)
	}

	return node
}

// build converts marker-free fragment; folded reports whether nullable was already applied.
func (canon *Canonicalizer) build(object map[string]any, tagged any, hasTag bool, order []string, seen SeenSet) (*Schema, bool) {
	if ref := strings.TrimSpace(asString(object["$ref"])); ref != "" {
		return canon.resolveReference(ref, seen), false
	}

	if values, ok := enumLiterals(object, tagged, hasTag); ok {
		return canon.enumSchema(values, object), false
	}

	if branches := asSlice(object["allOf"]); len(branches) > 0 {
		return canon.intersectionSchema(object, branches, order, seen), false
	}

	for _, keyword := range []string{"oneOf", "anyOf"} {
		if branches := asSlice(object[keyword]); len(branches) > 0 {
			return canon.unionSchema(branches, seen), false
		}
	}

	if kinds := asStringSlice(object["type"]); len(kinds) > 0 {
		return canon.typeListSchema(object, kinds, order, seen), true
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(asString(object["type"]))))
	if kind == "" {
		kind = inferKind(object)
	}

	return canon.kindSchema(kind, object, order, seen), false
}

// resolveReference replaces reference by canonicalized target fragment.
func (canon *Canonicalizer) resolveReference(ref string, seen SeenSet) *Schema {
	name := referenceName(ref)
	target, ok := canon.fragments[name]
	if !ok || asMap(target) == nil {
		canon.diag.warnf("unresolved reference %q", ref)
		return UnknownSchema()
	}

	return canon.canonicalize(target, seen)
}

// intersectionSchema builds allOf composition with local shape as extra branch.
// Required names of local shape and inline branches are checked against the
// merged property set instead of each branch alone.
func (canon *Canonicalizer) intersectionSchema(object map[string]any, rawBranches []any, order []string, seen SeenSet) *Schema {
	required := asStringSlice(object["required"])
	branches := make([]*Schema, 0, len(rawBranches)+2)
	for _, raw := range rawBranches {
		if branchObject := asMap(raw); branchObject != nil {
			if ref := strings.TrimSpace(asString(branchObject["$ref"])); ref != "" {
				required = append(required, asStringSlice(asMap(canon.fragments[referenceName(ref)])["required"])...)
			} else if names := asStringSlice(branchObject["required"]); len(names) > 0 {
				required = append(required, names...)
				raw = withoutKey(branchObject, "required")
			}
		}

		branch := canon.canonicalize(raw, seen)
		if branch.Kind == KindUnknown {
			continue
		}

		branches = append(branches, branch)
	}

	if local := withoutKey(object, "required"); hasObjectShape(local) {
		node := canon.objectSchema(local, order, seen)
		for _, name := range mergeRequiredKeys(asStringSlice(object["required"]), nil) {
			if _, ok := node.Property(name); ok {
				node.Required = append(node.Required, name)
			}
		}

		branches = append([]*Schema{node}, branches...)
	}

	if extra := canon.requiredBranch(branches, required); extra != nil {
		branches = append(branches, extra)
	}

	switch len(branches) {
	case 0:
		return UnknownSchema()
	case 1:
		return branches[0]
	}

	node := &Schema{Kind: KindIntersection, Branches: branches}
	applyAnnotations(node, object)
	return node
}

// requiredBranch returns object branch marking names required by the whole
// intersection, or nil when branches already require all of them.
func (canon *Canonicalizer) requiredBranch(branches []*Schema, names []string) *Schema {
	names = mergeRequiredKeys(names, nil)
	if len(names) == 0 {
		return nil
	}

	properties, merged, _ := objectShape(&Schema{Kind: KindIntersection, Branches: branches})
	extra := &Schema{Kind: KindObject}
	for _, name := range names {
		property, ok := properties.Get(name)
		if !ok {
			canon.diag.warnf("required property %q has no schema", name)
			continue
		}

		if slices.Contains(merged, name) {
			continue
		}

		if extra.Properties == nil {
			extra.Properties = newProperties()
		}

		extra.Properties.Set(name, property)
		extra.Required = append(extra.Required, name)
	}

	if len(extra.Required) == 0 {
		return nil
	}

	return extra
}

// unionSchema builds anyOf/oneOf composition.
func (canon *Canonicalizer) unionSchema(rawBranches []any, seen SeenSet) *Schema {
	branches := make([]*Schema, 0, len(rawBranches))
	for _, raw := range rawBranches {
		branches = append(branches, canon.canonicalize(raw, seen))
	}

	return newUnion(branches)
}

// typeListSchema builds union over listed primitive kinds, folding nullable independently.
func (canon *Canonicalizer) typeListSchema(object map[string]any, kinds []string, order []string, seen SeenSet) *Schema {
	seenKinds := make(map[Kind]struct{}, len(kinds)+1)
	normalized := make([]Kind, 0, len(kinds)+1)
	for _, text := range kinds {
		kind := Kind(strings.ToLower(strings.TrimSpace(text)))
		if kind == "" {
			continue
		}

		if _, exists := seenKinds[kind]; exists {
			continue
		}

		seenKinds[kind] = struct{}{}
		normalized = append(normalized, kind)
	}

	if nullable, _ := asBool(object["nullable"]); nullable {
		if _, exists := seenKinds[KindNull]; !exists {
			normalized = append(normalized, KindNull)
		}
	}

	branches := make([]*Schema, 0, len(normalized))
	for _, kind := range normalized {
		branches = append(branches, canon.kindSchema(kind, object, order, seen))
	}

	return newUnion(branches)
}

// kindSchema builds node of selected kind from fragment keywords.
func (canon *Canonicalizer) kindSchema(kind Kind, object map[string]any, order []string, seen SeenSet) *Schema {
	var node *Schema
	switch kind {
	case KindString:
		node = &Schema{
			Kind:      KindString,
			Format:    strings.TrimSpace(asString(object["format"])),
			Pattern:   asString(object["pattern"]),
			MinLength: asIntPtr(object["minLength"]),
			MaxLength: asIntPtr(object["maxLength"]),
		}
	case KindNumber, KindInteger:
		node = &Schema{Kind: kind, Format: strings.TrimSpace(asString(object["format"]))}
		applyNumericBounds(node, object)
	case KindBoolean:
		node = &Schema{Kind: KindBoolean}
	case KindNull:
		return NullSchema()
	case KindArray:
		node = canon.arraySchema(object, seen)
	case KindObject:
		return canon.objectSchema(object, order, seen)
	default:
		if kind != KindUnknown {
			canon.diag.warnf("unsupported schema type %q", kind)
		}

		node = UnknownSchema()
	}

	applyAnnotations(node, object)
	return node
}

// arraySchema builds list or tuple node.
func (canon *Canonicalizer) arraySchema(object map[string]any, seen SeenSet) *Schema {
	node := &Schema{
		Kind:     KindArray,
		MinItems: asIntPtr(object["minItems"]),
		MaxItems: asIntPtr(object["maxItems"]),
	}

	if prefix := asSlice(object["prefixItems"]); len(prefix) > 0 {
		node.TupleItems = canon.canonicalizeList(prefix, seen)
		return node
	}

	switch items := object["items"].(type) {
	case []any:
		node.TupleItems = canon.canonicalizeList(items, seen)
	case map[string]any:
		node.Items = canon.canonicalize(items, seen)
	}

	return node
}

// objectSchema builds object node with ordered properties.
func (canon *Canonicalizer) objectSchema(object map[string]any, order []string, seen SeenSet) *Schema {
	node := &Schema{Kind: KindObject}
	rawProperties := asMap(object["properties"])
	if len(rawProperties) > 0 {
		node.Properties = newProperties()
		for _, name := range propertyOrder(order, rawProperties) {
			node.Properties.Set(name, canon.canonicalize(rawProperties[name], seen))
		}
	}

	node.Required = mergeRequiredKeys(asStringSlice(object["required"]), nil)

	switch additional := object["additionalProperties"].(type) {
	case bool:
		node.AdditionalProperties = &AdditionalProperties{Allowed: additional}
	case map[string]any:
		node.AdditionalProperties = &AdditionalProperties{
			Allowed: true,
			Schema:  canon.canonicalize(additional, seen),
		}
	}

	applyAnnotations(node, object)
	canon.sanitize(node)
	return node
}

// canonicalizeList converts each raw fragment in list.
func (canon *Canonicalizer) canonicalizeList(raws []any, seen SeenSet) []*Schema {
	out := make([]*Schema, 0, len(raws))
	for _, raw := range raws {
		out = append(out, canon.canonicalize(raw, seen))
	}

	return out
}

// sanitize enforces node invariants that raw fragments may violate.
func (canon *Canonicalizer) sanitize(node *Schema) {
	switch node.Kind {
	case KindObject:
		if len(node.Required) == 0 {
			node.Required = nil
			return
		}

		kept := make([]string, 0, len(node.Required))
		for _, name := range node.Required {
			if _, ok := node.Property(name); !ok {
				canon.diag.warnf("required property %q has no schema", name)
				continue
			}

			kept = append(kept, name)
		}

		if len(kept) == 0 {
			kept = nil
		}

		node.Required = kept
	case KindEnum:
		if node.ValueKind == "" {
			node.ValueKind = KindString
		}
	}
}

// applyNumericBounds copies numeric limits, converting boolean exclusive flags.
func applyNumericBounds(node *Schema, object map[string]any) {
	node.Minimum = asFloatPtr(object["minimum"])
	node.Maximum = asFloatPtr(object["maximum"])

	if exclusive, ok := asBool(object["exclusiveMinimum"]); ok {
		if exclusive && node.Minimum != nil {
			node.ExclusiveMinimum = node.Minimum
			node.Minimum = nil
		}
	} else {
		node.ExclusiveMinimum = asFloatPtr(object["exclusiveMinimum"])
	}

	if exclusive, ok := asBool(object["exclusiveMaximum"]); ok {
		if exclusive && node.Maximum != nil {
			node.ExclusiveMaximum = node.Maximum
			node.Maximum = nil
		}
	} else {
		node.ExclusiveMaximum = asFloatPtr(object["exclusiveMaximum"])
	}
}

// applyAnnotations copies documentation, default and examples keywords.
func applyAnnotations(node *Schema, object map[string]any) {
	if node.Kind == KindUnknown || node.Kind == KindNull {
		return
	}

	node.Title = strings.TrimSpace(asString(object["title"]))
	node.Description = strings.TrimSpace(asString(object["description"]))

	if value, ok := object["default"]; ok && value != nil {
		node.Default = literalCopy(value)
	}

	examples := asSlice(object["examples"])
	if value, ok := object["example"]; ok && value != nil {
		examples = append(slices.Clone(examples), value)
	}

	if len(examples) > 0 {
		node.Examples = make([]any, 0, len(examples))
		for _, example := range examples {
			node.Examples = append(node.Examples, literalCopy(example))
		}
	}
}

// foldNullable rewrites nullable flag into union with null branch.
func foldNullable(node *Schema, object map[string]any) *Schema {
	nullable, _ := asBool(object["nullable"])
	if !nullable {
		return node
	}

	switch node.Kind {
	case KindNull, KindUnknown:
		return node
	}

	if node.isNullable() {
		return node
	}

	return &Schema{Kind: KindUnion, Branches: []*Schema{node, NullSchema()}}
}

// newUnion builds union node, collapsing trivial branch lists.
func newUnion(branches []*Schema) *Schema {
	switch len(branches) {
	case 0:
		return UnknownSchema()
	case 1:
		return branches[0]
	}

	return &Schema{Kind: KindUnion, Branches: branches}
}

// inferKind guesses node kind from keyword shape when type is missing.
func inferKind(object map[string]any) Kind {
	switch {
	case hasObjectShape(object):
		return KindObject
	case hasAnyKey(object, "items", "prefixItems", "minItems", "maxItems"):
		return KindArray
	case hasAnyKey(object, "minLength", "maxLength", "pattern", "format"):
		return KindString
	case hasAnyKey(object, "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf"):
		return KindNumber
	default:
		return KindUnknown
	}
}

// hasObjectShape reports whether fragment declares object structure keywords.
func hasObjectShape(object map[string]any) bool {
	if strings.EqualFold(asString(object["type"]), string(KindObject)) {
		return true
	}

	return hasAnyKey(object, "properties", "required", "additionalProperties", "patternProperties")
}

func hasAnyKey(object map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := object[key]; ok {
			return true
		}
	}

	return false
}

// stripInternalMarkers returns shallow copy without extension and internal marker keys.
func stripInternalMarkers(object map[string]any) map[string]any {
	out := make(map[string]any, len(object))
	for key, value := range object {
		if strings.HasPrefix(key, "x-") {
			continue
		}

		out[key] = value
	}

	return out
}

// withoutKey returns shallow copy of object without key, or object itself when key is absent.
func withoutKey(object map[string]any, key string) map[string]any {
	if _, ok := object[key]; !ok {
		return object
	}

	out := make(map[string]any, len(object))
	for name, value := range object {
		if name != key {
			out[name] = value
		}
	}

	return out
}

// fragmentIdentity returns identity of raw fragment map.
func fragmentIdentity(object map[string]any) uintptr {
	return reflect.ValueOf(object).Pointer()
}

// referenceName extracts definition name from reference pointer.
func referenceName(ref string) string {
	ref = strings.TrimSpace(ref)
	if index := strings.LastIndex(ref, "/"); index >= 0 {
		ref = ref[index+1:]
	}

	ref = strings.TrimPrefix(ref, "#")
	return decodeJSONPointerToken(ref)
}

// decodeJSONPointerToken unescapes one JSON pointer token.
func decodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// propertyOrder returns declared order first, then remaining property names sorted.
func propertyOrder(declared []string, properties map[string]any) []string {
	out := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))

	for _, name := range declared {
		if _, ok := properties[name]; !ok {
			continue
		}

		if _, exists := seen[name]; exists {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	rest := make([]string, 0, len(properties))
	for name := range properties {
		if _, exists := seen[name]; exists || name == markerPropertyOrder {
			continue
		}

		rest = append(rest, name)
	}

	sort.Strings(rest)
	return append(out, rest...)
}

// mergeRequiredKeys appends unique required keys while preserving first-seen order.
func mergeRequiredKeys(left, right []string) []string {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))

	for _, key := range slices.Concat(left, right) {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}
