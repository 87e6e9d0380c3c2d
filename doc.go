// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

/*
Package mockschema synthesizes mock payloads from JSON Schema fragments and
zod-style constraint notation.

Raw fragments are canonicalized into a closed set of schema kinds, deduplicated
by structural hash in a Registry, and walked by a synthesis engine that asks a
Strategy for every choice the schema leaves open. Deterministic output is the
default; Randomized draws from an injected source.

Compile fragments from an OpenAPI or JSON Schema document:

	data, err := os.ReadFile("openapi.yaml")
	if err != nil {
		return err
	}

	fragments, err := mockschema.LoadFragments(data)
	if err != nil {
		return err
	}

	registry, symbols, diag := mockschema.Compile(fragments)
	for _, warning := range diag.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	user, err := registry.Generate(symbols["User"], mockschema.Policy{
		UseExamples:            true,
		AlwaysIncludeOptionals: true,
	}, mockschema.Deterministic{}, nil)
	if err != nil {
		return err
	}

Override root properties with a builder:

	builder, err := registry.Builder(symbols["User"])
	if err != nil {
		return err
	}

	if err := builder.Set("email", "demo@example.com"); err != nil {
		return err
	}

	value := builder.Build(mockschema.Policy{}, mockschema.NewSeededRandomized(42))

Synthesize from constraint notation:

	value := mockschema.SynthesizeNotation(
		`z.object({ id: z.string().uuid(), age: z.number().int().min(18).optional() })`,
		mockschema.Policy{RequiredOnly: true},
		nil,
		nil,
	)

Encode payload with schema-ordered keys and YAML comments:

	out, err := mockschema.Encode(value, schema, mockschema.OutputYAML)
	if err != nil {
		return err
	}

	fmt.Print(string(out))

Reflect a Go type instead of reading a document:

	fragments, name, err := mockschema.FragmentsFromValue(&Config{})
	if err != nil {
		return err
	}

	registry, symbols, _ := mockschema.Compile(fragments)
	value, err := registry.Generate(symbols[name], mockschema.Policy{}, nil, nil)
*/
package mockschema
