// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestParsePolicyJSONAndYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "json", data: `{"useDefault": true, "requiredOnly": true, "optionalsProbability": 0.25, "omitNulls": true}`},
		{name: "yaml", data: "useDefault: true\nrequiredOnly: true\noptionalsProbability: 0.25\nomitNulls: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy, err := ParsePolicy([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParsePolicy: %v", err)
			}

			if !policy.UseDefault || !policy.RequiredOnly || !policy.OmitNulls || policy.UseExamples {
				t.Fatalf("flags = %+v", policy)
			}

			if got := policy.OptionalsProbability.Value(); got != 0.25 {
				t.Fatalf("probability = %v, want 0.25", got)
			}
		})
	}
}

func TestParsePolicyProbabilityFallback(t *testing.T) {
	t.Parallel()

	for _, data := range []string{
		"",
		"{}",
		`{"optionalsProbability": false}`,
		`{"optionalsProbability": null}`,
		"optionalsProbability: false\n",
	} {
		policy, err := ParsePolicy([]byte(data))
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", data, err)
		}

		if policy.OptionalsProbability.IsSet() {
			t.Fatalf("ParsePolicy(%q) probability is set", data)
		}

		if got := policy.OptionalsProbability.Value(); got != defaultOptionalsProbability {
			t.Fatalf("ParsePolicy(%q) probability = %v, want %v", data, got, defaultOptionalsProbability)
		}
	}
}

func TestParsePolicyRejectsWrongTypes(t *testing.T) {
	t.Parallel()

	for _, data := range []string{
		`{"optionalsProbability": true}`,
		`{"optionalsProbability": "half"}`,
		`{"optionalsProbability": [1]}`,
		`{"useDefault": 3}`,
		`{"useDefaults": true}`,
		`[1, 2]`,
	} {
		_, err := ParsePolicy([]byte(data))
		if !errors.Is(err, ErrInvalidPolicy) {
			t.Fatalf("ParsePolicy(%q) error = %v, want ErrInvalidPolicy", data, err)
		}
	}
}

func TestProbabilityValueClamps(t *testing.T) {
	t.Parallel()

	tests := map[float64]float64{
		-0.5: 0,
		0:    0,
		0.4:  0.4,
		1:    1,
		7:    1,
	}

	for input, want := range tests {
		if got := ProbabilityOf(input).Value(); got != want {
			t.Fatalf("ProbabilityOf(%v).Value() = %v, want %v", input, got, want)
		}
	}
}

func TestProbabilityJSONCodec(t *testing.T) {
	t.Parallel()

	var policy Policy
	if err := json.Unmarshal([]byte(`{"optionalsProbability": 0.5}`), &policy); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	if got := policy.OptionalsProbability.Value(); got != 0.5 {
		t.Fatalf("probability = %v, want 0.5", got)
	}

	if err := json.Unmarshal([]byte(`{"optionalsProbability": false}`), &policy); err != nil {
		t.Fatalf("json.Unmarshal false: %v", err)
	}

	if policy.OptionalsProbability.IsSet() {
		t.Fatal("false must decode as unset")
	}

	data, err := json.Marshal(Policy{})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	if string(data) != `{"optionalsProbability":null}` {
		t.Fatalf("zero policy json = %s", data)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	overrides, err := ParseOverrides([]byte("name: demo\ncount: 3\ntags: [a, b]\n"))
	if err != nil {
		t.Fatalf("ParseOverrides: %v", err)
	}

	want := map[string]any{
		"name":  "demo",
		"count": float64(3),
		"tags":  []any{"a", "b"},
	}

	if !reflect.DeepEqual(overrides, want) {
		t.Fatalf("overrides = %#v, want %#v", overrides, want)
	}

	nested, err := ParseOverrides([]byte(`{"properties": {"a": 1}}`))
	if err != nil {
		t.Fatalf("ParseOverrides(nested): %v", err)
	}

	if !reflect.DeepEqual(nested, map[string]any{"properties": map[string]any{"a": float64(1)}}) {
		t.Fatalf("nested overrides = %#v", nested)
	}

	empty, err := ParseOverrides(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("ParseOverrides(nil) = %v, %v", empty, err)
	}
}

func TestParseOverridesRejectsNonObject(t *testing.T) {
	t.Parallel()

	for _, data := range []string{`[1, 2]`, `"text"`, `42`} {
		_, err := ParseOverrides([]byte(data))
		if !errors.Is(err, ErrOverridesNotObject) {
			t.Fatalf("ParseOverrides(%q) error = %v, want ErrOverridesNotObject", data, err)
		}
	}

	if _, err := CheckOverrides([]string{"a"}); !errors.Is(err, ErrOverridesNotObject) {
		t.Fatalf("CheckOverrides error = %v, want ErrOverridesNotObject", err)
	}
}
