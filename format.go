// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import (
	"strings"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
)

const (
	// FormatUUID is the identifier-like string format.
	FormatUUID = "uuid"
	// FormatEmail is the address-like string format.
	FormatEmail = "email"
	// FormatURI is the locator-like string format.
	FormatURI = "uri"
	// FormatDate is the calendar-date string format.
	FormatDate = "date"
	// FormatDateTime is the timestamp string format.
	FormatDateTime = "date-time"
	// FormatPhone is the telephone-like string format.
	FormatPhone = "phone"
)

// dateTimeLayout renders timestamps with millisecond precision in UTC.
const dateTimeLayout = "2006-01-02T15:04:05.000Z"

// formatLiterals holds fixed representatives for known string formats.
var formatLiterals = map[string]string{
	FormatUUID:     "550e8400-e29b-41d4-a716-446655440000",
	FormatEmail:    "user@example.com",
	FormatURI:      "https://example.com",
	FormatDate:     "2024-01-01",
	FormatDateTime: "2024-01-01T00:00:00.000Z",
	FormatPhone:    "+15551234567",
}

// formatAliases maps format spellings onto known formats.
var formatAliases = map[string]string{
	"guid":          FormatUUID,
	"idn-email":     FormatEmail,
	"url":           FormatURI,
	"uri-reference": FormatURI,
	"iri":           FormatURI,
	"datetime":      FormatDateTime,
	"tel":           FormatPhone,
	"telephone":     FormatPhone,
	"phone-number":  FormatPhone,
	"e164":          FormatPhone,
}

// FormatLiteral returns fixed representative string for known format.
func FormatLiteral(format string) (string, bool) {
	value, ok := formatLiterals[normalizeFormat(format)]
	return value, ok
}

// normalizeFormat resolves format aliases; unknown formats return lowercase input.
func normalizeFormat(format string) string {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := formatAliases[normalized]; ok {
		return alias
	}

	return normalized
}

// patternString generates string matching pattern from seeded generator.
func patternString(pattern string, seed int64) (string, bool) {
	if strings.TrimSpace(pattern) == "" {
		return "", false
	}

	params := gopter.DefaultGenParameters().CloneWithSeed(seed)
	value, ok := gen.RegexMatch(pattern)(params).Retrieve()
	if !ok {
		return "", false
	}

	text, ok := value.(string)
	return text, ok
}
