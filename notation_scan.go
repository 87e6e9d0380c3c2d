// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

package mockschema

import "strings"

// closers maps opening delimiters onto their closing pair.
var closers = map[byte]byte{
	'(': ')',
	'[': ']',
	'{': '}',
}

// scanTopLevel visits characters outside quoted strings and regex literals.
// Openers are visited at their outer depth, closers at the depth they return to.
// It stops early when visit returns false and reports whether the scanned text was balanced.
func scanTopLevel(text string, visit func(index int, char byte, depth int) bool) bool {
	stack := make([]byte, 0, 8)

	for index := 0; index < len(text); index++ {
		char := text[index]
		switch {
		case char == '"' || char == '\'' || char == '`':
			end := quotedEnd(text, index)
			if end < 0 {
				return false
			}

			index = end
			continue
		case char == '/' && regexStarts(text, index):
			end := regexEnd(text, index)
			if end < 0 {
				return false
			}

			index = end
			continue
		}

		if closer, opener := closers[char]; opener {
			if !visit(index, char, len(stack)) {
				return true
			}

			stack = append(stack, closer)
			continue
		}

		if char == ')' || char == ']' || char == '}' {
			if len(stack) == 0 || stack[len(stack)-1] != char {
				return false
			}

			stack = stack[:len(stack)-1]
			if !visit(index, char, len(stack)) {
				return true
			}

			continue
		}

		if !visit(index, char, len(stack)) {
			return true
		}
	}

	return len(stack) == 0
}

// matchingClose returns index of delimiter closing the opener at open, or -1.
func matchingClose(text string, open int) int {
	if open < 0 || open >= len(text) {
		return -1
	}

	if _, opener := closers[text[open]]; !opener {
		return -1
	}

	result := -1
	scanTopLevel(text[open:], func(index int, char byte, depth int) bool {
		if index > 0 && depth == 0 && (char == ')' || char == ']' || char == '}') {
			result = open + index
			return false
		}

		return true
	})

	return result
}

// splitTopLevel splits text at separator outside nested delimiters and literals.
// Empty parts, such as those left by trailing commas, are dropped.
func splitTopLevel(text string, separator byte) ([]string, bool) {
	var parts []string
	start := 0
	balanced := scanTopLevel(text, func(index int, char byte, depth int) bool {
		if char == separator && depth == 0 {
			parts = append(parts, text[start:index])
			start = index + 1
		}

		return true
	})

	if !balanced {
		return nil, false
	}

	parts = append(parts, text[start:])
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		out = append(out, part)
	}

	return out, true
}

// indexTopLevel returns first index of target outside nested delimiters and literals.
func indexTopLevel(text string, target byte) int {
	result := -1
	scanTopLevel(text, func(index int, char byte, depth int) bool {
		if char == target && depth == 0 {
			result = index
			return false
		}

		return true
	})

	return result
}

// quotedEnd returns index of quote closing the string that starts at start.
func quotedEnd(text string, start int) int {
	quote := text[start]
	for index := start + 1; index < len(text); index++ {
		switch text[index] {
		case '\\':
			index++
		case quote:
			return index
		}
	}

	return -1
}

// regexStarts reports whether slash at index opens a regex literal.
func regexStarts(text string, index int) bool {
	for prev := index - 1; prev >= 0; prev-- {
		switch text[prev] {
		case ' ', '\t', '\n', '\r':
			continue
		case '(', ',', '[', ':', '=', '|', '&', '!':
			return true
		default:
			return false
		}
	}

	return true
}

// regexEnd returns index of last character of regex literal, flags included.
func regexEnd(text string, start int) int {
	inClass := false
	for index := start + 1; index < len(text); index++ {
		switch text[index] {
		case '\\':
			index++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if inClass {
				continue
			}

			for index+1 < len(text) && isIdentifierChar(text[index+1]) {
				index++
			}

			return index
		}
	}

	return -1
}

// isIdentifierChar reports whether char can appear in notation identifier.
func isIdentifierChar(char byte) bool {
	return char == '_' || char == '$' ||
		(char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9')
}
