// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse recovers assignment records from the first-page text of an
// academic document. It applies ordered pattern rules to the document's
// lines; unmatched input degrades to sentinel values rather than errors.
package parse

import "strings"

// Lines splits page text into trimmed, non-empty lines in source order.
// Empty text yields no lines.
func Lines(text string) []string {
	var lines []string
	for _, raw := range strings.FieldsFunc(text, isLineBreak) {
		if l := strings.TrimSpace(raw); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\f', '\v', '\u2028', '\u2029':
		return true
	}
	return false
}
