// Package utils provides small text helpers shared across pipeline stages.
package utils

import "strings"

// CleanText removes leading and trailing whitespace. Free-text fields pass
// through this before any comparison or persistence.
func CleanText(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeWhitespace collapses runs of whitespace into single spaces.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to maxLength bytes, appending an ellipsis marker when
// truncation happened.
func Truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}

	return s[:maxLength] + "..."
}

// IsNullToken reports whether s is an explicit textual null ("null" or "nan")
// or blank after trimming, case-insensitive.
func IsNullToken(s string) bool {
	trimmed := strings.TrimSpace(s)

	return trimmed == "" || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "nan")
}
