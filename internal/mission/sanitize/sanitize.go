// Package sanitize normalizes raw generation output before it is accepted.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest acceptable output, in characters, after trimming.
const MinLength = 10

// Sanitize trims surrounding whitespace.
func Sanitize(raw string) string {
	return strings.TrimSpace(raw)
}

// IsValid rejects blank output and output shorter than MinLength after trimming.
func IsValid(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	return utf8.RuneCountInString(t) >= MinLength
}
