package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// CollapseWhitespace replaces runs of whitespace with a single space and
// trims the result.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// RemoveControlChars drops control characters, keeping common whitespace.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// StripMarkup removes HTML/XML tags from text intended for storage or
// display. Tag removal repeats until the text stops changing, so nested
// fragments like "<<b>script>" cannot reassemble into a tag and re-running
// the transform is a no-op.
func StripMarkup(s string) string {
	for {
		stripped := htmlTagRegex.ReplaceAllString(s, "")
		if stripped == s {
			return stripped
		}
		s = stripped
	}
}
