package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SanitizeString trims whitespace and escapes HTML
func SanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizePhone reduces a phone number to its digits and an optional leading
// plus, so "+1 (555) 010-0000" and "+15550100000" are the same account.
func SanitizePhone(phone string) string {
	phone = stripHTML(strings.TrimSpace(phone))

	var result strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeText sanitizes multi-line text input
func SanitizeText(input string) string {
	escaped := html.EscapeString(strings.TrimSpace(input))

	// Remove any control characters except newlines and tabs
	var result strings.Builder
	for _, r := range escaped {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeOptional applies fn to a present value and leaves nil alone.
func SanitizeOptional(value *string, fn func(string) string) *string {
	if value == nil {
		return nil
	}
	sanitized := fn(*value)
	return &sanitized
}

func stripHTML(input string) string {
	return htmlTag.ReplaceAllString(input, "")
}
