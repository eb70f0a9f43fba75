package service

import (
	"html"
	"strings"
)

// SanitizeCredential defensively cleans an externally supplied token value
// before it is used in any store comparison or echoed back. Every channel
// value is untrusted output as well as untrusted input: control characters
// are stripped and HTML metacharacters escaped. A well-formed token (drawn
// from the alphanumeric alphabet) passes through unchanged.
func SanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}

	return html.EscapeString(b.String())
}
