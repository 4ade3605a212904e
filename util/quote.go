package util

import "strings"

// NeedsQuote reports whether s must be quoted to survive re-splitting - the
// empty string and anything containing whitespace.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}

	return strings.ContainsAny(s, " \t\n")
}

// QuoteIfNeeded wraps s in double quotes when NeedsQuote holds, otherwise
// returns s unchanged.
func QuoteIfNeeded(s string) string {
	if NeedsQuote(s) {
		return `"` + s + `"`
	}

	return s
}
