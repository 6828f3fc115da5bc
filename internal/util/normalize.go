package util

import "strings"

// NormalizeEmail trims surrounding whitespace and lowercases an address.
// Every email that is stored or queried goes through here.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DigitsOnly drops every non-digit rune
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate cuts s to at most n bytes without splitting a rune
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
