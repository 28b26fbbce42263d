package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Sanitize strips non-ASCII characters and NUL bytes and escapes bare ampersands.
// Already escaped ampersands are left alone, so Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) (clean string) {
	strip := runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII || r == 0
	}))

	clean, _, err := transform.String(strip, s)
	if err != nil {
		clean = stripFallback(s)
	}

	clean = escapeBare(clean, '&')
	return clean
}

// EscapePercent escapes bare percent signs, which LaTeX reads as comments.
func EscapePercent(s string) (escaped string) {
	escaped = escapeBare(s, '%')
	return escaped
}

// escapeBare prefixes every c that is not already preceded by a backslash.
func escapeBare(s string, c byte) (escaped string) {
	if strings.IndexByte(s, c) == -1 {
		escaped = s
		return escaped
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == c && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}

	escaped = b.String()
	return escaped
}

// stripFallback drops the same characters byte by byte when the transformer fails.
func stripFallback(s string) (clean string) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != 0 && s[i] <= unicode.MaxASCII {
			b.WriteByte(s[i])
		}
	}
	clean = b.String()
	return clean
}
