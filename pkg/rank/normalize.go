package rank

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespace = runes.Predicate(func(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
})

// Normalize composes s to NFC, removes every white space rune and lower-cases
// the rest. Queries and catalog labels go through it before any comparison.
func Normalize(s string) string {
	// transform.Chain keeps buffers, so it is built per call.
	t := transform.Chain(norm.NFC, runes.Remove(whitespace))
	out, _, _ := transform.String(t, s)
	return strings.ToLower(out)
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
