// Package hangul splits precomposed Hangul syllables into compatibility jamo.
package hangul

import "strings"

const (
	syllableBase  = 0xAC00
	syllableLast  = 0xD7A3
	trailingCount = 28
	vowelCount    = 21
)

// Leading holds the 19 initial consonants in syllable-index order.
var Leading = [19]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// Vowel holds the 21 medial vowels in syllable-index order.
var Vowel = [21]rune{
	'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ',
	'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ',
}

// Trailing holds the 27 final consonants. Index 0 means no final consonant.
var Trailing = [28]rune{
	0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ',
	'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// IsSyllable reports whether r is a precomposed syllable (U+AC00..U+D7A3).
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// Split decodes a syllable into its jamo. trail is 0 when the syllable has
// no final consonant. ok is false for anything that is not a syllable.
func Split(r rune) (lead, vowel, trail rune, ok bool) {
	if !IsSyllable(r) {
		return 0, 0, 0, false
	}
	offset := int(r - syllableBase)
	t := offset % trailingCount
	v := ((offset - t) / trailingCount) % vowelCount
	l := ((offset-t)/trailingCount - v) / vowelCount
	return Leading[l], Vowel[v], Trailing[t], true
}

// Decompose replaces every syllable in s by its two or three jamo and copies
// every other rune as is. No case folding or trimming happens here.
func Decompose(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		lead, vowel, trail, ok := Split(r)
		if !ok {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(lead)
		b.WriteRune(vowel)
		if trail != 0 {
			b.WriteRune(trail)
		}
	}
	return b.String()
}
