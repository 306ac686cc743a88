// Package similarity measures how close two strings are using Levenshtein
// edit distance normalized to [0,1].
package similarity

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// Ratio returns 1 - Distance(a, b) / max(len(a), len(b)), lengths in runes.
// Two empty strings are identical and score 1.
func Ratio(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Distance(a, b))/float64(maxLen)
}
