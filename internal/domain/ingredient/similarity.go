package ingredient

import (
	"strings"
	"unicode"
)

// Similarity scores two strings in [0, 1], 1 meaning identical.
type Similarity func(a, b string) float64

// TrigramSimilarity is the default Similarity. It follows the pg_trgm
// similarity() definition: text is lowercased and split into words on
// non-alphanumeric runes, each word is padded with two leading blanks and one
// trailing blank, and the score is the size of the intersection of the two
// trigram sets divided by the size of their union.
func TrigramSimilarity(a, b string) float64 {
	ta := Trigrams(a)
	tb := Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			common++
		}
	}

	return float64(common) / float64(len(ta)+len(tb)-common)
}

// Trigrams returns the distinct trigrams of s.
func Trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range words(s) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
