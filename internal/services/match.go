package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// matchThreshold is the minimum similarity ratio for a title or artist
// to count as matching when neither string contains the other.
const matchThreshold = 0.6

// NormalizeText lowercases text, strips everything but letters, digits,
// and spaces, and collapses runs of whitespace.
func NormalizeText(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity computes a [0, 1] ratio from the Levenshtein distance
// between two strings, relative to the longer one. Lengths count runes
// to match the distance metric. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longer, shorter := a, b
	if utf8.RuneCountInString(b) > utf8.RuneCountInString(a) {
		longer, shorter = b, a
	}

	longerLen := utf8.RuneCountInString(longer)
	if longerLen == 0 {
		return 1.0
	}

	distance := fuzzy.LevenshteinDistance(longer, shorter)
	return float64(longerLen-distance) / float64(longerLen)
}

// fieldMatches accepts a candidate field when either normalized string
// contains the other, or their similarity clears [matchThreshold].
func fieldMatches(candidate, query string) bool {
	return strings.Contains(candidate, query) ||
		strings.Contains(query, candidate) ||
		Similarity(candidate, query) > matchThreshold
}

// IsGoodMatch reports whether a catalog hit's title and artist both
// match the searched track. Both fields must pass; a matching title on
// the wrong artist is rejected.
func IsGoodMatch(hitTitle, hitArtist, searchTitle, searchArtist string) bool {
	title := fieldMatches(NormalizeText(hitTitle), NormalizeText(searchTitle))
	artist := fieldMatches(NormalizeText(hitArtist), NormalizeText(searchArtist))
	return title && artist
}
