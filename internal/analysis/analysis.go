// package analysis extracts themes, sentiment, and content flags from lyric text
package analysis

import (
	"strings"

	"github.com/desertthunder/muse/internal/models"
)

// explicitMarkers flag a page as explicit when any of them appears in
// the text.
var explicitMarkers = []string{"explicit", "parental", "advisory"}

// Analyze derives lyric attributes from raw page text. Identification
// fields (genius id, url, popularity) are left for the caller to fill.
func Analyze(text string) models.LyricAnalysis {
	lower := strings.ToLower(text)

	hasExplicit := false
	for _, marker := range explicitMarkers {
		if strings.Contains(lower, marker) {
			hasExplicit = true
			break
		}
	}

	return models.LyricAnalysis{
		Themes:             DetectThemes(text),
		SentimentScore:     Sentiment(text),
		WordCount:          len(Tokenize(text)),
		HasExplicitContent: hasExplicit,
		Language:           "en",
	}
}

// ThematicSimilarity scores theme overlap between two analyses as the
// Jaccard ratio of their theme sets, with a small bonus when sentiment
// scores sit close together. Either side having no themes scores zero.
func ThematicSimilarity(a, b models.LyricAnalysis) float64 {
	if len(a.Themes) == 0 || len(b.Themes) == 0 {
		return 0
	}

	common := SharedThemes(a.Themes, b.Themes)

	unique := make(map[string]bool, len(a.Themes)+len(b.Themes))
	for _, theme := range a.Themes {
		unique[theme] = true
	}
	for _, theme := range b.Themes {
		unique[theme] = true
	}

	similarity := float64(len(common)) / float64(len(unique))

	sentimentDiff := a.SentimentScore - b.SentimentScore
	if sentimentDiff < 0 {
		sentimentDiff = -sentimentDiff
	}
	if sentimentDiff < 0.3 {
		similarity += 0.1
	}

	if similarity > 1 {
		return 1
	}
	return similarity
}
