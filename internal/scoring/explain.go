package scoring

import (
	"math"
	"strings"

	"github.com/desertthunder/muse/internal/models"
)

// FallbackReason explains a popularity-based score.
const FallbackReason = "Based on popularity and genre matching"

// Reasons lists the concrete similarities between two feature vectors.
// A dimension only contributes when present on both sides.
func Reasons(a, b models.FeatureVector) []string {
	var reasons []string

	if bothWithin(a.Energy, b.Energy, 0.2) {
		reasons = append(reasons, "similar energy levels")
	}
	if bothWithin(a.Danceability, b.Danceability, 0.2) {
		reasons = append(reasons, "matching danceability")
	}
	if bothWithin(a.Valence, b.Valence, 0.2) {
		reasons = append(reasons, "similar mood/valence")
	}
	if bothWithin(a.Acousticness, b.Acousticness, 0.3) {
		reasons = append(reasons, "comparable acoustic elements")
	}
	if bothWithin(a.Tempo, b.Tempo, 20) {
		reasons = append(reasons, "similar tempo")
	}
	if a.Key != nil && b.Key != nil && *a.Key == *b.Key {
		reasons = append(reasons, "same musical key")
	}

	return reasons
}

// Explain renders a human-readable explanation for a similarity score.
// With no concrete reasons it falls back to a phrase keyed off the
// score band.
func Explain(a, b models.FeatureVector, score float64) string {
	reasons := Reasons(a, b)

	if len(reasons) == 0 {
		switch {
		case score > 0.8:
			return "Strong overall musical similarity"
		case score > 0.6:
			return "Good musical compatibility"
		default:
			return "Some shared musical characteristics"
		}
	}

	var phrase string
	switch len(reasons) {
	case 1:
		phrase = reasons[0]
	case 2:
		phrase = reasons[0] + " and " + reasons[1]
	default:
		phrase = strings.Join(reasons[:len(reasons)-1], ", ") + ", and " + reasons[len(reasons)-1]
	}

	return strings.ToUpper(phrase[:1]) + phrase[1:]
}

func bothWithin(a, b *float64, delta float64) bool {
	return a != nil && b != nil && math.Abs(*a-*b) < delta
}
