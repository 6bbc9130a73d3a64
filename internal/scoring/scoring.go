// package scoring ranks tracks by weighted audio-feature similarity
package scoring

import (
	"math"

	"github.com/desertthunder/muse/internal/models"
)

// Feature weights. Continuous features dominate; categorical key and
// mode act as tie-breakers.
const (
	weightDanceability     = 0.20
	weightEnergy           = 0.20
	weightValence          = 0.15
	weightAcousticness     = 0.15
	weightTempo            = 0.10
	weightKey              = 0.05
	weightMode             = 0.05
	weightSpeechiness      = 0.05
	weightInstrumentalness = 0.03
	weightLiveness         = 0.02
)

// tempoRange is the BPM difference at which tempo similarity bottoms out.
const tempoRange = 100.0

// popularityCeiling normalizes blended popularity for the fallback
// score; lyric page popularity runs into the tens of thousands.
const popularityCeiling = 50000.0

// Score computes weighted similarity between two feature vectors in
// [0, 1]. Only dimensions present on both sides participate, and the
// result is normalized by the weight that participated. Two vectors
// sharing no dimensions score zero.
func Score(a, b models.FeatureVector) float64 {
	var total, weight float64

	continuous := []struct {
		a, b *float64
		w    float64
	}{
		{a.Danceability, b.Danceability, weightDanceability},
		{a.Energy, b.Energy, weightEnergy},
		{a.Valence, b.Valence, weightValence},
		{a.Acousticness, b.Acousticness, weightAcousticness},
		{a.Speechiness, b.Speechiness, weightSpeechiness},
		{a.Instrumentalness, b.Instrumentalness, weightInstrumentalness},
		{a.Liveness, b.Liveness, weightLiveness},
	}

	for _, f := range continuous {
		if f.a == nil || f.b == nil {
			continue
		}
		total += (1 - math.Abs(*f.a-*f.b)) * f.w
		weight += f.w
	}

	if a.Tempo != nil && b.Tempo != nil {
		total += TempoSimilarity(*a.Tempo, *b.Tempo) * weightTempo
		weight += weightTempo
	}

	if a.Key != nil && b.Key != nil {
		if *a.Key == *b.Key {
			total += weightKey
		}
		weight += weightKey
	}

	if a.Mode != nil && b.Mode != nil {
		if *a.Mode == *b.Mode {
			total += weightMode
		}
		weight += weightMode
	}

	if weight == 0 {
		return 0
	}
	return total / weight
}

// TempoSimilarity maps a BPM difference onto [0, 1]: identical tempos
// score 1, anything tempoRange apart or more scores 0.
func TempoSimilarity(a, b float64) float64 {
	return math.Max(0, 1-math.Abs(a-b)/tempoRange)
}

// PopularityFallback converts a blended popularity figure into a
// stand-in similarity score for candidates with no feature data.
func PopularityFallback(combined float64) float64 {
	return math.Min(combined/popularityCeiling, 1.0)
}

// AverageVector builds a seed profile by averaging the core scoring
// dimensions across the given vectors. Each dimension averages over the
// vectors that carry it; dimensions no vector carries stay absent.
func AverageVector(vectors []models.FeatureVector) models.FeatureVector {
	var avg models.FeatureVector

	avg.Danceability = meanOf(vectors, func(v models.FeatureVector) *float64 { return v.Danceability })
	avg.Energy = meanOf(vectors, func(v models.FeatureVector) *float64 { return v.Energy })
	avg.Valence = meanOf(vectors, func(v models.FeatureVector) *float64 { return v.Valence })
	avg.Acousticness = meanOf(vectors, func(v models.FeatureVector) *float64 { return v.Acousticness })
	avg.Tempo = meanOf(vectors, func(v models.FeatureVector) *float64 { return v.Tempo })

	return avg
}

func meanOf(vectors []models.FeatureVector, pick func(models.FeatureVector) *float64) *float64 {
	var sum float64
	count := 0
	for _, v := range vectors {
		if value := pick(v); value != nil {
			sum += *value
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}
