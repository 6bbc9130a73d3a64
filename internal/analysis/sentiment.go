package analysis

import (
	"strings"

	"github.com/desertthunder/muse/internal/shared"
)

// sentimentLexicon assigns valence scores to common lyric vocabulary,
// AFINN-style: negative words score below zero, positive above, with
// magnitude up to 4.
var sentimentLexicon = map[string]float64{
	// positive
	"love": 3, "loved": 3, "loving": 3, "adore": 3, "beautiful": 3,
	"wonderful": 4, "amazing": 4, "great": 3, "good": 3, "happy": 3,
	"happiness": 3, "smile": 2, "laugh": 2, "sweet": 2, "shine": 2,
	"bright": 2, "dream": 1, "dreams": 1, "hope": 2, "believe": 2,
	"faith": 2, "heaven": 2, "free": 1, "alive": 2, "dance": 1,
	"party": 1, "celebrate": 3, "forever": 1, "together": 2, "warm": 1,
	"gold": 1, "golden": 1, "paradise": 3, "perfect": 3, "strong": 2,
	"win": 2, "winning": 2, "rich": 1, "blessed": 3, "glory": 2,

	// negative
	"hate": -3, "hated": -3, "broken": -2, "break": -1, "cry": -2,
	"crying": -2, "tears": -2, "pain": -2, "hurt": -2, "hurts": -2,
	"alone": -2, "lonely": -2, "goodbye": -1, "lost": -2, "lose": -2,
	"losing": -2, "dead": -3, "death": -3, "die": -3, "dying": -3,
	"kill": -3, "dark": -1, "darkness": -2, "cold": -1, "fear": -2,
	"afraid": -2, "scared": -2, "sorrow": -3, "sad": -2, "sadness": -2,
	"misery": -3, "miserable": -3, "wrong": -2, "fall": -1, "falling": -1,
	"fight": -1, "war": -2, "battle": -1, "struggle": -2, "poor": -2,
	"broke": -2, "empty": -2, "nothing": -1, "never": -1, "leave": -1,
}

// Sentiment averages lexicon scores over tokens longer than three
// characters and clamps the result to [-1, 1]. Text with no qualifying
// tokens scores zero.
func Sentiment(text string) float64 {
	tokens := Tokenize(text)

	var sum float64
	count := 0
	for _, token := range tokens {
		if len(token) <= 3 {
			continue
		}
		count++
		sum += sentimentLexicon[token]
	}

	if count == 0 {
		return 0
	}

	return shared.Clamp(sum/float64(count), -1, 1)
}

// Tokenize lowercases text and splits it into alphanumeric word tokens.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '\''
	})
}
