package analysis

import "strings"

// themeKeywords maps each theme to the keywords that signal it. A theme
// is asserted only when at least two of its keywords appear in the text.
var themeKeywords = map[string][]string{
	"love":       {"love", "heart", "kiss", "romance", "together", "forever", "baby", "honey"},
	"heartbreak": {"broken", "cry", "tears", "goodbye", "miss", "alone", "hurt", "pain"},
	"party":      {"party", "dance", "club", "drink", "tonight", "celebrate", "fun"},
	"nostalgia":  {"remember", "memories", "past", "yesterday", "childhood", "miss", "used to"},
	"freedom":    {"free", "escape", "run", "away", "break", "chains", "liberty"},
	"money":      {"money", "cash", "rich", "poor", "dollar", "wealth", "broke"},
	"family":     {"mother", "father", "mom", "dad", "sister", "brother", "family", "home"},
	"friendship": {"friend", "together", "crew", "team", "buddy", "pal"},
	"struggle":   {"fight", "battle", "hard", "difficult", "struggle", "survive"},
	"hope":       {"hope", "dream", "future", "tomorrow", "believe", "faith"},
	"nature":     {"sun", "moon", "stars", "sky", "ocean", "mountain", "tree", "rain"},
	"city":       {"city", "street", "downtown", "urban", "lights", "traffic"},
	"spiritual":  {"god", "pray", "heaven", "soul", "spirit", "faith", "believe"},
	"rebellion":  {"rebel", "fight", "system", "change", "revolution", "protest"},
}

// themeThreshold is the minimum number of distinct keyword hits required
// to assert a theme.
const themeThreshold = 2

// DetectThemes returns the themes whose keywords appear at least
// [themeThreshold] times in the lowercased text. Results are sorted for
// stable output.
func DetectThemes(text string) []string {
	lower := strings.ToLower(text)

	var detected []string
	for _, theme := range themeOrder {
		hits := 0
		for _, keyword := range themeKeywords[theme] {
			if strings.Contains(lower, keyword) {
				hits++
			}
		}
		if hits >= themeThreshold {
			detected = append(detected, theme)
		}
	}

	return detected
}

// themeOrder fixes iteration order over themeKeywords.
var themeOrder = []string{
	"love", "heartbreak", "party", "nostalgia", "freedom", "money", "family",
	"friendship", "struggle", "hope", "nature", "city", "spiritual", "rebellion",
}

// SharedThemes returns the themes present in both lists, preserving the
// order of the first.
func SharedThemes(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, theme := range b {
		set[theme] = true
	}

	var shared []string
	for _, theme := range a {
		if set[theme] {
			shared = append(shared, theme)
		}
	}
	return shared
}
