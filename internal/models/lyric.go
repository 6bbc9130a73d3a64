package models

import "time"

// LyricHit is a single search result from the lyric catalog.
type LyricHit struct {
	GeniusID   int
	Title      string
	ArtistName string
	URL        string
	PageViews  int
}

// LyricAnalysis holds attributes derived from one lyric page or its
// search hit metadata.
type LyricAnalysis struct {
	GeniusID           int
	GeniusURL          string
	Themes             []string
	SentimentScore     float64
	WordCount          int
	HasExplicitContent bool
	Language           string
	PopularityScore    int
}

// LyricMetadata is the persisted form of a lyric analysis, keyed by
// local track ID.
type LyricMetadata struct {
	TrackID            string
	GeniusID           int
	GeniusURL          string
	Themes             []string
	SentimentScore     float64
	WordCount          int
	HasExplicitContent bool
	Language           string
	PopularityScore    int
	FetchedAt          time.Time
}
