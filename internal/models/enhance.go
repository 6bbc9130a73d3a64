package models

import "time"

// Recommendation pairs a candidate track with its similarity score and
// the reasons the score was awarded.
type Recommendation struct {
	Track   Track
	Score   float64
	Reasons []string
}

// EnhancedPlaylist tracks how many times a playlist has been enhanced.
type EnhancedPlaylist struct {
	ID                string
	UserID            string
	SpotifyPlaylistID string
	Name              string
	EnhancementCount  int
	LastEnhancedAt    time.Time
	CreatedAt         time.Time
}

// EnhancementSession records one enhancement run. RecommendedTrackIDs
// is what the run suggested; AddedTrackIDs is the subset the user
// accepted afterwards, and only ever grows.
type EnhancementSession struct {
	ID                  string
	UserID              string
	PlaylistID          string
	SeedTrackIDs        []string
	RecommendedTrackIDs []string
	AddedTrackIDs       []string
	Scope               Scope
	CreatedAt           time.Time
}
