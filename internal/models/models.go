// package models defines the data model for the muse library assistant
package models

import (
	"fmt"
	"time"
)

// Scope selects which local tracks participate in candidate selection.
type Scope string

const (
	ScopeLikedSongs Scope = "liked_songs"
	ScopeAllMusic   Scope = "all_music"
)

// Valid reports whether s is a recognized scope.
func (s Scope) Valid() bool {
	return s == ScopeLikedSongs || s == ScopeAllMusic
}

// User represents an account owning a liked-song collection.
type User struct {
	ID          string
	SpotifyID   string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks required user fields.
func (u *User) Validate() error {
	if u.SpotifyID == "" {
		return fmt.Errorf("user spotify_id is required")
	}
	return nil
}

// Artist represents catalog metadata for a performer.
type Artist struct {
	ID         string
	SpotifyID  string
	Name       string
	Genres     []string
	Popularity int
	CreatedAt  time.Time
}

// Album represents catalog metadata for a release.
type Album struct {
	ID          string
	SpotifyID   string
	Name        string
	ArtistID    string
	ReleaseDate string
	ImageURL    string
	CreatedAt   time.Time
}

// Track represents a song in the local library. ArtistName and AlbumName
// are populated on reads that join the catalog tables; writes go through
// ArtistID and AlbumID.
type Track struct {
	ID                  string
	SpotifyID           string
	Name                string
	ArtistID            string
	ArtistName          string
	AlbumID             string
	AlbumName           string
	DurationMS          int
	Popularity          int
	PreviewURL          string
	Features            FeatureVector
	AudioFeaturesSynced bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks required track fields.
func (t *Track) Validate() error {
	if t.SpotifyID == "" {
		return fmt.Errorf("track spotify_id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("track name is required")
	}
	return nil
}

// TrackRef is the minimal identity needed to fetch external data for a track.
type TrackRef struct {
	ID         string
	SpotifyID  string
	Name       string
	ArtistName string
}

// LikedSong pairs a track with the time the user liked it.
type LikedSong struct {
	Track   Track
	LikedAt time.Time
}
