// package services defines interfaces for the external catalogs muse syncs from
//
// Spotify (audio features, saved tracks), Genius (lyric metadata)
package services

import (
	"context"

	"github.com/desertthunder/muse/internal/models"
)

// AudioFeatureSource fetches audio feature vectors for batches of tracks.
type AudioFeatureSource interface {
	// GetAudioFeatures retrieves feature vectors for up to 100 tracks,
	// keyed by their Spotify ID. IDs the catalog does not know are
	// simply absent from the map.
	GetAudioFeatures(ctx context.Context, spotifyIDs []string) (map[string]models.FeatureVector, error)
}

// LyricSource searches the lyric catalog and derives per-song analyses.
type LyricSource interface {
	// SearchSong returns catalog hits that pass the title/artist match
	// gate, best match first. An empty slice means no acceptable match.
	SearchSong(ctx context.Context, title, artist string) ([]models.LyricHit, error)

	// FetchAnalysis loads the hit's lyric page and derives themes,
	// sentiment, and content flags from it.
	FetchAnalysis(ctx context.Context, hit models.LyricHit) (*models.LyricAnalysis, error)
}

// LibrarySource pulls the user's saved tracks from the primary catalog.
type LibrarySource interface {
	// SavedTracks retrieves one page of the user's saved tracks.
	SavedTracks(ctx context.Context, limit, offset int) (*SpotifyPaginatedTracks, error)
}
