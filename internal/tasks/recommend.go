package tasks

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/scoring"
	"github.com/desertthunder/muse/internal/shared"
)

const (
	defaultRecommendLimit = 10
	candidatePoolFactor   = 5
)

// Recommender produces track recommendations from the local library by
// scoring candidates against the average feature vector of a seed set.
//
// When no seed has synced audio features, scoring degrades to the
// combined-popularity fallback rather than failing. Every run is
// recorded as an enhancement session when a session store is attached.
type Recommender struct {
	tracks   TrackStore
	lyrics   LyricStore
	sessions SessionStore
	logger   *log.Logger
}

// NewRecommender creates a Recommender. sessions may be nil to skip
// session logging.
func NewRecommender(tracks TrackStore, lyrics LyricStore, sessions SessionStore) *Recommender {
	return &Recommender{
		tracks:   tracks,
		lyrics:   lyrics,
		sessions: sessions,
		logger:   shared.NewLogger(nil).With("component", "recommend"),
	}
}

// GetRecommendations returns up to limit tracks similar to the seed
// set, excluding the seeds themselves. The liked_songs scope only
// considers candidates with synced audio features; all_music considers
// the whole library and leans on the popularity fallback.
func (r *Recommender) GetRecommendations(userID string, seedIDs []string, scope models.Scope, limit int) ([]models.Recommendation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}
	if len(seedIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one seed track is required", shared.ErrInvalidInput)
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: unknown scope %q", shared.ErrInvalidInput, scope)
	}
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	seed, err := r.seedVector(seedIDs)
	if err != nil {
		return nil, err
	}

	pool, err := r.tracks.Candidates(userID, scope, seedIDs, limit*candidatePoolFactor)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	if len(pool) == 0 {
		return []models.Recommendation{}, nil
	}

	trackIDs := make([]string, len(pool))
	for i, song := range pool {
		trackIDs[i] = song.Track.ID
	}
	lyricMeta, err := r.lyrics.For(trackIDs)
	if err != nil {
		return nil, fmt.Errorf("loading lyric metadata: %w", err)
	}

	trackWeight, lyricWeight := blendWeights(scope)

	type scored struct {
		models.Recommendation
		likedAt int64
	}
	results := make([]scored, 0, len(pool))

	for _, song := range pool {
		rec := models.Recommendation{Track: song.Track}

		if !seed.Empty() && !song.Track.Features.Empty() {
			rec.Score = scoring.Score(seed, song.Track.Features)
			rec.Reasons = scoring.Reasons(seed, song.Track.Features)
			if len(rec.Reasons) == 0 {
				rec.Reasons = []string{scoring.Explain(seed, song.Track.Features, rec.Score)}
			}
		} else {
			combined := trackWeight * float64(song.Track.Popularity)
			if meta, ok := lyricMeta[song.Track.ID]; ok {
				combined += lyricWeight * float64(meta.PopularityScore)
			}
			rec.Score = scoring.PopularityFallback(combined)
			rec.Reasons = []string{scoring.FallbackReason}
		}

		results = append(results, scored{Recommendation: rec, likedAt: song.LikedAt.Unix()})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].likedAt > results[j].likedAt
	})

	if len(results) > limit {
		results = results[:limit]
	}

	recs := make([]models.Recommendation, len(results))
	for i, s := range results {
		recs[i] = s.Recommendation
	}

	r.logSession(userID, seedIDs, scope, recs)
	return recs, nil
}

// seedVector averages the feature vectors of the seed tracks that have
// synced features. Seeds without features are skipped; an entirely
// featureless seed set yields an empty vector, which switches scoring
// to the popularity fallback.
func (r *Recommender) seedVector(seedIDs []string) (models.FeatureVector, error) {
	vectors := make([]models.FeatureVector, 0, len(seedIDs))
	for _, id := range seedIDs {
		track, err := r.tracks.Get(id)
		if err != nil {
			return models.FeatureVector{}, fmt.Errorf("loading seed track %s: %w", id, err)
		}
		if track.AudioFeaturesSynced && !track.Features.Empty() {
			vectors = append(vectors, track.Features)
		}
	}
	return scoring.AverageVector(vectors), nil
}

// logSession appends this run to the enhancement-session log. The
// session starts with the recommended tracks only; the added list stays
// empty until the user accepts tracks. Logging failures are reported
// but never fail the recommendation call.
func (r *Recommender) logSession(userID string, seedIDs []string, scope models.Scope, recs []models.Recommendation) {
	if r.sessions == nil || len(recs) == 0 {
		return
	}

	recommended := make([]string, len(recs))
	for i, rec := range recs {
		recommended[i] = rec.Track.ID
	}

	session := &models.EnhancementSession{
		UserID:              userID,
		SeedTrackIDs:        seedIDs,
		RecommendedTrackIDs: recommended,
		Scope:               scope,
	}
	if err := r.sessions.SaveSession(session); err != nil {
		r.logger.Warn("failed to record enhancement session", "error", err)
	}
}

// AcceptRecommendations marks tracks from a recorded session as added
// to the user's library or playlist.
func (r *Recommender) AcceptRecommendations(sessionID string, trackIDs []string) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: no session store attached", shared.ErrInvalidInput)
	}
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", shared.ErrInvalidInput)
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("%w: at least one track id is required", shared.ErrInvalidInput)
	}
	return r.sessions.AppendAddedTracks(sessionID, trackIDs)
}

// blendWeights returns the track/lyric popularity blend for a scope.
// Liked-songs candidates lean on catalog popularity; all-music
// candidates lean on the lyric catalog's cultural-resonance signal.
func blendWeights(scope models.Scope) (float64, float64) {
	if scope == models.ScopeLikedSongs {
		return 0.6, 0.4
	}
	return 0.4, 0.6
}
