package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/scoring"
	"github.com/desertthunder/muse/internal/shared"
)

type mockSessionStore struct {
	saved    []*models.EnhancementSession
	appended map[string][]string
	err      error
}

func (m *mockSessionStore) SaveSession(session *models.EnhancementSession) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, session)
	return nil
}

func (m *mockSessionStore) AppendAddedTracks(sessionID string, trackIDs []string) error {
	if m.err != nil {
		return m.err
	}
	if m.appended == nil {
		m.appended = make(map[string][]string)
	}
	m.appended[sessionID] = append(m.appended[sessionID], trackIDs...)
	return nil
}

func likedCandidate(id string, vec models.FeatureVector, popularity int, likedAt time.Time) models.LikedSong {
	return models.LikedSong{
		Track: models.Track{
			ID:                  id,
			SpotifyID:           "sp-" + id,
			Name:                "Track " + id,
			Popularity:          popularity,
			Features:            vec,
			AudioFeaturesSynced: !vec.Empty(),
		},
		LikedAt: likedAt,
	}
}

func seededTrack(id string, vec models.FeatureVector) *models.Track {
	return &models.Track{
		ID:                  id,
		SpotifyID:           "sp-" + id,
		Name:                "Track " + id,
		Features:            vec,
		AudioFeaturesSynced: !vec.Empty(),
	}
}

func TestGetRecommendations(t *testing.T) {
	now := time.Now()

	t.Run("ranks candidates by similarity to the seed vector", func(t *testing.T) {
		seedVec := fullVector()
		distant := models.FeatureVector{
			Danceability: models.Float(0.1),
			Energy:       models.Float(0.1),
			Valence:      models.Float(0.1),
			Acousticness: models.Float(0.9),
			Tempo:        models.Float(200),
			Key:          models.Int(0),
			Mode:         models.Int(0),
		}

		tracks := &mockTrackStore{
			tracks: map[string]*models.Track{
				"seed1": seededTrack("seed1", seedVec),
			},
			candidates: []models.LikedSong{
				likedCandidate("far", distant, 50, now),
				likedCandidate("near", seedVec, 50, now),
			},
		}
		sessions := &mockSessionStore{}
		rec := NewRecommender(tracks, &mockLyricStore{}, sessions)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeLikedSongs, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("expected 2 recommendations, got %d", len(recs))
		}
		if recs[0].Track.ID != "near" {
			t.Errorf("expected identical-vector track first, got %s", recs[0].Track.ID)
		}
		if recs[0].Score != 1.0 {
			t.Errorf("expected perfect score for identical vector, got %f", recs[0].Score)
		}
		if recs[0].Score <= recs[1].Score {
			t.Errorf("expected descending scores, got %f then %f", recs[0].Score, recs[1].Score)
		}
		if len(recs[0].Reasons) == 0 {
			t.Error("expected reasons on a scored recommendation")
		}

		if tracks.lastScope != models.ScopeLikedSongs {
			t.Errorf("expected liked_songs scope passed through, got %s", tracks.lastScope)
		}
		if tracks.lastLimit != 10*candidatePoolFactor {
			t.Errorf("expected pool of %d, got %d", 10*candidatePoolFactor, tracks.lastLimit)
		}
		if len(tracks.lastExclude) != 1 || tracks.lastExclude[0] != "seed1" {
			t.Errorf("expected seeds excluded, got %v", tracks.lastExclude)
		}

		if len(sessions.saved) != 1 {
			t.Fatalf("expected one session recorded, got %d", len(sessions.saved))
		}
		session := sessions.saved[0]
		if session.UserID != "user1" || session.Scope != models.ScopeLikedSongs {
			t.Errorf("unexpected session: %+v", session)
		}
		if len(session.RecommendedTrackIDs) != 2 {
			t.Errorf("expected 2 recommended tracks in session, got %v", session.RecommendedTrackIDs)
		}
		if len(session.AddedTrackIDs) != 0 {
			t.Errorf("expected no added tracks until accepted, got %v", session.AddedTrackIDs)
		}
	})

	t.Run("falls back to popularity when seeds have no features", func(t *testing.T) {
		tracks := &mockTrackStore{
			tracks: map[string]*models.Track{
				"seed1": seededTrack("seed1", models.FeatureVector{}),
			},
			candidates: []models.LikedSong{
				likedCandidate("cand1", models.FeatureVector{}, 80, now),
			},
		}
		lyrics := &mockLyricStore{meta: map[string]models.LyricMetadata{
			"cand1": {TrackID: "cand1", PopularityScore: 10000},
		}}
		rec := NewRecommender(tracks, lyrics, nil)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeLikedSongs, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("expected 1 recommendation, got %d", len(recs))
		}

		want := scoring.PopularityFallback(0.6*80 + 0.4*10000)
		if recs[0].Score != want {
			t.Errorf("expected fallback score %f, got %f", want, recs[0].Score)
		}
		if len(recs[0].Reasons) != 1 || recs[0].Reasons[0] != scoring.FallbackReason {
			t.Errorf("expected fallback reason, got %v", recs[0].Reasons)
		}
	})

	t.Run("all_music scope weights lyric popularity heavier", func(t *testing.T) {
		tracks := &mockTrackStore{
			tracks: map[string]*models.Track{
				"seed1": seededTrack("seed1", models.FeatureVector{}),
			},
			candidates: []models.LikedSong{
				likedCandidate("cand1", models.FeatureVector{}, 80, now),
			},
		}
		lyrics := &mockLyricStore{meta: map[string]models.LyricMetadata{
			"cand1": {TrackID: "cand1", PopularityScore: 10000},
		}}
		rec := NewRecommender(tracks, lyrics, nil)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeAllMusic, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := scoring.PopularityFallback(0.4*80 + 0.6*10000)
		if recs[0].Score != want {
			t.Errorf("expected fallback score %f, got %f", want, recs[0].Score)
		}
	})

	t.Run("breaks score ties by most recently liked", func(t *testing.T) {
		tracks := &mockTrackStore{
			tracks: map[string]*models.Track{
				"seed1": seededTrack("seed1", models.FeatureVector{}),
			},
			candidates: []models.LikedSong{
				likedCandidate("older", models.FeatureVector{}, 50, now.Add(-48*time.Hour)),
				likedCandidate("newer", models.FeatureVector{}, 50, now),
			},
		}
		rec := NewRecommender(tracks, &mockLyricStore{}, nil)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeAllMusic, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recs[0].Track.ID != "newer" {
			t.Errorf("expected newer like first on tied score, got %s", recs[0].Track.ID)
		}
	})

	t.Run("truncates to the requested limit", func(t *testing.T) {
		candidates := make([]models.LikedSong, 8)
		for i := range candidates {
			candidates[i] = likedCandidate(string(rune('a'+i)), models.FeatureVector{}, 50+i, now)
		}
		tracks := &mockTrackStore{
			tracks:     map[string]*models.Track{"seed1": seededTrack("seed1", models.FeatureVector{})},
			candidates: candidates,
		}
		rec := NewRecommender(tracks, &mockLyricStore{}, nil)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeAllMusic, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 3 {
			t.Errorf("expected 3 recommendations, got %d", len(recs))
		}
	})

	t.Run("empty candidate pool yields an empty result", func(t *testing.T) {
		sessions := &mockSessionStore{}
		tracks := &mockTrackStore{
			tracks: map[string]*models.Track{"seed1": seededTrack("seed1", models.FeatureVector{})},
		}
		rec := NewRecommender(tracks, &mockLyricStore{}, sessions)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeAllMusic, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("expected no recommendations, got %d", len(recs))
		}
		if len(sessions.saved) != 0 {
			t.Error("expected no session for an empty run")
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		rec := NewRecommender(&mockTrackStore{}, &mockLyricStore{}, nil)

		if _, err := rec.GetRecommendations("", []string{"seed1"}, models.ScopeAllMusic, 10); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty user, got %v", err)
		}
		if _, err := rec.GetRecommendations("user1", nil, models.ScopeAllMusic, 10); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for nil seed set, got %v", err)
		}
		if _, err := rec.GetRecommendations("user1", []string{}, models.ScopeLikedSongs, 10); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty seed set, got %v", err)
		}
		if _, err := rec.GetRecommendations("user1", []string{"seed1"}, models.Scope("everything"), 10); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for bad scope, got %v", err)
		}
	})

	t.Run("unknown seed track fails the call", func(t *testing.T) {
		rec := NewRecommender(&mockTrackStore{}, &mockLyricStore{}, nil)

		if _, err := rec.GetRecommendations("user1", []string{"ghost"}, models.ScopeLikedSongs, 10); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("session logging failure does not fail the call", func(t *testing.T) {
		tracks := &mockTrackStore{
			tracks: map[string]*models.Track{"seed1": seededTrack("seed1", models.FeatureVector{})},
			candidates: []models.LikedSong{
				likedCandidate("cand1", models.FeatureVector{}, 80, now),
			},
		}
		sessions := &mockSessionStore{err: errors.New("disk full")}
		rec := NewRecommender(tracks, &mockLyricStore{}, sessions)

		recs, err := rec.GetRecommendations("user1", []string{"seed1"}, models.ScopeAllMusic, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 1 {
			t.Errorf("expected recommendations despite logging failure, got %d", len(recs))
		}
	})
}

func TestAcceptRecommendations(t *testing.T) {
	t.Run("appends to the session's added list", func(t *testing.T) {
		sessions := &mockSessionStore{}
		rec := NewRecommender(&mockTrackStore{}, &mockLyricStore{}, sessions)

		if err := rec.AcceptRecommendations("sess1", []string{"a", "b"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := sessions.appended["sess1"]; len(got) != 2 {
			t.Errorf("expected 2 tracks appended, got %v", got)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		rec := NewRecommender(&mockTrackStore{}, &mockLyricStore{}, &mockSessionStore{})

		if err := rec.AcceptRecommendations("", []string{"a"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty session id, got %v", err)
		}
		if err := rec.AcceptRecommendations("sess1", nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty track set, got %v", err)
		}
	})

	t.Run("rejects runs without a session store", func(t *testing.T) {
		rec := NewRecommender(&mockTrackStore{}, &mockLyricStore{}, nil)

		if err := rec.AcceptRecommendations("sess1", []string{"a"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput without a session store, got %v", err)
		}
	})
}
