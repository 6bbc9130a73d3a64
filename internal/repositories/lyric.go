package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// LyricRepository persists derived lyric metadata keyed by track ID.
type LyricRepository struct {
	db *sql.DB
}

// NewLyricRepository creates a new [LyricRepository] with the given database connection
func NewLyricRepository(db *sql.DB) *LyricRepository {
	return &LyricRepository{db: db}
}

// Upsert writes lyric metadata for a track, replacing any earlier fetch.
// fetched_at is stamped with the current time when the caller leaves it zero.
func (r *LyricRepository) Upsert(meta models.LyricMetadata) error {
	if meta.TrackID == "" {
		return fmt.Errorf("%w: lyric metadata requires a track id", shared.ErrInvalidInput)
	}

	fetchedAt := meta.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO lyric_metadata
			(track_id, genius_id, genius_url, themes, sentiment_score, word_count,
			 has_explicit_content, language, popularity_score, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			genius_id = excluded.genius_id,
			genius_url = excluded.genius_url,
			themes = excluded.themes,
			sentiment_score = excluded.sentiment_score,
			word_count = excluded.word_count,
			has_explicit_content = excluded.has_explicit_content,
			language = excluded.language,
			popularity_score = excluded.popularity_score,
			fetched_at = excluded.fetched_at
	`, meta.TrackID, meta.GeniusID, meta.GeniusURL, marshalStrings(meta.Themes),
		meta.SentimentScore, meta.WordCount, meta.HasExplicitContent,
		meta.Language, meta.PopularityScore, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert lyric metadata: %w", err)
	}

	return nil
}

// Get retrieves lyric metadata for one track.
func (r *LyricRepository) Get(trackID string) (*models.LyricMetadata, error) {
	query := `
		SELECT track_id, genius_id, COALESCE(genius_url, ''), themes, sentiment_score,
			word_count, has_explicit_content, language, popularity_score, fetched_at
		FROM lyric_metadata
		WHERE track_id = ?
	`

	meta, err := scanLyric(r.db.QueryRow(query, trackID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no lyric metadata for track %s", shared.ErrLyricNotFound, trackID)
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// For bulk-reads lyric metadata for the given tracks, keyed by track ID.
// Tracks with no metadata are simply absent from the map.
func (r *LyricRepository) For(trackIDs []string) (map[string]models.LyricMetadata, error) {
	result := make(map[string]models.LyricMetadata, len(trackIDs))
	if len(trackIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT track_id, genius_id, COALESCE(genius_url, ''), themes, sentiment_score,
			word_count, has_explicit_content, language, popularity_score, fetched_at
		FROM lyric_metadata
		WHERE track_id IN (` + placeholders(len(trackIDs)) + `)
	`

	args := make([]any, len(trackIDs))
	for i, id := range trackIDs {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lyric metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		meta, err := scanLyric(rows)
		if err != nil {
			return nil, err
		}
		result[meta.TrackID] = *meta
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

// scanLyric scans the lyric_metadata SELECT list into a [models.LyricMetadata].
func scanLyric(s scanner) (*models.LyricMetadata, error) {
	var (
		meta     models.LyricMetadata
		geniusID sql.NullInt64
		themes   string
	)

	err := s.Scan(
		&meta.TrackID, &geniusID, &meta.GeniusURL, &themes, &meta.SentimentScore,
		&meta.WordCount, &meta.HasExplicitContent, &meta.Language,
		&meta.PopularityScore, &meta.FetchedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan lyric metadata: %w", err)
	}

	meta.GeniusID = int(geniusID.Int64)
	meta.Themes = unmarshalStrings(themes)

	return &meta, nil
}
