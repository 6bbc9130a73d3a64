package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// trackColumns is the SELECT list shared by every track read. Reads join
// artists and albums for display names.
const trackColumns = `
	t.id, t.spotify_id, t.name,
	COALESCE(t.artist_id, ''), COALESCE(a.name, ''),
	COALESCE(t.album_id, ''), COALESCE(al.name, ''),
	t.duration_ms, t.popularity, COALESCE(t.preview_url, ''),
	t.danceability, t.energy, t.valence, t.acousticness,
	t.instrumentalness, t.liveness, t.speechiness, t.loudness,
	t.tempo, t.key, t.mode, t.time_signature,
	t.audio_features_synced, t.created_at, t.updated_at
`

// TrackRepository persists library tracks, liked-song links, and audio
// feature state.
//
// Saves mirror external catalog state, so every write is an idempotent
// upsert: repeating a sync run never duplicates rows and never clears
// feature columns that an earlier run populated.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// SaveLikedSong upserts the track's artist and album, the track itself,
// and the user's liked link, all in one transaction. Re-saving an
// existing track refreshes catalog metadata but leaves feature columns
// and the liked_at timestamp untouched. Returns the local track ID.
func (r *TrackRepository) SaveLikedSong(userID string, track models.Track, artist models.Artist, album models.Album, likedAt time.Time) (string, error) {
	if err := track.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	artistID, err := upsertArtist(tx, artist)
	if err != nil {
		return "", err
	}

	albumID := ""
	if album.SpotifyID != "" {
		albumID, err = upsertAlbum(tx, album, artistID)
		if err != nil {
			return "", err
		}
	}

	trackID, err := upsertTrack(tx, track, artistID, albumID)
	if err != nil {
		return "", err
	}

	if likedAt.IsZero() {
		likedAt = time.Now()
	}
	_, err = tx.Exec(
		`INSERT OR IGNORE INTO user_liked_songs (user_id, track_id, liked_at) VALUES (?, ?, ?)`,
		userID, trackID, likedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert liked song: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit liked song: %w", err)
	}

	return trackID, nil
}

// upsertArtist inserts or refreshes an artist row keyed by spotify_id and returns the local ID.
func upsertArtist(tx *sql.Tx, artist models.Artist) (string, error) {
	if artist.SpotifyID == "" {
		return "", nil
	}

	_, err := tx.Exec(`
		INSERT INTO artists (id, spotify_id, name, genres, popularity)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			name = excluded.name,
			genres = excluded.genres,
			popularity = excluded.popularity
	`, shared.GenerateID(), artist.SpotifyID, artist.Name, marshalStrings(artist.Genres), artist.Popularity)
	if err != nil {
		return "", fmt.Errorf("failed to upsert artist: %w", err)
	}

	var id string
	if err := tx.QueryRow(`SELECT id FROM artists WHERE spotify_id = ?`, artist.SpotifyID).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read artist id: %w", err)
	}
	return id, nil
}

// upsertAlbum inserts or refreshes an album row keyed by spotify_id and returns the local ID.
func upsertAlbum(tx *sql.Tx, album models.Album, artistID string) (string, error) {
	_, err := tx.Exec(`
		INSERT INTO albums (id, spotify_id, name, artist_id, release_date, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			name = excluded.name,
			artist_id = excluded.artist_id,
			release_date = excluded.release_date,
			image_url = excluded.image_url
	`, shared.GenerateID(), album.SpotifyID, album.Name, nullable(artistID), album.ReleaseDate, album.ImageURL)
	if err != nil {
		return "", fmt.Errorf("failed to upsert album: %w", err)
	}

	var id string
	if err := tx.QueryRow(`SELECT id FROM albums WHERE spotify_id = ?`, album.SpotifyID).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read album id: %w", err)
	}
	return id, nil
}

// upsertTrack inserts or refreshes a track row keyed by spotify_id and
// returns the local ID. The conflict branch deliberately never touches
// feature columns or audio_features_synced.
func upsertTrack(tx *sql.Tx, track models.Track, artistID, albumID string) (string, error) {
	now := time.Now()

	_, err := tx.Exec(`
		INSERT INTO tracks (id, spotify_id, name, artist_id, album_id, duration_ms, popularity, preview_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			name = excluded.name,
			artist_id = excluded.artist_id,
			album_id = excluded.album_id,
			duration_ms = excluded.duration_ms,
			popularity = excluded.popularity,
			preview_url = excluded.preview_url,
			updated_at = excluded.updated_at
	`, shared.GenerateID(), track.SpotifyID, track.Name, nullable(artistID), nullable(albumID),
		track.DurationMS, track.Popularity, track.PreviewURL, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to upsert track: %w", err)
	}

	var id string
	if err := tx.QueryRow(`SELECT id FROM tracks WHERE spotify_id = ?`, track.SpotifyID).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read track id: %w", err)
	}
	return id, nil
}

// nullable maps the empty string to NULL for foreign key columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Get retrieves a track by local ID.
func (r *TrackRepository) Get(id string) (*models.Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM tracks t
		LEFT JOIN artists a ON a.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id
		WHERE t.id = ?
	`

	track, err := scanTrack(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

// GetBySpotifyID retrieves a track by its Spotify identifier.
func (r *TrackRepository) GetBySpotifyID(spotifyID string) (*models.Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM tracks t
		LEFT JOIN artists a ON a.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id
		WHERE t.spotify_id = ?
	`

	track, err := scanTrack(r.db.QueryRow(query, spotifyID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, spotifyID)
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

// GetUserLikedSongs lists the user's liked songs, most recently liked first.
func (r *TrackRepository) GetUserLikedSongs(userID string, limit, offset int) ([]models.LikedSong, error) {
	query := `
		SELECT ` + trackColumns + `, uls.liked_at
		FROM user_liked_songs uls
		JOIN tracks t ON t.id = uls.track_id
		LEFT JOIN artists a ON a.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id
		WHERE uls.user_id = ?
		ORDER BY uls.liked_at DESC
	`
	args := []any{userID}

	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked songs: %w", err)
	}
	defer rows.Close()

	var songs []models.LikedSong
	for rows.Next() {
		song, err := scanLikedSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// UpdateAudioFeatures writes a full feature vector onto a track and marks
// it synced in the same statement. Partial vectors are rejected so a
// synced track always carries every dimension.
func (r *TrackRepository) UpdateAudioFeatures(trackID string, features models.FeatureVector) error {
	if !features.Complete() {
		return fmt.Errorf("%w: incomplete audio feature vector for track %s", shared.ErrInvalidInput, trackID)
	}

	query := `
		UPDATE tracks
		SET danceability = ?, energy = ?, valence = ?, acousticness = ?,
			instrumentalness = ?, liveness = ?, speechiness = ?, loudness = ?,
			tempo = ?, key = ?, mode = ?, time_signature = ?,
			audio_features_synced = 1, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		features.Danceability, features.Energy, features.Valence, features.Acousticness,
		features.Instrumentalness, features.Liveness, features.Speechiness, features.Loudness,
		features.Tempo, features.Key, features.Mode, features.TimeSignature,
		time.Now(), trackID,
	)
	if err != nil {
		return fmt.Errorf("failed to update audio features: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}

	return nil
}

// needsFeaturesClause matches tracks whose feature state is unsynced or
// has gaps in the core scoring columns.
const needsFeaturesClause = `(t.audio_features_synced = 0
	OR t.danceability IS NULL OR t.energy IS NULL
	OR t.valence IS NULL OR t.tempo IS NULL)`

// TracksNeedingAudioFeatures lists liked tracks missing feature data.
// With force set, every liked track is returned regardless of state.
func (r *TrackRepository) TracksNeedingAudioFeatures(userID string, force bool) ([]models.TrackRef, error) {
	return r.tracksNeedingAudioFeatures(userID, force, 0)
}

func (r *TrackRepository) tracksNeedingAudioFeatures(userID string, force bool, limit int) ([]models.TrackRef, error) {
	query := `
		SELECT t.id, t.spotify_id, t.name, COALESCE(a.name, '')
		FROM user_liked_songs uls
		JOIN tracks t ON t.id = uls.track_id
		LEFT JOIN artists a ON a.id = t.artist_id
		WHERE uls.user_id = ?
	`
	args := []any{userID}

	if !force {
		query += " AND " + needsFeaturesClause
	}
	query += " ORDER BY uls.liked_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryRefs(query, args...)
}

// TracksNeedingLyricData lists liked tracks with no lyric metadata or
// metadata fetched before staleBefore. With force set, every liked track
// is returned.
func (r *TrackRepository) TracksNeedingLyricData(userID string, staleBefore time.Time, force bool) ([]models.TrackRef, error) {
	return r.tracksNeedingLyricData(userID, staleBefore, force, 0)
}

func (r *TrackRepository) tracksNeedingLyricData(userID string, staleBefore time.Time, force bool, limit int) ([]models.TrackRef, error) {
	query := `
		SELECT t.id, t.spotify_id, t.name, COALESCE(a.name, '')
		FROM user_liked_songs uls
		JOIN tracks t ON t.id = uls.track_id
		LEFT JOIN artists a ON a.id = t.artist_id
		LEFT JOIN lyric_metadata lm ON lm.track_id = t.id
		WHERE uls.user_id = ?
	`
	args := []any{userID}

	if !force {
		query += " AND (lm.track_id IS NULL OR lm.fetched_at < ?)"
		args = append(args, staleBefore)
	}
	query += " ORDER BY uls.liked_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryRefs(query, args...)
}

// analysisSampleSize bounds the track lists carried on a SyncAnalysis.
const analysisSampleSize = 50

// MissingData counts what a sync run would have to fetch for the user.
func (r *TrackRepository) MissingData(userID string, staleBefore time.Time) (models.SyncAnalysis, error) {
	var analysis models.SyncAnalysis

	query := `
		SELECT
			COUNT(*),
			SUM(CASE WHEN ` + needsFeaturesClause + ` THEN 1 ELSE 0 END),
			SUM(CASE WHEN lm.track_id IS NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN lm.track_id IS NOT NULL AND lm.fetched_at < ? THEN 1 ELSE 0 END)
		FROM user_liked_songs uls
		JOIN tracks t ON t.id = uls.track_id
		LEFT JOIN lyric_metadata lm ON lm.track_id = t.id
		WHERE uls.user_id = ?
	`

	var needsFeatures, needsLyrics, stale sql.NullInt64
	err := r.db.QueryRow(query, staleBefore, userID).Scan(
		&analysis.TotalTracks, &needsFeatures, &needsLyrics, &stale,
	)
	if err != nil {
		return analysis, fmt.Errorf("failed to analyze missing data: %w", err)
	}

	analysis.NeedsAudioFeatures = int(needsFeatures.Int64)
	analysis.NeedsLyricData = int(needsLyrics.Int64)
	analysis.StaleLyricData = int(stale.Int64)

	if analysis.NeedsAudioFeatures > 0 {
		refs, err := r.tracksNeedingAudioFeatures(userID, false, analysisSampleSize)
		if err != nil {
			return analysis, err
		}
		analysis.AudioFeatureGaps = refs
	}
	if analysis.NeedsLyricData+analysis.StaleLyricData > 0 {
		refs, err := r.tracksNeedingLyricData(userID, staleBefore, false, analysisSampleSize)
		if err != nil {
			return analysis, err
		}
		analysis.LyricDataGaps = refs
	}

	return analysis, nil
}

// Candidates selects the recommendation pool for a user, ordered by a
// blend of catalog popularity and lyric page popularity. The liked_songs
// scope restricts to the user's synced liked tracks and weights catalog
// popularity higher; all_music draws from the whole library and weights
// lyric popularity higher. Tracks in excludeIDs never appear.
func (r *TrackRepository) Candidates(userID string, scope models.Scope, excludeIDs []string, limit int) ([]models.LikedSong, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: unknown scope %q", shared.ErrInvalidInput, scope)
	}

	trackWeight, lyricWeight := 0.6, 0.4
	if scope == models.ScopeAllMusic {
		trackWeight, lyricWeight = 0.4, 0.6
	}

	var query string
	var args []any

	if scope == models.ScopeLikedSongs {
		query = `
			SELECT ` + trackColumns + `, uls.liked_at
			FROM user_liked_songs uls
			JOIN tracks t ON t.id = uls.track_id
			LEFT JOIN artists a ON a.id = t.artist_id
			LEFT JOIN albums al ON al.id = t.album_id
			LEFT JOIN lyric_metadata lm ON lm.track_id = t.id
			WHERE uls.user_id = ? AND t.audio_features_synced = 1
		`
		args = append(args, userID)
	} else {
		query = `
			SELECT ` + trackColumns + `, NULL
			FROM tracks t
			LEFT JOIN artists a ON a.id = t.artist_id
			LEFT JOIN albums al ON al.id = t.album_id
			LEFT JOIN lyric_metadata lm ON lm.track_id = t.id
			WHERE 1 = 1
		`
	}

	if len(excludeIDs) > 0 {
		query += " AND t.id NOT IN (" + placeholders(len(excludeIDs)) + ")"
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}

	query += `
		ORDER BY (? * t.popularity + ? * COALESCE(lm.popularity_score, 0)) DESC
	`
	args = append(args, trackWeight, lyricWeight)

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var songs []models.LikedSong
	for rows.Next() {
		song, err := scanLikedSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// queryRefs runs a four-column ref query and collects the results.
func (r *TrackRepository) queryRefs(query string, args ...any) ([]models.TrackRef, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track refs: %w", err)
	}
	defer rows.Close()

	var refs []models.TrackRef
	for rows.Next() {
		var ref models.TrackRef
		if err := rows.Scan(&ref.ID, &ref.SpotifyID, &ref.Name, &ref.ArtistName); err != nil {
			return nil, fmt.Errorf("failed to scan track ref: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return refs, nil
}

// scanner abstracts sql.Row and sql.Rows for the shared track scan.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrack scans the trackColumns SELECT list into a [models.Track].
func scanTrack(s scanner) (*models.Track, error) {
	var (
		track                                    models.Track
		dance, energy, valence, acoustic         sql.NullFloat64
		instrumental, liveness, speech, loudness sql.NullFloat64
		tempo                                    sql.NullFloat64
		key, mode, timeSig                       sql.NullInt64
	)

	err := s.Scan(
		&track.ID, &track.SpotifyID, &track.Name,
		&track.ArtistID, &track.ArtistName,
		&track.AlbumID, &track.AlbumName,
		&track.DurationMS, &track.Popularity, &track.PreviewURL,
		&dance, &energy, &valence, &acoustic,
		&instrumental, &liveness, &speech, &loudness,
		&tempo, &key, &mode, &timeSig,
		&track.AudioFeaturesSynced, &track.CreatedAt, &track.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track.Features = models.FeatureVector{
		Danceability:     nullFloat(dance),
		Energy:           nullFloat(energy),
		Valence:          nullFloat(valence),
		Acousticness:     nullFloat(acoustic),
		Instrumentalness: nullFloat(instrumental),
		Liveness:         nullFloat(liveness),
		Speechiness:      nullFloat(speech),
		Loudness:         nullFloat(loudness),
		Tempo:            nullFloat(tempo),
		Key:              nullInt(key),
		Mode:             nullInt(mode),
		TimeSignature:    nullInt(timeSig),
	}

	return &track, nil
}

// scanLikedSong scans trackColumns plus a possibly NULL liked_at column.
func scanLikedSong(rows *sql.Rows) (models.LikedSong, error) {
	var (
		song                                     models.LikedSong
		dance, energy, valence, acoustic         sql.NullFloat64
		instrumental, liveness, speech, loudness sql.NullFloat64
		tempo                                    sql.NullFloat64
		key, mode, timeSig                       sql.NullInt64
		likedAt                                  sql.NullTime
	)

	dest := []any{
		&song.Track.ID, &song.Track.SpotifyID, &song.Track.Name,
		&song.Track.ArtistID, &song.Track.ArtistName,
		&song.Track.AlbumID, &song.Track.AlbumName,
		&song.Track.DurationMS, &song.Track.Popularity, &song.Track.PreviewURL,
		&dance, &energy, &valence, &acoustic,
		&instrumental, &liveness, &speech, &loudness,
		&tempo, &key, &mode, &timeSig,
		&song.Track.AudioFeaturesSynced, &song.Track.CreatedAt, &song.Track.UpdatedAt,
		&likedAt,
	}

	if err := rows.Scan(dest...); err != nil {
		return song, fmt.Errorf("failed to scan track: %w", err)
	}

	song.Track.Features = models.FeatureVector{
		Danceability:     nullFloat(dance),
		Energy:           nullFloat(energy),
		Valence:          nullFloat(valence),
		Acousticness:     nullFloat(acoustic),
		Instrumentalness: nullFloat(instrumental),
		Liveness:         nullFloat(liveness),
		Speechiness:      nullFloat(speech),
		Loudness:         nullFloat(loudness),
		Tempo:            nullFloat(tempo),
		Key:              nullInt(key),
		Mode:             nullInt(mode),
		TimeSignature:    nullInt(timeSig),
	}

	if likedAt.Valid {
		song.LikedAt = likedAt.Time
	}

	return song, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
