package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// SessionRepository records enhancement history: append-only sessions
// plus a per-playlist counter of how many times it was enhanced.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveSession inserts a new enhancement session with a generated ID.
func (r *SessionRepository) SaveSession(session *models.EnhancementSession) error {
	if session.UserID == "" {
		return fmt.Errorf("%w: session requires a user id", shared.ErrInvalidInput)
	}
	if !session.Scope.Valid() {
		return fmt.Errorf("%w: unknown scope %q", shared.ErrInvalidInput, session.Scope)
	}

	session.ID = shared.GenerateID()
	session.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO enhancement_sessions
			(id, user_id, playlist_id, seed_track_ids, recommended_track_ids, added_track_ids, scope, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.UserID, nullable(session.PlaylistID),
		marshalStrings(session.SeedTrackIDs), marshalStrings(session.RecommendedTrackIDs),
		marshalStrings(session.AddedTrackIDs), string(session.Scope), session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// AppendAddedTracks records tracks added to a session after it was saved.
// The added list only ever grows.
func (r *SessionRepository) AppendAddedTracks(sessionID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRow(`SELECT added_track_ids FROM enhancement_sessions WHERE id = ?`, sessionID).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	added := unmarshalStrings(raw)
	added = append(added, trackIDs...)

	_, err = tx.Exec(`UPDATE enhancement_sessions SET added_track_ids = ? WHERE id = ?`,
		marshalStrings(added), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return tx.Commit()
}

// Sessions lists the user's enhancement sessions, newest first.
func (r *SessionRepository) Sessions(userID string) ([]models.EnhancementSession, error) {
	query := `
		SELECT id, user_id, COALESCE(playlist_id, ''), seed_track_ids,
			recommended_track_ids, added_track_ids, scope, created_at
		FROM enhancement_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.EnhancementSession
	for rows.Next() {
		var (
			session                   models.EnhancementSession
			seeds, recommended, added string
			scope                     string
		)
		err := rows.Scan(&session.ID, &session.UserID, &session.PlaylistID,
			&seeds, &recommended, &added, &scope, &session.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.SeedTrackIDs = unmarshalStrings(seeds)
		session.RecommendedTrackIDs = unmarshalStrings(recommended)
		session.AddedTrackIDs = unmarshalStrings(added)
		session.Scope = models.Scope(scope)
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

// RecordEnhancement bumps the enhancement counter for a playlist,
// creating the row on first enhancement.
func (r *SessionRepository) RecordEnhancement(userID, spotifyPlaylistID, name string) error {
	now := time.Now()

	_, err := r.db.Exec(`
		INSERT INTO enhanced_playlists
			(id, user_id, spotify_playlist_id, name, enhancement_count, last_enhanced_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(user_id, spotify_playlist_id) DO UPDATE SET
			name = excluded.name,
			enhancement_count = enhancement_count + 1,
			last_enhanced_at = excluded.last_enhanced_at
	`, shared.GenerateID(), userID, spotifyPlaylistID, name, now)
	if err != nil {
		return fmt.Errorf("failed to record enhancement: %w", err)
	}

	return nil
}

// IsPlaylistEnhanced reports whether the playlist has ever been enhanced
// for this user.
func (r *SessionRepository) IsPlaylistEnhanced(userID, spotifyPlaylistID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM enhanced_playlists WHERE user_id = ? AND spotify_playlist_id = ?)`,
		userID, spotifyPlaylistID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enhanced playlist: %w", err)
	}
	return exists, nil
}

// EnhancedPlaylists lists the user's enhanced playlists, most recently
// enhanced first.
func (r *SessionRepository) EnhancedPlaylists(userID string) ([]models.EnhancedPlaylist, error) {
	query := `
		SELECT id, user_id, spotify_playlist_id, COALESCE(name, ''), enhancement_count,
			last_enhanced_at, created_at
		FROM enhanced_playlists
		WHERE user_id = ?
		ORDER BY last_enhanced_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enhanced playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.EnhancedPlaylist
	for rows.Next() {
		var (
			p            models.EnhancedPlaylist
			lastEnhanced sql.NullTime
		)
		err := rows.Scan(&p.ID, &p.UserID, &p.SpotifyPlaylistID, &p.Name,
			&p.EnhancementCount, &lastEnhanced, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enhanced playlist: %w", err)
		}
		if lastEnhanced.Valid {
			p.LastEnhancedAt = lastEnhanced.Time
		} else {
			p.LastEnhancedAt = p.CreatedAt
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}
