package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// UserRepository persists accounts keyed by their Spotify identifier.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts a user or refreshes profile fields for an existing
// spotify_id, and returns the local ID either way.
func (r *UserRepository) Upsert(user *models.User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	_, err := r.db.Exec(`
		INSERT INTO users (id, spotify_id, display_name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(spotify_id) DO UPDATE SET
			display_name = excluded.display_name,
			email = excluded.email,
			updated_at = excluded.updated_at
	`, shared.GenerateID(), user.SpotifyID, user.DisplayName, user.Email, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to upsert user: %w", err)
	}

	var id string
	if err := r.db.QueryRow(`SELECT id FROM users WHERE spotify_id = ?`, user.SpotifyID).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to read user id: %w", err)
	}

	user.ID = id
	return id, nil
}

// Get retrieves a user by local ID.
func (r *UserRepository) Get(id string) (*models.User, error) {
	return r.getBy("id", id)
}

// GetBySpotifyID retrieves a user by Spotify identifier.
func (r *UserRepository) GetBySpotifyID(spotifyID string) (*models.User, error) {
	return r.getBy("spotify_id", spotifyID)
}

func (r *UserRepository) getBy(column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, spotify_id, COALESCE(display_name, ''), COALESCE(email, ''), created_at, updated_at
		FROM users
		WHERE %s = ?
	`, column)

	var user models.User
	err := r.db.QueryRow(query, value).Scan(
		&user.ID, &user.SpotifyID, &user.DisplayName, &user.Email,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
