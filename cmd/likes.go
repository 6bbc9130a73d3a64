package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/formatter"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/services"
	"github.com/urfave/cli/v3"
)

// savedTracksPageSize is the API's maximum page size for saved tracks.
const savedTracksPageSize = 50

// LikesImport pulls the user's saved tracks from Spotify into the local library.
func (r *Runner) LikesImport(ctx context.Context, cmd *cli.Command) error {
	maxTracks := cmd.Int("limit")

	if err := r.authenticateSpotify(ctx, cmd); err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}

	profile, err := r.spotify.UserProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user profile: %w", err)
	}

	userID, err := r.users.Upsert(&models.User{
		SpotifyID:   profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	r.logger.Info("importing saved tracks", "user", userID)
	r.writePlain("Importing saved tracks for %s...\n", profile.DisplayName)

	imported, failed := 0, 0
	for offset := 0; ; {
		page, err := r.spotify.SavedTracks(ctx, savedTracksPageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to fetch saved tracks: %w", err)
		}

		for _, saved := range page.Items {
			if maxTracks > 0 && imported+failed >= maxTracks {
				break
			}
			if _, err := r.saveLikedSong(userID, saved); err != nil {
				r.logger.Warn("failed to save track", "track", saved.Track.Name, "error", err)
				failed++
				continue
			}
			imported++
		}

		offset += len(page.Items)
		done := page.Next == nil || len(page.Items) == 0
		if maxTracks > 0 && imported+failed >= maxTracks {
			done = true
		}
		if done {
			break
		}
		r.writePlain("  ...%d of %d\n", offset, page.Total)
	}

	r.writePlain("✓ Imported %d tracks", imported)
	if failed > 0 {
		r.writePlain(" (%d failed)", failed)
	}
	r.writePlain("\n")
	return nil
}

// saveLikedSong maps one API payload onto the catalog models and persists it.
func (r *Runner) saveLikedSong(userID string, saved services.SpotifySavedTrack) (string, error) {
	likedAt, err := time.Parse(time.RFC3339, saved.AddedAt)
	if err != nil {
		likedAt = time.Now()
	}

	var artist models.Artist
	if len(saved.Track.Artists) > 0 {
		first := saved.Track.Artists[0]
		artist = models.Artist{
			SpotifyID:  first.ID,
			Name:       first.Name,
			Genres:     first.Genres,
			Popularity: first.Popularity,
		}
	}

	album := models.Album{
		SpotifyID:   saved.Track.Album.ID,
		Name:        saved.Track.Album.Name,
		ReleaseDate: saved.Track.Album.ReleaseDate,
	}
	if len(saved.Track.Album.Images) > 0 {
		album.ImageURL = saved.Track.Album.Images[0].URL
	}

	track := models.Track{
		SpotifyID:  saved.Track.ID,
		Name:       saved.Track.Name,
		DurationMS: saved.Track.DurationMS,
		Popularity: saved.Track.Popularity,
		PreviewURL: saved.Track.PreviewURL,
	}

	return r.tracks.SaveLikedSong(userID, track, artist, album, likedAt)
}

// LikesList lists liked songs from the local library.
func (r *Runner) LikesList(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	limit := cmd.Int("limit")
	offset := cmd.Int("offset")

	if err := r.connect(); err != nil {
		return err
	}

	songs, err := r.tracks.GetUserLikedSongs(userID, limit, offset)
	if err != nil {
		return fmt.Errorf("failed to list liked songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.LikedSongsText(songs))
	return err
}
