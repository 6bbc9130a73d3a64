// package formatter renders sync and recommendation results for the CLI (text, CSV, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// AnalysisText renders a pre-sync analysis as aligned plain text.
func AnalysisText(analysis models.SyncAnalysis) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Liked tracks:            %d\n", analysis.TotalTracks))
	buf.WriteString(fmt.Sprintf("Missing audio features:  %d\n", analysis.NeedsAudioFeatures))
	buf.WriteString(fmt.Sprintf("Missing lyric data:      %d\n", analysis.NeedsLyricData))
	buf.WriteString(fmt.Sprintf("Stale lyric data:        %d\n", analysis.StaleLyricData))

	if analysis.Clean() {
		buf.WriteString("\nLibrary is up to date.\n")
	}
	return buf.Bytes()
}

// SyncResultText renders a finished sync run as plain text.
func SyncResultText(result *models.SyncResult) []byte {
	var buf bytes.Buffer

	switch {
	case result.Stopped:
		buf.WriteString("Sync stopped\n\n")
	case result.Success:
		buf.WriteString("Sync complete\n\n")
	default:
		buf.WriteString("Sync failed\n\n")
	}

	buf.WriteString(fmt.Sprintf("Audio features: %d synced, %d failed (of %d)\n",
		result.Spotify.Synced, result.Spotify.Failed, result.Spotify.Total))
	buf.WriteString(fmt.Sprintf("Lyric data:     %d synced, %d failed (of %d)\n",
		result.Genius.Synced, result.Genius.Failed, result.Genius.Total))

	if len(result.Errors) > 0 {
		buf.WriteString(fmt.Sprintf("\n%d tracks failed:\n", len(result.Errors)))
		for _, e := range result.Errors {
			buf.WriteString(fmt.Sprintf("  - %s\n", e))
		}
	}
	return buf.Bytes()
}

// RecommendationsText renders recommendations as a ranked plain-text list.
func RecommendationsText(recs []models.Recommendation) []byte {
	var buf bytes.Buffer

	if len(recs) == 0 {
		buf.WriteString("No recommendations found.\n")
		return buf.Bytes()
	}

	for i, rec := range recs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%.0f%%)\n", i+1, rec.Track.ArtistName, rec.Track.Name, rec.Score*100))
		for _, reason := range rec.Reasons {
			buf.WriteString(fmt.Sprintf("   %s\n", reason))
		}
	}
	return buf.Bytes()
}

// RecommendationsCSV converts recommendations to CSV with columns: Rank, ID, Name, Artist, Album, Score, Reasons
func RecommendationsCSV(recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "ID", "Name", "Artist", "Album", "Score", "Reasons"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, rec := range recs {
		record := []string{
			strconv.Itoa(i + 1),
			rec.Track.ID,
			rec.Track.Name,
			rec.Track.ArtistName,
			rec.Track.AlbumName,
			strconv.FormatFloat(rec.Score, 'f', 4, 64),
			strings.Join(rec.Reasons, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SessionsText renders enhancement sessions as plain text, newest first
// when the caller passes them in that order.
func SessionsText(sessions []models.EnhancementSession) []byte {
	var buf bytes.Buffer

	if len(sessions) == 0 {
		buf.WriteString("No enhancement sessions recorded.\n")
		return buf.Bytes()
	}

	for _, session := range sessions {
		buf.WriteString(fmt.Sprintf("%s  %s  scope=%s  seeds=%d  recommended=%d  added=%d\n",
			session.CreatedAt.Format("2006-01-02 15:04"),
			session.ID,
			session.Scope,
			len(session.SeedTrackIDs),
			len(session.RecommendedTrackIDs),
			len(session.AddedTrackIDs)))
	}
	return buf.Bytes()
}

// LikedSongsText renders a page of liked songs as plain text.
func LikedSongsText(songs []models.LikedSong) []byte {
	var buf bytes.Buffer

	for i, song := range songs {
		duration := shared.FormatDuration(song.Track.DurationMS)
		albumPart := ""
		if song.Track.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Track.AlbumName)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, song.Track.ArtistName, song.Track.Name, albumPart, duration))
	}
	return buf.Bytes()
}

// WriteRecommendationsExport writes recommendations to a file in the
// requested format (csv, json, or txt) and returns the path written.
//
// Defaults to recommendations.{ext} in the working directory.
func WriteRecommendationsExport(recs []models.Recommendation, format, filepath string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "csv":
		ext = "csv"
		data, err = RecommendationsCSV(recs)
	case "json":
		ext = "json"
		data, err = shared.MarshalJSON(recommendationRecords(recs), true)
	case "txt", "":
		ext = "txt"
		data = RecommendationsText(recs)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", ext, err)
	}

	if filepath == "" {
		filepath = "recommendations." + ext
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", ext, err)
	}
	return filepath, nil
}

// recommendationRecord is the JSON export shape for one recommendation.
type recommendationRecord struct {
	Rank    int      `json:"rank"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artist  string   `json:"artist"`
	Album   string   `json:"album,omitempty"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

func recommendationRecords(recs []models.Recommendation) []recommendationRecord {
	records := make([]recommendationRecord, len(recs))
	for i, rec := range recs {
		records[i] = recommendationRecord{
			Rank:    i + 1,
			ID:      rec.Track.ID,
			Name:    rec.Track.Name,
			Artist:  rec.Track.ArtistName,
			Album:   rec.Track.AlbumName,
			Score:   rec.Score,
			Reasons: rec.Reasons,
		}
	}
	return records
}
