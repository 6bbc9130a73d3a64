package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/muse/internal/models"
	th "github.com/desertthunder/muse/internal/testing"
)

func sampleRecs() []models.Recommendation {
	return []models.Recommendation{
		{
			Track: models.Track{
				ID:         "track1",
				Name:       "Song One",
				ArtistName: "Artist One",
				AlbumName:  "Album One",
			},
			Score:   0.92,
			Reasons: []string{"Similar energy levels", "Matching danceability"},
		},
		{
			Track: models.Track{
				ID:         "track2",
				Name:       "Song Two",
				ArtistName: "Artist Two",
			},
			Score:   0.41,
			Reasons: []string{"Based on popularity and genre matching"},
		},
	}
}

func TestTextRenderers(t *testing.T) {
	t.Run("AnalysisText", func(t *testing.T) {
		output := string(AnalysisText(models.SyncAnalysis{
			TotalTracks:        120,
			NeedsAudioFeatures: 40,
			NeedsLyricData:     12,
			StaleLyricData:     3,
		}))

		for _, want := range []string{"120", "40", "12", "3"} {
			if !strings.Contains(output, want) {
				t.Errorf("analysis output missing %q: %s", want, output)
			}
		}
		if strings.Contains(output, "up to date") {
			t.Error("dirty analysis must not report up to date")
		}
	})

	t.Run("AnalysisText clean library", func(t *testing.T) {
		output := string(AnalysisText(models.SyncAnalysis{TotalTracks: 50}))
		if !strings.Contains(output, "Library is up to date.") {
			t.Errorf("expected up-to-date notice, got: %s", output)
		}
	})

	t.Run("SyncResultText", func(t *testing.T) {
		result := &models.SyncResult{
			Success: true,
			Spotify: models.SyncCounts{Synced: 38, Failed: 2, Total: 40},
			Genius:  models.SyncCounts{Synced: 10, Failed: 2, Total: 12},
			Errors:  []string{`lyric data for "Song X": no lyric match found`},
		}

		output := string(SyncResultText(result))
		if !strings.Contains(output, "Sync complete") {
			t.Errorf("expected success header, got: %s", output)
		}
		if !strings.Contains(output, "38 synced, 2 failed (of 40)") {
			t.Errorf("expected audio counts, got: %s", output)
		}
		if !strings.Contains(output, "Song X") {
			t.Errorf("expected failed track listed, got: %s", output)
		}
	})

	t.Run("SyncResultText stopped run", func(t *testing.T) {
		output := string(SyncResultText(&models.SyncResult{Stopped: true}))
		if !strings.Contains(output, "Sync stopped") {
			t.Errorf("expected stopped header, got: %s", output)
		}
	})

	t.Run("RecommendationsText", func(t *testing.T) {
		output := string(RecommendationsText(sampleRecs()))

		if !strings.Contains(output, "1. Artist One - Song One (92%)") {
			t.Errorf("expected ranked line, got: %s", output)
		}
		if !strings.Contains(output, "Similar energy levels") {
			t.Errorf("expected reasons listed, got: %s", output)
		}
	})

	t.Run("RecommendationsText empty", func(t *testing.T) {
		output := string(RecommendationsText(nil))
		if !strings.Contains(output, "No recommendations") {
			t.Errorf("expected empty notice, got: %s", output)
		}
	})

	t.Run("SessionsText", func(t *testing.T) {
		sessions := []models.EnhancementSession{
			{
				ID:                  "sess1",
				Scope:               models.ScopeLikedSongs,
				SeedTrackIDs:        []string{"a", "b"},
				RecommendedTrackIDs: []string{"c", "d", "e", "f"},
				AddedTrackIDs:       []string{"c", "d", "e"},
				CreatedAt:           time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			},
		}

		output := string(SessionsText(sessions))
		if !strings.Contains(output, "2025-03-14 09:30") {
			t.Errorf("expected timestamp, got: %s", output)
		}
		if !strings.Contains(output, "scope=liked_songs") || !strings.Contains(output, "seeds=2") ||
			!strings.Contains(output, "recommended=4") || !strings.Contains(output, "added=3") {
			t.Errorf("expected session summary fields, got: %s", output)
		}
	})

	t.Run("LikedSongsText", func(t *testing.T) {
		songs := []models.LikedSong{
			{Track: models.Track{Name: "Song One", ArtistName: "Artist One", AlbumName: "Album One", DurationMS: 225000}},
		}

		output := string(LikedSongsText(songs))
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:45]") {
			t.Errorf("unexpected liked song line: %s", output)
		}
	})
}

func TestRecommendationsCSV(t *testing.T) {
	data, err := RecommendationsCSV(sampleRecs())
	if err != nil {
		t.Fatalf("RecommendationsCSV failed: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "Rank,ID,Name,Artist,Album,Score,Reasons") {
		t.Errorf("CSV missing headers, got: %s", output)
	}
	if !strings.Contains(output, "Song One") || !strings.Contains(output, "0.9200") {
		t.Errorf("CSV missing first record fields, got: %s", output)
	}
	if !strings.Contains(output, "Similar energy levels; Matching danceability") {
		t.Errorf("CSV should join reasons, got: %s", output)
	}
}

func TestWriteRecommendationsExport(t *testing.T) {
	t.Run("writes JSON export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recs.json")

		written, err := WriteRecommendationsExport(sampleRecs(), "json", path)
		if err != nil {
			t.Fatalf("WriteRecommendationsExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		data := th.MustReadFile(t, path)

		var records []map[string]any
		if err := json.Unmarshal([]byte(data), &records); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0]["artist"] != "Artist One" {
			t.Errorf("unexpected first record: %v", records[0])
		}
	})

	t.Run("defaults to txt format and filename", func(t *testing.T) {
		cwd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, cwd)

		written, err := WriteRecommendationsExport(sampleRecs(), "", "")
		if err != nil {
			t.Fatalf("WriteRecommendationsExport failed: %v", err)
		}
		if written != "recommendations.txt" {
			t.Errorf("expected default filename, got %s", written)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		if _, err := WriteRecommendationsExport(sampleRecs(), "yaml", ""); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}
