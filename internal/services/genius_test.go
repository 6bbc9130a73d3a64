package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
	helpers "github.com/desertthunder/muse/internal/testing"
)

func testGeniusService(t *testing.T) *GeniusService {
	t.Helper()

	srv, err := NewGeniusService(shared.GeniusConfig{AccessToken: "test_token"})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

const searchPayload = `{
	"response": {
		"hits": [
			{"result": {
				"id": 101,
				"title": "Wild Mountain Honey",
				"url": "https://genius.com/wild-mountain-honey",
				"lyrics_state": "complete",
				"primary_artist": {"name": "Steve Miller Band"},
				"stats": {"pageviews": 45000}
			}},
			{"result": {
				"id": 102,
				"title": "Wild Mountain Honey",
				"url": "https://genius.com/cover",
				"lyrics_state": "complete",
				"primary_artist": {"name": "Totally Different Artist"},
				"stats": {"pageviews": 90000}
			}},
			{"result": {
				"id": 103,
				"title": "Wild Mountain Honey",
				"url": "https://genius.com/incomplete",
				"lyrics_state": "unreleased",
				"primary_artist": {"name": "Steve Miller Band"},
				"stats": {"pageviews": 10}
			}}
		]
	}
}`

func TestGeniusService(t *testing.T) {
	t.Run("NewGeniusService", func(t *testing.T) {
		t.Run("Missing Token", func(t *testing.T) {
			if _, err := NewGeniusService(shared.GeniusConfig{}); err == nil {
				t.Error("expected error for missing access token")
			}
		})

		t.Run("Valid Token", func(t *testing.T) {
			srv := testGeniusService(t)
			if srv.Name() != "Genius" {
				t.Errorf("expected service name 'Genius', got %s", srv.Name())
			}
		})
	})

	t.Run("SearchSong", func(t *testing.T) {
		t.Run("Filters Through Match Gate", func(t *testing.T) {
			srv := testGeniusService(t)
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(jsonResponse(searchPayload), nil),
			}

			hits, err := srv.SearchSong(context.Background(), "Wild Mountain Honey", "Steve Miller Band")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			// wrong artist and incomplete lyrics are both filtered out
			if len(hits) != 1 {
				t.Fatalf("expected 1 gated hit, got %d", len(hits))
			}
			if hits[0].GeniusID != 101 {
				t.Errorf("expected the matching hit, got %d", hits[0].GeniusID)
			}
			if hits[0].PageViews != 45000 {
				t.Errorf("expected pageviews carried through, got %d", hits[0].PageViews)
			}
		})

		t.Run("No Matches", func(t *testing.T) {
			srv := testGeniusService(t)
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(jsonResponse(searchPayload), nil),
			}

			hits, err := srv.SearchSong(context.Background(), "Some Other Song", "Nobody")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(hits) != 0 {
				t.Errorf("expected no hits, got %d", len(hits))
			}
		})

		t.Run("API Error Status", func(t *testing.T) {
			srv := testGeniusService(t)
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusUnauthorized,
					Body:       io.NopCloser(strings.NewReader("")),
				}, nil),
			}

			if _, err := srv.SearchSong(context.Background(), "Song", "Artist"); err == nil {
				t.Error("expected error for non-2xx status")
			}
		})
	})

	t.Run("FetchAnalysis", func(t *testing.T) {
		hit := models.LyricHit{
			GeniusID:  101,
			URL:       "https://genius.com/wild-mountain-honey",
			PageViews: 45000,
		}

		t.Run("Scrapes Lyric Containers", func(t *testing.T) {
			page := `<html><body>
				<div data-lyrics-container="true">My love, cross my heart</div>
				<div data-lyrics-container="true">I remember the memories we made</div>
				<div class="unrelated">navigation junk</div>
			</body></html>`

			srv := testGeniusService(t)
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(page)),
				}, nil),
			}

			got, err := srv.FetchAnalysis(context.Background(), hit)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got.GeniusID != 101 {
				t.Errorf("expected hit id carried through, got %d", got.GeniusID)
			}
			if got.PopularityScore != 45000 {
				t.Errorf("expected pageviews as popularity, got %d", got.PopularityScore)
			}
			if got.WordCount == 0 {
				t.Error("expected words counted from the containers")
			}
			hasLove := false
			for _, theme := range got.Themes {
				if theme == "love" {
					hasLove = true
				}
			}
			if !hasLove {
				t.Errorf("expected love theme from container text, got %v", got.Themes)
			}
		})

		t.Run("No Lyric Container", func(t *testing.T) {
			srv := testGeniusService(t)
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(`<html><body><p>nothing here</p></body></html>`)),
				}, nil),
			}

			if _, err := srv.FetchAnalysis(context.Background(), hit); err == nil {
				t.Error("expected error when page has no lyric container")
			}
		})
	})

	t.Run("Source Interface", func(t *testing.T) {
		srv := testGeniusService(t)
		var _ LyricSource = srv
	})
}
