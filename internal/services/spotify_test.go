package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/muse/internal/shared"
	helpers "github.com/desertthunder/muse/internal/testing"
	"golang.org/x/oauth2"
)

func testSpotifyService(t *testing.T) *SpotifyService {
	t.Helper()

	srv, err := NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

// jsonResponse builds a 200 response with the given body.
func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv := testSpotifyService(t)
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(shared.SpotifyConfig{ClientSecret: "secret"})
			if err == nil {
				t.Error("expected error for missing client_id")
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "id"})
			if err == nil {
				t.Error("expected error for missing client_secret")
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv := testSpotifyService(t)
			if srv.config.RedirectURL != "http://localhost:8080/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("Get AuthURL", func(t *testing.T) {
		srv := testSpotifyService(t)

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("With Access Token", func(t *testing.T) {
			srv := testSpotifyService(t)
			if err := srv.Authenticate(context.Background(), "test_access_token", ""); err != nil {
				t.Errorf("expected no error with access token, got %v", err)
			}
			if srv.token == nil || srv.token.AccessToken != "test_access_token" {
				t.Error("expected token to be set from access token")
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			srv := testSpotifyService(t)
			if err := srv.Authenticate(context.Background(), "", ""); err == nil {
				t.Error("expected error for missing credentials")
			}
		})
	})

	t.Run("GetAudioFeatures", func(t *testing.T) {
		t.Run("Empty Input", func(t *testing.T) {
			srv := testSpotifyService(t)
			features, err := srv.GetAudioFeatures(context.Background(), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(features) != 0 {
				t.Errorf("expected empty map, got %d entries", len(features))
			}
		})

		t.Run("Batch Too Large", func(t *testing.T) {
			srv := testSpotifyService(t)
			ids := make([]string, audioFeatureBatchMax+1)
			for i := range ids {
				ids[i] = "id"
			}
			if _, err := srv.GetAudioFeatures(context.Background(), ids); err == nil {
				t.Error("expected error for oversized batch")
			}
		})

		t.Run("Not Authenticated", func(t *testing.T) {
			srv := testSpotifyService(t)
			if _, err := srv.GetAudioFeatures(context.Background(), []string{"a"}); err == nil {
				t.Error("expected error before Authenticate")
			}
		})

		t.Run("Parses Response And Drops Nulls", func(t *testing.T) {
			srv := testSpotifyService(t)
			srv.token = &oauth2.Token{AccessToken: "token"}
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(jsonResponse(`{
					"audio_features": [
						{"id": "track_a", "danceability": 0.7, "energy": 0.8, "tempo": 121.5, "key": 5, "mode": 1, "time_signature": 4},
						null
					]
				}`), nil),
			}

			features, err := srv.GetAudioFeatures(context.Background(), []string{"track_a", "track_unknown"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(features) != 1 {
				t.Fatalf("expected 1 feature vector, got %d", len(features))
			}
			vec, ok := features["track_a"]
			if !ok {
				t.Fatal("expected vector keyed by spotify id")
			}
			if vec.Tempo == nil || *vec.Tempo != 121.5 {
				t.Error("tempo should be populated from the payload")
			}
			if vec.Key == nil || *vec.Key != 5 {
				t.Error("key should be populated from the payload")
			}
		})

		t.Run("API Error Status", func(t *testing.T) {
			srv := testSpotifyService(t)
			srv.token = &oauth2.Token{AccessToken: "token"}
			srv.httpClient = &http.Client{
				Transport: helpers.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(strings.NewReader("")),
				}, nil),
			}

			if _, err := srv.GetAudioFeatures(context.Background(), []string{"a"}); err == nil {
				t.Error("expected error for non-2xx status")
			}
		})
	})

	t.Run("SavedTracks", func(t *testing.T) {
		srv := testSpotifyService(t)
		srv.token = &oauth2.Token{AccessToken: "token"}
		srv.httpClient = &http.Client{
			Transport: helpers.NewMockRoundTripper(jsonResponse(`{
				"items": [{"added_at": "2024-01-01T00:00:00Z", "track": {"id": "t1", "name": "Song", "popularity": 60}}],
				"total": 1, "limit": 50, "offset": 0, "next": null
			}`), nil),
		}

		page, err := srv.SavedTracks(context.Background(), 50, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].Track.ID != "t1" {
			t.Errorf("expected one saved track, got %+v", page.Items)
		}
		if page.Next != nil {
			t.Error("expected final page")
		}
	})

	t.Run("Source Interfaces", func(t *testing.T) {
		srv := testSpotifyService(t)
		var _ AudioFeatureSource = srv
		var _ LibrarySource = srv
	})
}
