// Genius API implementation of [LyricSource]
//
// Search goes through the documented API; lyric pages are plain web
// pages, so analysis scrapes them with goquery.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/muse/internal/analysis"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

const (
	geniusBaseURL = "https://api.genius.com"

	// lyricsSelector matches the lyric containers on a Genius song page.
	lyricsSelector = `[data-lyrics-container="true"]`
)

// geniusSearchResponse mirrors the API's search envelope.
type geniusSearchResponse struct {
	Response struct {
		Hits []struct {
			Result struct {
				ID            int    `json:"id"`
				Title         string `json:"title"`
				URL           string `json:"url"`
				LyricsState   string `json:"lyrics_state"`
				PrimaryArtist struct {
					Name string `json:"name"`
				} `json:"primary_artist"`
				Stats struct {
					PageViews int `json:"pageviews"`
				} `json:"stats"`
			} `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// GeniusService talks to the Genius API and scrapes song pages for
// lyric analysis. Implements [LyricSource].
type GeniusService struct {
	accessToken string
	httpClient  *http.Client
}

// NewGeniusService creates a new Genius service with the given access token.
func NewGeniusService(creds shared.GeniusConfig) (*GeniusService, error) {
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: genius access_token", shared.ErrMissingCredentials)
	}

	return &GeniusService{
		accessToken: creds.AccessToken,
		httpClient:  http.DefaultClient,
	}, nil
}

func (g *GeniusService) Name() string {
	return "Genius"
}

// SearchSong queries the catalog for "title artist" and filters the hits
// through the match gate: both the title and the artist must match the
// searched track. Gated hits come back in catalog order, best first.
func (g *GeniusService) SearchSong(ctx context.Context, title, artist string) ([]models.LyricHit, error) {
	query := strings.TrimSpace(title + " " + artist)
	endpoint := fmt.Sprintf("%s/search?q=%s", geniusBaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: genius status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var payload geniusSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var hits []models.LyricHit
	for _, hit := range payload.Response.Hits {
		song := hit.Result
		if song.LyricsState != "complete" {
			continue
		}
		if !IsGoodMatch(song.Title, song.PrimaryArtist.Name, title, artist) {
			continue
		}
		hits = append(hits, models.LyricHit{
			GeniusID:   song.ID,
			Title:      song.Title,
			ArtistName: song.PrimaryArtist.Name,
			URL:        song.URL,
			PageViews:  song.Stats.PageViews,
		})
	}

	return hits, nil
}

// FetchAnalysis loads the hit's song page, extracts the lyric container
// text, and derives themes, sentiment, and content flags from it.
func (g *GeniusService) FetchAnalysis(ctx context.Context, hit models.LyricHit) (*models.LyricAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", hit.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: genius page status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lyric page: %w", err)
	}

	containers := doc.Find(lyricsSelector)
	if containers.Length() == 0 {
		return nil, fmt.Errorf("%w: no lyric container on page", shared.ErrLyricNotFound)
	}

	var text strings.Builder
	containers.Each(func(_ int, s *goquery.Selection) {
		text.WriteString(s.Text())
		text.WriteString(" ")
	})

	result := analysis.Analyze(text.String())
	result.GeniusID = hit.GeniusID
	result.GeniusURL = hit.URL
	result.PopularityScore = hit.PageViews

	return &result, nil
}
