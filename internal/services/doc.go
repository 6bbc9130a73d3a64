// Package services implements clients for the external catalogs muse syncs from.
//
// # Interfaces
//
// The sync engine depends on [AudioFeatureSource] and [LyricSource]
// rather than concrete clients, so tests substitute doubles and the
// engine never knows which catalog it is talking to.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication. It implements
// [AudioFeatureSource] (batched audio-features endpoint, up to 100 IDs
// per request) and [LibrarySource] (paginated saved-tracks endpoint).
//
// # Genius Implementation
//
// [GeniusService] implements [LyricSource]. Search goes through the
// documented JSON API; hits are filtered by the title/artist match gate
// in [IsGoodMatch] before they reach the caller. Lyric pages have no
// API, so [GeniusService.FetchAnalysis] scrapes the song page with
// goquery and feeds the container text to the analysis package.
//
// # Match Gate
//
// [IsGoodMatch] guards against wrong-song matches: both title and
// artist must pass, each by containment or by a Levenshtein similarity
// ratio above 0.6 over normalized text. A matching title on the wrong
// artist is rejected.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrMissingCredentials] : constructor given empty credentials
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrLyricNotFound] : lyric page had no lyric container
package services
