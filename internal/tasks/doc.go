// Package tasks orchestrates library enrichment and recommendation runs
// with real-time progress reporting.
//
// # Sync
//
// [SyncEngine.Start] drives the enrichment state machine: analyzing →
// syncing_audio → syncing_lyrics → complete, with error and stopped as
// terminal states.
//
//   - Analysis asks the track store which liked tracks are missing audio
//     features or lyric metadata (or hold stale metadata).
//   - The audio phase fetches feature vectors from Spotify in batches
//     and upserts them per track.
//   - The lyric phase searches Genius per track, gates hits on fuzzy
//     title/artist similarity, and derives themes and sentiment from the
//     matched lyric page.
//
// A single track's failure is counted and reported, never fatal; only
// store-level errors abort a run. At most one sync runs per engine, and
// cancellation ([SyncEngine.Stop] or context) is honored at item
// boundaries with in-flight requests allowed to finish.
//
// # Progress Reporting
//
// Registered [ProgressListener] funcs receive every [ProgressUpdate]
// synchronously and in order. Listeners that do real work should hand
// updates off to their own goroutine; tea programs forward them over a
// channel.
//
// # Recommendations
//
// [Recommender.GetRecommendations] averages the seed tracks' feature
// vectors, scores a candidate pool drawn from the track store, and
// returns the top matches with human-readable reasons. Seed sets with
// no synced features degrade to combined-popularity scoring rather than
// failing.
//
// Both engines depend on the narrow [TrackStore], [LyricStore], and
// [SessionStore] interfaces, implemented by the repositories package.
package tasks
