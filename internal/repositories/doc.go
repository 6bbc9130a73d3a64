// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository wraps a *sql.DB and exposes the queries one entity needs.
// Writes that mirror external state (liked songs, lyric metadata) are
// idempotent upserts so a sync run can be repeated safely.
//
// Key Implementations:
//   - [UserRepository] : Account persistence keyed by Spotify ID
//   - [TrackRepository] : Library rows, liked-song links, audio feature writes, and the missing-data analyzer
//   - [LyricRepository] : Lyric metadata upserts and bulk reads
//   - [SessionRepository] : Enhancement sessions and per-playlist enhancement counters
package repositories
