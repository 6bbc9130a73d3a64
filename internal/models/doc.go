// Package models defines domain entities for the muse library assistant.
//
// The package contains three categories of types:
//
// 1. Library entities: Database-backed rows for the local music library
//   - [User] : Account owning a liked-song collection
//   - [Artist] / [Album] : Catalog metadata referenced by tracks
//   - [Track] : Song metadata with audio feature columns and sync state
//
// 2. External service payloads normalized to domain shapes
//   - [FeatureVector] : Audio features with per-field presence (nil = never fetched)
//   - [LyricHit] : A search result from the lyric catalog
//   - [LyricAnalysis] : Derived lyric attributes for one song page
//   - [LyricMetadata] : Persisted lyric analysis keyed by track
//
// 3. Sync and enhancement reporting
//   - [SyncAnalysis] / [SyncCounts] / [SyncResult] : Smart-sync outcome summary
//   - [Recommendation] : A scored candidate with human-readable reasons
//   - [EnhancedPlaylist] / [EnhancementSession] : Enhancement history records
package models
