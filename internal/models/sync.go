package models

// SyncAnalysis summarizes what a sync run has to do before it starts.
// AudioFeatureGaps and LyricDataGaps are bounded samples of the tracks
// behind the counts, not full dumps.
type SyncAnalysis struct {
	TotalTracks        int
	NeedsAudioFeatures int
	NeedsLyricData     int
	StaleLyricData     int
	AudioFeatureGaps   []TrackRef
	LyricDataGaps      []TrackRef
}

// Clean reports whether nothing needs syncing.
func (a SyncAnalysis) Clean() bool {
	return a.NeedsAudioFeatures == 0 && a.NeedsLyricData == 0 && a.StaleLyricData == 0
}

// SyncCounts tallies one phase of a sync run.
type SyncCounts struct {
	Synced int
	Failed int
	Total  int
}

// SyncResult is the final report for a sync run.
type SyncResult struct {
	Success  bool
	Stopped  bool
	Analysis SyncAnalysis
	Spotify  SyncCounts
	Genius   SyncCounts
	Errors   []string
}
