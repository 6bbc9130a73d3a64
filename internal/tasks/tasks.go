package tasks

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/services"
	"github.com/desertthunder/muse/internal/shared"
)

// TrackStore defines the track-store operations the sync engine and
// recommender depend on. Implemented by repositories.TrackRepository;
// the abstraction keeps both testable without a database.
type TrackStore interface {
	Get(id string) (*models.Track, error)
	MissingData(userID string, staleBefore time.Time) (models.SyncAnalysis, error)
	TracksNeedingAudioFeatures(userID string, force bool) ([]models.TrackRef, error)
	TracksNeedingLyricData(userID string, staleBefore time.Time, force bool) ([]models.TrackRef, error)
	UpdateAudioFeatures(trackID string, features models.FeatureVector) error
	Candidates(userID string, scope models.Scope, excludeIDs []string, limit int) ([]models.LikedSong, error)
}

// LyricStore defines the lyric-metadata operations the sync engine and
// recommender depend on. Implemented by repositories.LyricRepository.
type LyricStore interface {
	Upsert(meta models.LyricMetadata) error
	For(trackIDs []string) (map[string]models.LyricMetadata, error)
}

// SessionStore records enhancement sessions. Implemented by
// repositories.SessionRepository.
type SessionStore interface {
	SaveSession(session *models.EnhancementSession) error
	AppendAddedTracks(sessionID string, trackIDs []string) error
}

// ProgressListener receives progress updates during a sync run.
//
// Listeners are invoked synchronously and in registration order, so a
// slow listener throttles the sync. Hosts that need to do real work
// should hand the update off to their own goroutine or channel.
type ProgressListener func(ProgressUpdate)

// SyncOpts configures a sync run.
type SyncOpts struct {
	ForceResync bool // Re-fetch all enrichment data regardless of current state
}

// SyncStatus is a point-in-time snapshot of the engine's state.
type SyncStatus struct {
	Running  bool
	Progress ProgressUpdate
}

// SyncEngine orchestrates library enrichment: it analyzes which liked
// tracks are missing audio features or lyric metadata, then fills the
// gaps in batches against the external catalogs.
//
// One engine runs at most one sync at a time; a second Start while a
// run is in flight fails fast with shared.ErrSyncRunning.
type SyncEngine struct {
	tracks TrackStore
	lyrics LyricStore
	audio  services.AudioFeatureSource
	lyric  services.LyricSource
	logger *log.Logger

	audioBatchSize int
	lyricBatchSize int
	staleAfter     time.Duration

	audioItemDelay  time.Duration
	audioBatchDelay time.Duration
	lyricItemDelay  time.Duration
	lyricBatchDelay time.Duration

	mu        sync.Mutex
	running   bool
	stopped   bool
	last      ProgressUpdate
	listeners []ProgressListener
}

// NewSyncEngine creates a SyncEngine with batch sizes and staleness
// taken from cfg. Zero config fields fall back to the defaults.
func NewSyncEngine(tracks TrackStore, lyrics LyricStore, audio services.AudioFeatureSource, lyric services.LyricSource, cfg shared.SyncConfig) *SyncEngine {
	e := &SyncEngine{
		tracks:          tracks,
		lyrics:          lyrics,
		audio:           audio,
		lyric:           lyric,
		logger:          shared.NewLogger(nil).With("component", "sync"),
		audioBatchSize:  cfg.AudioBatchSize,
		lyricBatchSize:  cfg.LyricBatchSize,
		staleAfter:      time.Duration(cfg.StaleDays) * 24 * time.Hour,
		audioItemDelay:  50 * time.Millisecond,
		audioBatchDelay: 200 * time.Millisecond,
		lyricItemDelay:  100 * time.Millisecond,
		lyricBatchDelay: 500 * time.Millisecond,
		last:            ProgressUpdate{Phase: PhaseIdle},
	}
	if e.audioBatchSize <= 0 {
		e.audioBatchSize = 50
	}
	if e.lyricBatchSize <= 0 {
		e.lyricBatchSize = 25
	}
	if e.staleAfter <= 0 {
		e.staleAfter = 7 * 24 * time.Hour
	}
	return e
}

// AddProgressListener registers a listener for progress updates. Not
// safe to call while a sync is running.
func (e *SyncEngine) AddProgressListener(l ProgressListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Stop requests cancellation of the in-flight sync. The current item
// finishes; no further items are started. A no-op when idle.
func (e *SyncEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.stopped = true
	}
}

// Status returns whether a sync is running and the last progress update.
func (e *SyncEngine) Status() SyncStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SyncStatus{Running: e.running, Progress: e.last}
}

// Analyze reports what a sync run for userID would have to do. Read
// only; a user with no liked tracks yields a zero analysis, not an
// error.
func (e *SyncEngine) Analyze(userID string) (models.SyncAnalysis, error) {
	return e.tracks.MissingData(userID, time.Now().Add(-e.staleAfter))
}

// publish delivers an update to every listener synchronously and in
// order, and records it as the latest status snapshot.
func (e *SyncEngine) publish(update ProgressUpdate) {
	e.mu.Lock()
	e.last = update
	listeners := e.listeners
	e.mu.Unlock()

	for _, l := range listeners {
		l(update)
	}
}

// stopRequested reports whether Stop was called during the current run.
func (e *SyncEngine) stopRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}
