package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
	"golang.org/x/time/rate"
)

// Start runs a full enrichment sync for userID: analyze the library,
// fill audio-feature gaps from Spotify, then fill lyric-metadata gaps
// from Genius. Item failures are counted and reported in the result;
// only store-level errors abort the run. Progress already committed
// survives an abort, since every track's upsert is its own atomic unit.
//
// Cancellation (via ctx or Stop) is checked at item boundaries; the
// in-flight request finishes, no further items start, and the result
// comes back with Stopped set and a nil error.
func (e *SyncEngine) Start(ctx context.Context, userID string, opts SyncOpts) (*models.SyncResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}
	if e.tracks == nil || e.lyrics == nil || e.audio == nil || e.lyric == nil {
		return nil, fmt.Errorf("%w: sync engine not fully initialized", shared.ErrServiceUnavailable)
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, shared.ErrSyncRunning
	}
	e.running = true
	e.stopped = false
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	result := &models.SyncResult{}
	staleBefore := time.Now().Add(-e.staleAfter)

	e.publish(analyzingUpdate())
	analysis, err := e.tracks.MissingData(userID, staleBefore)
	if err != nil {
		err = fmt.Errorf("sync analysis failed: %w", err)
		e.publish(errorUpdate(err, result.Errors))
		return result, err
	}
	result.Analysis = analysis
	e.publish(analyzedUpdate(analysis))
	e.logger.Info("sync analysis complete",
		"total", analysis.TotalTracks,
		"needs_audio", analysis.NeedsAudioFeatures,
		"needs_lyrics", analysis.NeedsLyricData,
		"stale_lyrics", analysis.StaleLyricData)

	if err := e.syncAudioFeatures(ctx, userID, opts.ForceResync, result); err != nil {
		return e.finish(result, err)
	}
	if err := e.syncLyricData(ctx, userID, staleBefore, opts.ForceResync, result); err != nil {
		return e.finish(result, err)
	}

	result.Success = true
	e.publish(completeUpdate(result))
	e.logger.Info("sync complete",
		"audio_synced", result.Spotify.Synced,
		"lyrics_synced", result.Genius.Synced,
		"failed", result.Spotify.Failed+result.Genius.Failed)
	return result, nil
}

// finish translates a phase error into the final result. Cancellation
// is a normal outcome, anything else is surfaced to the caller.
func (e *SyncEngine) finish(result *models.SyncResult, err error) (*models.SyncResult, error) {
	if errors.Is(err, shared.ErrSyncStopped) {
		result.Stopped = true
		e.publish(stoppedUpdate(result.Errors))
		e.logger.Info("sync stopped",
			"audio_synced", result.Spotify.Synced,
			"lyrics_synced", result.Genius.Synced)
		return result, nil
	}
	e.publish(errorUpdate(err, result.Errors))
	return result, err
}

// syncAudioFeatures fills audio-feature gaps in batches. Feature
// vectors come back from Spotify per batch; each track's upsert is
// paced and checked for cancellation individually.
func (e *SyncEngine) syncAudioFeatures(ctx context.Context, userID string, force bool, result *models.SyncResult) error {
	refs, err := e.tracks.TracksNeedingAudioFeatures(userID, force)
	if err != nil {
		return fmt.Errorf("listing tracks needing audio features: %w", err)
	}

	total := len(refs)
	result.Spotify.Total = total
	if total == 0 {
		return nil
	}
	e.publish(audioPhaseUpdate(total))

	limiter := rate.NewLimiter(rate.Every(e.audioItemDelay), 1)
	completed := 0

	for start := 0; start < total; start += e.audioBatchSize {
		batch := refs[start:min(start+e.audioBatchSize, total)]

		if err := e.checkHalt(ctx); err != nil {
			return err
		}

		ids := make([]string, len(batch))
		for i, ref := range batch {
			ids[i] = ref.SpotifyID
		}

		features, err := e.audio.GetAudioFeatures(ctx, ids)
		if err != nil {
			// A failed batch fetch fails every track in it; the sync moves on.
			e.logger.Warn("audio feature batch failed", "size", len(batch), "error", err)
			for _, ref := range batch {
				completed++
				result.Spotify.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("audio features for %q: %v", ref.Name, err))
				e.publish(audioItemUpdate(completed, total, ref, result.Errors))
			}
			continue
		}

		for _, ref := range batch {
			if err := e.waitItem(ctx, limiter); err != nil {
				return err
			}
			completed++

			vec, ok := features[ref.SpotifyID]
			if !ok {
				result.Spotify.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("no audio features returned for %q", ref.Name))
			} else if err := e.tracks.UpdateAudioFeatures(ref.ID, vec); err != nil {
				result.Spotify.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("saving audio features for %q: %v", ref.Name, err))
			} else {
				result.Spotify.Synced++
			}
			e.publish(audioItemUpdate(completed, total, ref, result.Errors))
		}

		if start+e.audioBatchSize < total {
			if err := e.pause(ctx, e.audioBatchDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// syncLyricData fills lyric-metadata gaps in smaller, slower batches.
// Each track runs search + page analysis; a miss at either step counts
// as a failure for that track only.
func (e *SyncEngine) syncLyricData(ctx context.Context, userID string, staleBefore time.Time, force bool, result *models.SyncResult) error {
	refs, err := e.tracks.TracksNeedingLyricData(userID, staleBefore, force)
	if err != nil {
		return fmt.Errorf("listing tracks needing lyric data: %w", err)
	}

	total := len(refs)
	result.Genius.Total = total
	if total == 0 {
		return nil
	}
	e.publish(lyricPhaseUpdate(total))

	limiter := rate.NewLimiter(rate.Every(e.lyricItemDelay), 1)
	completed := 0

	for start := 0; start < total; start += e.lyricBatchSize {
		batch := refs[start:min(start+e.lyricBatchSize, total)]

		for _, ref := range batch {
			if err := e.waitItem(ctx, limiter); err != nil {
				return err
			}
			completed++

			meta, err := e.fetchLyricMetadata(ctx, ref)
			if err != nil {
				result.Genius.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("lyric data for %q: %v", ref.Name, err))
			} else if err := e.lyrics.Upsert(*meta); err != nil {
				result.Genius.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("saving lyric data for %q: %v", ref.Name, err))
			} else {
				result.Genius.Synced++
			}
			e.publish(lyricItemUpdate(completed, total, ref, result.Errors))
		}

		if start+e.lyricBatchSize < total {
			if err := e.pause(ctx, e.lyricBatchDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// fetchLyricMetadata resolves one track against the lyric catalog: the
// first hit passing the match gate drives the page analysis.
func (e *SyncEngine) fetchLyricMetadata(ctx context.Context, ref models.TrackRef) (*models.LyricMetadata, error) {
	hits, err := e.lyric.SearchSong(ctx, ref.Name, ref.ArtistName)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, shared.ErrLyricNotFound
	}

	analysis, err := e.lyric.FetchAnalysis(ctx, hits[0])
	if err != nil {
		return nil, err
	}

	return &models.LyricMetadata{
		TrackID:            ref.ID,
		GeniusID:           analysis.GeniusID,
		GeniusURL:          analysis.GeniusURL,
		Themes:             analysis.Themes,
		SentimentScore:     analysis.SentimentScore,
		WordCount:          analysis.WordCount,
		HasExplicitContent: analysis.HasExplicitContent,
		Language:           analysis.Language,
		PopularityScore:    analysis.PopularityScore,
	}, nil
}

// checkHalt reports cancellation via ctx or Stop as ErrSyncStopped.
func (e *SyncEngine) checkHalt(ctx context.Context) error {
	if ctx.Err() != nil || e.stopRequested() {
		return shared.ErrSyncStopped
	}
	return nil
}

// waitItem blocks until the limiter admits the next item, honoring
// cancellation on both sides of the wait.
func (e *SyncEngine) waitItem(ctx context.Context, limiter *rate.Limiter) error {
	if err := e.checkHalt(ctx); err != nil {
		return err
	}
	if err := limiter.Wait(ctx); err != nil {
		return shared.ErrSyncStopped
	}
	return e.checkHalt(ctx)
}

// pause sleeps between batches, waking early on cancellation.
func (e *SyncEngine) pause(ctx context.Context, d time.Duration) error {
	if err := e.checkHalt(ctx); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return shared.ErrSyncStopped
	case <-t.C:
		return nil
	}
}
