package tasks

import (
	"fmt"

	"github.com/desertthunder/muse/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Sent to every registered listener after each item and at phase
// boundaries, for display by the CLI or TUI layer.
type ProgressUpdate struct {
	Phase       Phase    // Current sync phase
	CurrentStep string   // Human-readable description of the current step
	Completed   int      // Items finished in the current phase
	Total       int      // Total items in the current phase
	Errors      []string // Accumulated item-level error messages
}

// Sync phase enumeration
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseSyncingAudio
	PhaseSyncingLyrics
	PhaseComplete
	PhaseError
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseSyncingAudio:
		return "syncing_audio"
	case PhaseSyncingLyrics:
		return "syncing_lyrics"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	case PhaseStopped:
		return "stopped"
	default:
		return ""
	}
}

func analyzingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseAnalyzing,
		CurrentStep: "Analyzing library for missing data...",
	}
}

func analyzedUpdate(analysis models.SyncAnalysis) ProgressUpdate {
	return ProgressUpdate{
		Phase: PhaseAnalyzing,
		CurrentStep: fmt.Sprintf("Found %d tracks needing audio features, %d needing lyric data",
			analysis.NeedsAudioFeatures, analysis.NeedsLyricData+analysis.StaleLyricData),
	}
}

func audioPhaseUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseSyncingAudio,
		CurrentStep: "Syncing audio features from Spotify...",
		Total:       total,
	}
}

func audioItemUpdate(completed, total int, ref models.TrackRef, errs []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseSyncingAudio,
		CurrentStep: fmt.Sprintf("[%d/%d] %s - %s", completed, total, ref.ArtistName, ref.Name),
		Completed:   completed,
		Total:       total,
		Errors:      errs,
	}
}

func lyricPhaseUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseSyncingLyrics,
		CurrentStep: "Syncing lyric metadata from Genius...",
		Total:       total,
	}
}

func lyricItemUpdate(completed, total int, ref models.TrackRef, errs []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseSyncingLyrics,
		CurrentStep: fmt.Sprintf("[%d/%d] %s - %s", completed, total, ref.ArtistName, ref.Name),
		Completed:   completed,
		Total:       total,
		Errors:      errs,
	}
}

func completeUpdate(result *models.SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: PhaseComplete,
		CurrentStep: fmt.Sprintf("Sync complete: %d audio features, %d lyric records (%d failed)",
			result.Spotify.Synced, result.Genius.Synced, result.Spotify.Failed+result.Genius.Failed),
		Completed: result.Spotify.Synced + result.Genius.Synced,
		Total:     result.Spotify.Total + result.Genius.Total,
		Errors:    result.Errors,
	}
}

func stoppedUpdate(errs []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseStopped,
		CurrentStep: "Sync stopped",
		Errors:      errs,
	}
}

func errorUpdate(err error, errs []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:       PhaseError,
		CurrentStep: fmt.Sprintf("Sync failed: %v", err),
		Errors:      errs,
	}
}
