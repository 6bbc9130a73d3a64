package ui

import (
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/tasks"
)

// analysisMsg carries the result of the pre-sync library analysis.
type analysisMsg struct {
	analysis models.SyncAnalysis
	err      error
}

// progressMsg wraps a single orchestrator update for the Elm loop.
type progressMsg tasks.ProgressUpdate

// syncDoneMsg carries the final sync result once the run finishes.
type syncDoneMsg struct {
	result *models.SyncResult
	err    error
}
