package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/muse/internal/formatter"
	"github.com/desertthunder/muse/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncAnalyze reports tracks with missing or stale external data.
func (r *Runner) SyncAnalyze(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")

	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("analyzing library", "user", userID)

	analysis, err := r.engine.Analyze(userID)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(analysis, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.AnalysisText(analysis))
	return err
}

// SyncRun runs a full audio-feature and lyric sync, streaming progress to
// the terminal.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	force := cmd.Bool("force")

	if err := r.authenticateSpotify(ctx, cmd); err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("starting sync", "user", userID, "force", force)
	r.writePlain("Starting library sync...\n\n")

	// Progress channel drained by a goroutine so the engine never blocks
	// on terminal writes
	progressCh := make(chan tasks.ProgressUpdate, 50)
	r.engine.AddProgressListener(func(update tasks.ProgressUpdate) {
		progressCh <- update
	})

	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.PhaseAnalyzing:
				r.writePlain("🔍 %s\n", update.CurrentStep)
			case tasks.PhaseSyncingAudio, tasks.PhaseSyncingLyrics:
				if update.Completed == 0 {
					r.writePlain("\n📥 %s\n", update.CurrentStep)
				} else {
					r.writePlain("   %s\n", update.CurrentStep)
				}
			}
		}
	}()

	result, err := r.engine.Start(ctx, userID, tasks.SyncOpts{ForceResync: force})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	if result.Stopped {
		r.writePlainHeader("Sync Stopped")
	} else {
		r.writePlainHeader("Sync Complete!")
	}
	r.output.Write(formatter.SyncResultText(result))

	return nil
}
