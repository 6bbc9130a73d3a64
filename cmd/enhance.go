package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/muse/internal/formatter"
	"github.com/desertthunder/muse/internal/models"
	"github.com/urfave/cli/v3"
)

// EnhanceRecommend scores library candidates against seed tracks and prints
// or exports the ranked results.
func (r *Runner) EnhanceRecommend(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")
	seeds := cmd.StringSlice("seed")
	scope := models.Scope(cmd.String("scope"))
	limit := cmd.Int("limit")

	if err := r.connect(); err != nil {
		return err
	}

	r.logger.Info("generating recommendations", "user", userID, "seeds", len(seeds), "scope", scope)

	recs, err := r.recommender.GetRecommendations(userID, seeds, scope, limit)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteRecommendationsExport(recs, cmd.String("format"), output)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		r.writePlain("✓ Exported %d recommendations to %s\n", len(recs), path)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.RecommendationsText(recs))
	return err
}

// EnhanceAdd records which recommended tracks the user actually added,
// growing the session's added list.
func (r *Runner) EnhanceAdd(ctx context.Context, cmd *cli.Command) error {
	sessionID := cmd.String("session")
	trackIDs := cmd.StringSlice("track")

	if err := r.connect(); err != nil {
		return err
	}

	if err := r.recommender.AcceptRecommendations(sessionID, trackIDs); err != nil {
		return fmt.Errorf("failed to record added tracks: %w", err)
	}

	r.writePlain("✓ Marked %d tracks as added to session %s\n", len(trackIDs), sessionID)
	return nil
}

// EnhanceSessions lists past recommendation sessions for a user.
func (r *Runner) EnhanceSessions(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")

	if err := r.connect(); err != nil {
		return err
	}

	sessions, err := r.sessions.Sessions(userID)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessions, cmd.Bool("pretty"))
	}

	_, err = r.output.Write(formatter.SessionsText(sessions))
	return err
}
