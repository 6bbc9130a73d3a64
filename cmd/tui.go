package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/desertthunder/muse/internal/ui"
	"github.com/urfave/cli/v3"
)

// SyncUI launches the interactive terminal UI for running a sync.
func (r *Runner) SyncUI(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")

	if token := cmd.String("token"); token != "" {
		if err := r.authenticateSpotify(ctx, cmd); err != nil {
			return err
		}
	}
	if err := r.connect(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/muse-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, userID)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
