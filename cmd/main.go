package main

import (
	"context"
	"os"

	"github.com/desertthunder/muse/internal/services"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService *services.SpotifyService
	if svc, err := services.NewSpotifyService(config.Credentials.Spotify); err == nil {
		spotifyService = svc
	}

	var geniusService *services.GeniusService
	if svc, err := services.NewGeniusService(config.Credentials.Genius); err == nil {
		geniusService = svc
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Genius:  geniusService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "muse",
		Usage:    "Sync and explore your liked-songs library",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	runner.Close()
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
