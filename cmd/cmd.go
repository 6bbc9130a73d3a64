// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by commands that read config.toml.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func userFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "Local user ID (printed by 'muse auth login')",
		Required: true,
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:    "database",
				Aliases: []string{"db"},
				Usage:   "Initialize database and run migrations",
				Flags:   []cli.Flag{configFlag()},
				Action:  r.SetupDatabase,
			},
		},
	}
}

// authCommand handles Spotify authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify and register the local user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "token",
						Usage: "Use an existing access token instead of the browser flow",
					},
				},
				Action: r.AuthLogin,
			},
		},
	}
}

// likesCommand handles liked-song library operations.
func likesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "likes",
		Usage: "Import and browse the liked-songs library",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Pull saved tracks from Spotify into the local library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "token",
						Usage: "Spotify access token",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to import (0 = all)",
					},
				},
				Action: r.LikesImport,
			},
			{
				Name:  "list",
				Usage: "List liked songs in the local library",
				Flags: []cli.Flag{
					userFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to show",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of songs to skip",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LikesList,
			},
		},
	}
}

// syncCommand handles smart sync operations.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile the library against Spotify and Genius",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Report tracks with missing or stale external data",
				Flags: []cli.Flag{
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SyncAnalyze,
			},
			{
				Name:  "run",
				Usage: "Run a full audio-feature and lyric sync",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:  "token",
						Usage: "Spotify access token",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Resync tracks that already have external data",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:    "ui",
				Aliases: []string{"tui", "interactive"},
				Usage:   "Interactive TUI for running a sync",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:  "token",
						Usage: "Spotify access token",
					},
				},
				Action: r.SyncUI,
			},
		},
	}
}

// enhanceCommand handles recommendation operations.
func enhanceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enhance",
		Usage: "Recommend tracks from the synced library",
		Commands: []*cli.Command{
			{
				Name:  "recommend",
				Usage: "Score library candidates against seed tracks",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringSliceFlag{
						Name:     "seed",
						Aliases:  []string{"s"},
						Usage:    "Seed track ID (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Candidate scope: liked_songs or all_music",
						Value: "liked_songs",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of recommendations",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export recommendations to a file",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: txt, csv, or json",
						Value: "txt",
					},
				},
				Action: r.EnhanceRecommend,
			},
			{
				Name:  "add",
				Usage: "Mark recommended tracks as added to your library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "session",
						Usage:    "Enhancement session ID (see 'muse enhance sessions')",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track ID to mark as added (repeatable)",
						Required: true,
					},
				},
				Action: r.EnhanceAdd,
			},
			{
				Name:  "sessions",
				Usage: "List past recommendation sessions",
				Flags: []cli.Flag{
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.EnhanceSessions,
			},
		},
	}
}
