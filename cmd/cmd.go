// submodule cmd contains command definitions
package main

import (
	"github.com/tomasvidal/trackseek/internal/formatter"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles database and search proxy initialization
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database, and search authentication",
		Commands: []*cli.Command{
			{
				Name:   "db",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "search",
				Usage: "Configure search proxy authentication from browser headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from the browser's network inspector",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the generated headers file",
					},
				},
				Action: r.SetupSearch,
			},
		},
	}
}

// resolveCommand handles single-track and batch resolution
func resolveCommand(r *Runner) *cli.Command {
	batchFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "Catalog identifier of the source",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of concurrent resolution workers",
			Value: 5,
		},
		&cli.FloatFlag{
			Name:  "rate",
			Usage: "Maximum track dispatches per second",
			Value: 5.0,
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Persist resolutions and the job record",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write a report file to this path",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format (csv, markdown, text, json)",
			Value:   formatter.FormatText,
		},
		configFlag(),
	}

	return &cli.Command{
		Name:    "resolve",
		Aliases: []string{"res"},
		Usage:   "Resolve catalog tracks to locators",
		Commands: []*cli.Command{
			{
				Name:  "track",
				Usage: "Resolve a single track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Catalog track ID (overrides the descriptor flags)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Track name",
					},
					&cli.StringSliceFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist name (repeatable, primary first)",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Album name",
					},
					&cli.IntFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Track duration in seconds",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Show per-component match scores",
					},
					configFlag(),
				},
				Action: r.ResolveTrack,
			},
			{
				Name:   "album",
				Usage:  "Resolve every track of a catalog album",
				Flags:  batchFlags,
				Action: r.ResolveAlbum,
			},
			{
				Name:   "playlist",
				Usage:  "Resolve every track of a catalog playlist",
				Flags:  batchFlags,
				Action: r.ResolvePlaylist,
			},
		},
	}
}

// cacheCommand handles the persisted resolution cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage persisted resolutions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List persisted resolutions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Filter by resolution strategy (exact, album, fuzzy)",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by primary artist",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					configFlag(),
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove all persisted resolutions",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// serveCommand runs the resolution HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the resolution HTTP API",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive terminal UI for batch resolution",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Persist resolutions from TUI runs",
			},
			configFlag(),
		},
		Action: r.TUI,
	}
}
