package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var catalog services.CatalogService
	if svc, err := services.NewSpotifyService(ctx, config.Credentials.Spotify); err == nil {
		catalog = svc
	} else {
		logger.Debug("catalog service not configured", "error", err)
	}

	search := services.NewYouTubeService(config.Search)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Search:  search,
		Logger:  logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "trackseek",
		Usage:    "Resolve catalog tracks to YouTube Music locators",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
