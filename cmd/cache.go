package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/services"
)

// CacheList prints the persisted resolutions, optionally filtered by strategy or artist.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	resolutions, _, err := r.openStore()
	if err != nil {
		return err
	}

	criteria := map[string]any{
		"strategy": cmd.String("strategy"),
		"artist":   cmd.String("artist"),
	}

	rows, err := resolutions.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		payload := make([]map[string]any, 0, len(rows))
		for _, res := range rows {
			payload = append(payload, map[string]any{
				"id":       res.ID(),
				"track":    res.TrackName(),
				"artist":   res.Artist(),
				"album":    res.Album(),
				"duration": res.Duration(),
				"locator":  res.Locator(),
				"url":      services.WatchURL(res.Locator()),
				"strategy": res.Strategy(),
				"score":    res.Score(),
			})
		}
		return r.writeJSON(payload, cmd.Bool("pretty"))
	}

	if len(rows) == 0 {
		r.writePlain("No cached resolutions.\n")
		return nil
	}

	r.writePlainHeader("Cached Resolutions")
	for i, res := range rows {
		r.writePlain("%d. %s - %s -> %s (%s, %.2f)\n",
			i+1, res.Artist(), res.TrackName(), res.Locator(), res.Strategy(), res.Score())
	}
	r.writePlain("\nTotal: %d\n", len(rows))

	return nil
}

// CacheClear removes all persisted resolutions.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	resolutions, _, err := r.openStore()
	if err != nil {
		return err
	}

	count, err := resolutions.DeleteAll()
	if err != nil {
		return err
	}

	r.resolver.Cache().Clear()

	r.logger.Info("cache cleared", "count", count)
	r.writePlain("✓ Cleared %d cached resolutions\n", count)

	return nil
}
