package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/formatter"
	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
	"github.com/tomasvidal/trackseek/internal/tasks"
)

// ResolveTrack resolves a single track descriptor to a locator.
//
// The descriptor comes either from the catalog (--id) or from the
// --name/--artist/--album/--duration flags.
func (r *Runner) ResolveTrack(ctx context.Context, cmd *cli.Command) error {
	descriptor, err := r.trackDescriptor(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Info("resolving track", "name", descriptor.Name, "artist", descriptor.PrimaryArtist())

	resolution, err := r.resolver.Resolve(ctx, *descriptor)
	if err != nil {
		if errors.Is(err, shared.ErrNoMatch) {
			r.writePlain("✗ No confident match for %q by %s\n", descriptor.Name, descriptor.PrimaryArtist())
			return nil
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"resolution": resolution,
			"url":        services.WatchURL(resolution.Locator),
		}, cmd.Bool("pretty"))
	}

	r.writePlain("✓ %s - %s\n", descriptor.Name, strings.Join(descriptor.Artists, ", "))
	r.writePlain("  %s\n", services.WatchURL(resolution.Locator))
	r.writePlain("  strategy: %s  score: %.2f", resolution.Strategy, resolution.Match.Total)
	if resolution.Cached {
		r.writePlain("  (cached)")
	}
	r.writePlain("\n")

	if cmd.Bool("explain") {
		match := resolution.Match
		r.writePlain("\n  duration: %.2f  artists: %.2f  title: %.2f  bonus: %.2f\n",
			match.DurationScore, match.ArtistScore, match.TitleScore, match.Bonus)
		r.writePlain("  candidate: %s - %s (%s)\n",
			match.Candidate.Title, strings.Join(match.Candidate.Artists, ", "), shared.FormatDuration(match.Candidate.Duration))
	}

	return nil
}

func (r *Runner) trackDescriptor(ctx context.Context, cmd *cli.Command) (*models.TrackDescriptor, error) {
	if id := cmd.String("id"); id != "" {
		if r.catalog == nil {
			return nil, fmt.Errorf("%w: catalog service not configured", shared.ErrServiceUnavailable)
		}
		return r.catalog.Track(ctx, id)
	}

	descriptor := &models.TrackDescriptor{
		Name:     cmd.String("name"),
		Artists:  cmd.StringSlice("artist"),
		Album:    cmd.String("album"),
		Duration: int(cmd.Int("duration")),
	}
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	return descriptor, nil
}

// ResolveAlbum resolves every track of a catalog album.
func (r *Runner) ResolveAlbum(ctx context.Context, cmd *cli.Command) error {
	return r.resolveBatch(ctx, cmd, models.SourceAlbum)
}

// ResolvePlaylist resolves every track of a catalog playlist.
func (r *Runner) ResolvePlaylist(ctx context.Context, cmd *cli.Command) error {
	return r.resolveBatch(ctx, cmd, models.SourcePlaylist)
}

func (r *Runner) resolveBatch(ctx context.Context, cmd *cli.Command, kind string) error {
	sourceID := cmd.String("id")

	opts := tasks.ResolveOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
		Save:       cmd.Bool("save"),
	}

	if opts.Save {
		resolutions, jobs, err := r.openStore()
		if err != nil {
			return err
		}
		r.engine.UseStore(resolutions, jobs)
	}

	r.logger.Info("starting batch resolution", "kind", kind, "id", sourceID)
	r.writePlain("Resolving %s %s...\n\n", kind, sourceID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.Persist:
				r.writePlain("\n💾 %s\n", update.Message)
			}
		}
	}()

	var result *tasks.BatchResult
	var err error
	if kind == models.SourceAlbum {
		result, err = r.engine.ResolveAlbum(ctx, progressCh, sourceID, opts)
	} else {
		result, err = r.engine.ResolvePlaylist(ctx, progressCh, sourceID, opts)
	}
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Resolution Complete")
	r.writePlain("Source: %s (%d tracks)\n", result.SourceName, result.Total)
	r.writePlain("Matched: %d/%d (%.1f%%)\n", result.Matched, result.Total, result.MatchPercentage)
	if result.Transient > 0 {
		r.writePlain("Transient failures: %d (re-run to retry)\n", result.Transient)
	}
	if result.JobID != "" {
		r.writePlain("Job: %s\n", result.JobID)
	}

	if result.Missed+result.Transient > 0 {
		r.writePlain("\nUnresolved tracks:\n")
		for _, outcome := range result.Outcomes {
			if !outcome.Matched() {
				r.writePlain("  - %s - %s\n", outcome.Descriptor.PrimaryArtist(), outcome.Descriptor.Name)
			}
		}
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		path, err := formatter.WriteReport(result, cmd.String("format"), outputPath)
		if err != nil {
			return err
		}
		r.writePlain("\nReport written to %s\n", path)
	}

	return nil
}
