// package tasks implements batch resolution of catalog containers.
//
// The core abstraction is ResolveEngine, which fetches an album or
// playlist from the catalog and resolves every track against the search
// service. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/repositories"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
	"golang.org/x/time/rate"
)

// TrackResolver resolves a single descriptor to a locator.
// This abstraction allows for easier testing and decoupling from the
// concrete resolver implementation.
type TrackResolver interface {
	Resolve(ctx context.Context, descriptor models.TrackDescriptor) (*models.Resolution, error)
}

// TrackOutcome records the result of resolving one track of a batch.
type TrackOutcome struct {
	Descriptor models.TrackDescriptor // Original catalog descriptor
	Resolution *models.Resolution     // Resolved locator (nil on failure)
	Err        error                  // ErrNoMatch, ErrSearchTransient, or validation error
}

// Matched reports whether the track resolved successfully.
func (o TrackOutcome) Matched() bool {
	return o.Err == nil && o.Resolution != nil
}

// BatchResult aggregates all outcomes of one batch run.
type BatchResult struct {
	SourceKind      string         // album or playlist
	SourceID        string         // Catalog identifier
	SourceName      string         // Human-readable container name
	Outcomes        []TrackOutcome // Per-track outcomes in input order
	Total           int            // Total tracks processed
	Matched         int            // Tracks resolved to a locator
	Missed          int            // Confirmed no-match tracks
	Transient       int            // Tracks failed on repeated search errors, re-queueable
	MatchPercentage float64        // Success rate as percentage
	JobID           string         // Persisted job record ID, when saved
}

// ResolveOpts contains configuration for batch resolution runs.
type ResolveOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, cap: 10)
	RateLimit  float64 // Dispatches per second (default: 5)
	Save       bool    // Persist resolutions and a job record
}

// ResolveEngine resolves every track of a catalog container.
//
// Per-track resolutions are independent, so they run on a worker pool; the
// only shared state is the resolver's cache, which is concurrency-safe.
type ResolveEngine struct {
	catalog     services.CatalogService
	resolver    TrackResolver
	resolutions *repositories.ResolutionRepository
	jobs        *repositories.JobRepository
	log         *log.Logger
}

// NewResolveEngine creates an engine over the given catalog and resolver.
func NewResolveEngine(catalog services.CatalogService, resolver TrackResolver, logger *log.Logger) *ResolveEngine {
	return &ResolveEngine{
		catalog:  catalog,
		resolver: resolver,
		log:      logger,
	}
}

// UseStore attaches repositories so runs with Save enabled can persist
// resolutions and job records.
func (e *ResolveEngine) UseStore(resolutions *repositories.ResolutionRepository, jobs *repositories.JobRepository) {
	e.resolutions = resolutions
	e.jobs = jobs
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ResolveEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ResolveAlbum resolves every track of a catalog album.
func (e *ResolveEngine) ResolveAlbum(ctx context.Context, progress chan<- ProgressUpdate, albumID string, opts ResolveOpts) (*BatchResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchSourceUpdate(models.SourceAlbum, albumID))

	album, err := e.catalog.Album(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album: %w", err)
	}

	e.sendProgress(progress, foundSourceUpdate(album.Name, len(album.Tracks)))
	return e.runBatch(ctx, progress, models.SourceAlbum, album.ID, album.Name, album.Tracks, opts)
}

// ResolvePlaylist resolves every track of a catalog playlist.
func (e *ResolveEngine) ResolvePlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, opts ResolveOpts) (*BatchResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchSourceUpdate(models.SourcePlaylist, playlistID))

	playlist, err := e.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	e.sendProgress(progress, foundSourceUpdate(playlist.Name, len(playlist.Tracks)))
	return e.runBatch(ctx, progress, models.SourcePlaylist, playlist.ID, playlist.Name, playlist.Tracks, opts)
}

type resolveJob struct {
	index      int
	descriptor models.TrackDescriptor
}

type resolveResult struct {
	index   int
	outcome TrackOutcome
}

// runBatch fans the descriptors out to a rate-limited worker pool and
// collects outcomes back into input order.
func (e *ResolveEngine) runBatch(ctx context.Context, progress chan<- ProgressUpdate, kind, sourceID, sourceName string, descriptors []models.TrackDescriptor, opts ResolveOpts) (*BatchResult, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	total := len(descriptors)
	result := &BatchResult{
		SourceKind: kind,
		SourceID:   sourceID,
		SourceName: sourceName,
		Outcomes:   make([]TrackOutcome, total),
		Total:      total,
	}

	var job *models.ResolutionJob
	if opts.Save && e.jobs != nil {
		job = models.NewResolutionJob(0, kind, sourceID, sourceName, total)
		job.SetStatus(models.JobRunning)
		if err := e.jobs.Create(job); err != nil {
			return nil, fmt.Errorf("failed to record job: %w", err)
		}
		result.JobID = job.ID()
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan resolveJob, total)
	results := make(chan resolveResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.resolveWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for i, descriptor := range descriptors {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(progress, resolveTrackUpdate(i+1, total, descriptor))
			jobs <- resolveJob{index: i, descriptor: descriptor}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Outcomes[res.index] = res.outcome

		switch {
		case res.outcome.Matched():
			result.Matched++
			e.sendProgress(progress, trackResolvedUpdate(completed, total, res.outcome))
		case errors.Is(res.outcome.Err, shared.ErrSearchTransient):
			result.Transient++
			e.sendProgress(progress, trackFailedUpdate(completed, total, res.outcome))
		default:
			result.Missed++
			e.sendProgress(progress, trackFailedUpdate(completed, total, res.outcome))
		}
	}

	if result.Total > 0 {
		result.MatchPercentage = float64(result.Matched) / float64(result.Total) * 100
	}

	if opts.Save {
		if err := e.persist(progress, result, job); err != nil {
			return result, err
		}
	}

	e.sendProgress(progress, reportUpdate(result))
	return result, nil
}

// resolveWorker is a worker goroutine that resolves descriptors from the jobs channel.
func (e *ResolveEngine) resolveWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan resolveJob, results chan<- resolveResult) {
	defer wg.Done()

	for j := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		resolution, err := e.resolver.Resolve(ctx, j.descriptor)
		results <- resolveResult{
			index: j.index,
			outcome: TrackOutcome{
				Descriptor: j.descriptor,
				Resolution: resolution,
				Err:        err,
			},
		}
	}
}

// persist stores successful resolutions and finalizes the job record.
// One logical track keeps a single row, so repeat runs update in place.
func (e *ResolveEngine) persist(progress chan<- ProgressUpdate, result *BatchResult, job *models.ResolutionJob) error {
	if e.resolutions == nil {
		return fmt.Errorf("%w: resolution store not initialized", shared.ErrServiceUnavailable)
	}

	saved := 0
	for _, outcome := range result.Outcomes {
		if !outcome.Matched() {
			continue
		}

		saved++
		e.sendProgress(progress, persistUpdate(saved, result.Matched))

		record := models.NewPersistedResolution(0, outcome.Descriptor, *outcome.Resolution)
		existing, err := e.resolutions.GetByKey(record.DescriptorKey())
		if err == nil {
			record.SetID(existing.ID())
			record.SetSequence(existing.Sequence())
			if err := e.resolutions.Update(record); err != nil {
				return fmt.Errorf("failed to update resolution: %w", err)
			}
			continue
		}

		if err := e.resolutions.Create(record); err != nil {
			return fmt.Errorf("failed to save resolution: %w", err)
		}
	}

	if job != nil && e.jobs != nil {
		job.SetCounts(result.Matched, result.Missed, result.Transient)
		job.SetStatus(models.JobCompleted)
		if err := e.jobs.Update(job); err != nil {
			return fmt.Errorf("failed to finalize job: %w", err)
		}
	}

	return nil
}
