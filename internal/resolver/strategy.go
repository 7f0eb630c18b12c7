package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tomasvidal/trackseek/internal/match"
	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
)

// strategyOrder runs cheapest and most reliable first; later strategies
// only fire after the previous one failed to produce a passing candidate.
var strategyOrder = []Strategy{StrategyExact, StrategyAlbum, StrategyFuzzy}

const (
	defaultExactLimit = 5
	defaultFuzzyLimit = 10
)

// Orchestrator runs the strategy sequence for one descriptor against the
// search service. Transient search failures abort the whole pass so the
// retry layer can rerun it; any other per-strategy failure is logged and
// the next strategy runs.
type Orchestrator struct {
	search     services.SearchService
	scorer     *match.Scorer
	log        *log.Logger
	exactLimit int
	fuzzyLimit int
}

// NewOrchestrator wires an orchestrator with per-strategy result limits.
func NewOrchestrator(search services.SearchService, scorer *match.Scorer, logger *log.Logger, exactLimit, fuzzyLimit int) *Orchestrator {
	if exactLimit <= 0 {
		exactLimit = defaultExactLimit
	}
	if fuzzyLimit <= 0 {
		fuzzyLimit = defaultFuzzyLimit
	}

	return &Orchestrator{
		search:     search,
		scorer:     scorer,
		log:        logger,
		exactLimit: exactLimit,
		fuzzyLimit: fuzzyLimit,
	}
}

// Run executes the strategies in priority order and returns the first
// accepted resolution, shared.ErrNoMatch once every strategy is exhausted,
// or a transient error when the search service failed.
func (o *Orchestrator) Run(ctx context.Context, descriptor models.TrackDescriptor) (*models.Resolution, error) {
	for _, strategy := range strategyOrder {
		result, err := o.attempt(ctx, descriptor, strategy)
		if err != nil {
			if errors.Is(err, shared.ErrSearchTransient) {
				return nil, err
			}
			o.log.Warn("strategy failed", "strategy", strategy, "track", descriptor.Name, "error", err)
			continue
		}
		if result == nil {
			o.log.Debug("no passing candidate", "strategy", strategy, "track", descriptor.Name)
			continue
		}

		o.log.Info("resolved",
			"strategy", strategy,
			"track", descriptor.Name,
			"locator", result.Candidate.Locator,
			"score", result.Total)

		return &models.Resolution{
			Locator:  result.Candidate.Locator,
			Strategy: string(strategy),
			Match:    *result,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q by %s", shared.ErrNoMatch, descriptor.Name, descriptor.PrimaryArtist())
}

func (o *Orchestrator) attempt(ctx context.Context, descriptor models.TrackDescriptor, strategy Strategy) (*models.MatchResult, error) {
	switch strategy {
	case StrategyExact:
		candidates, err := o.search.Search(ctx, Query(descriptor, strategy), services.FilterSongs, o.exactLimit, false)
		if err != nil {
			return nil, err
		}
		return o.selectBest(descriptor, candidates, true), nil

	case StrategyAlbum:
		containers, err := o.search.Search(ctx, Query(descriptor, strategy), services.FilterAlbums, 1, false)
		if err != nil {
			return nil, err
		}
		if len(containers) == 0 {
			return nil, nil
		}

		tracks, err := o.search.AlbumTracks(ctx, containers[0].Locator)
		if err != nil {
			return nil, err
		}
		return o.selectBest(descriptor, tracks, false), nil

	case StrategyFuzzy:
		candidates, err := o.search.Search(ctx, Query(descriptor, strategy), services.FilterSongs, o.fuzzyLimit, true)
		if err != nil {
			return nil, err
		}
		return o.selectBest(descriptor, candidates, false), nil
	}

	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

// selectBest scores every candidate and returns the winner, or nil when
// none clears the threshold. Ties go to the highest total, then the
// smallest duration delta, then the earliest result.
func (o *Orchestrator) selectBest(descriptor models.TrackDescriptor, candidates []models.Candidate, strict bool) *models.MatchResult {
	var best *models.MatchResult

	for _, candidate := range candidates {
		result := o.scorer.Score(candidate, descriptor, strict)

		o.log.Debug("scored candidate",
			"title", candidate.Title,
			"duration", result.DurationScore,
			"artist", result.ArtistScore,
			"similarity", result.TitleScore,
			"total", result.Total,
			"pass", result.Pass)

		if !result.Pass {
			continue
		}
		if best == nil || closerMatch(result, *best, descriptor) {
			r := result
			best = &r
		}
	}

	return best
}

// closerMatch reports whether a beats b. Comparisons are strict so equal
// candidates keep their original result order.
func closerMatch(a, b models.MatchResult, descriptor models.TrackDescriptor) bool {
	if a.Total != b.Total {
		return a.Total > b.Total
	}
	return durationDelta(a.Candidate, descriptor) < durationDelta(b.Candidate, descriptor)
}

func durationDelta(candidate models.Candidate, descriptor models.TrackDescriptor) int {
	delta := candidate.Duration - descriptor.Duration
	if delta < 0 {
		delta = -delta
	}
	return delta
}
