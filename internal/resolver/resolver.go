package resolver

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomasvidal/trackseek/internal/match"
	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
)

// DefaultRetryAttempts is the total attempt budget per resolution.
const DefaultRetryAttempts = 3

// Resolver is the public entry point: validate the descriptor, consult
// the cache, run the orchestrator under the retry budget, memoize
// successes. Safe for concurrent use.
type Resolver struct {
	orchestrator *Orchestrator
	cache        *Cache
	attempts     int
	log          *log.Logger
}

// New builds a resolver around the given search service using the
// configured scoring profile, retry budget, cache size, and result
// limits. A nil logger falls back to stderr.
func New(search services.SearchService, cfg shared.ResolverConfig, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}

	scorer := match.NewScorer(match.ParseProfile(cfg.Profile))

	return &Resolver{
		orchestrator: NewOrchestrator(search, scorer, logger, cfg.ExactLimit, cfg.FuzzyLimit),
		cache:        NewCache(cfg.CacheSize),
		attempts:     attempts,
		log:          logger,
	}
}

// Cache exposes the memo cache for inspection.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve finds the best locator for descriptor, or fails explicitly:
// shared.ErrInvalidDescriptor for unusable input, shared.ErrNoMatch when
// every strategy exhausted, shared.ErrSearchTransient after the retry
// budget is spent on search failures.
func (r *Resolver) Resolve(ctx context.Context, descriptor models.TrackDescriptor) (*models.Resolution, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	key := descriptor.Key()
	if cached, ok := r.cache.Get(key); ok {
		r.log.Debug("cache hit", "track", descriptor.Name, "locator", cached.Locator)
		cached.Cached = true
		return &cached, nil
	}

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		resolution, err := r.orchestrator.Run(ctx, descriptor)
		if err == nil {
			r.cache.Put(key, *resolution)
			return resolution, nil
		}

		// no-match and anything else non-transient is final
		if !errors.Is(err, shared.ErrSearchTransient) {
			return nil, err
		}

		lastErr = err
		r.log.Warn("transient search failure",
			"attempt", attempt,
			"of", r.attempts,
			"track", descriptor.Name,
			"error", err)
	}

	return nil, lastErr
}
