// Package resolver turns catalog track descriptors into search-service
// locators.
//
// [Resolver.Resolve] is the single entry point. A request first hits the
// bounded LRU cache; on a miss the [Orchestrator] runs the search
// strategies in priority order (exact, album context, fuzzy), scoring
// every candidate with the configured [match.Scorer] and short-circuiting
// on the first strategy that produces a passing candidate. Transient
// search failures abort the whole pass and are retried up to the attempt
// budget; a confirmed empty outcome surfaces as [shared.ErrNoMatch] and is
// never retried.
//
// Only successful resolutions are cached, so a no-match can succeed on a
// later call once the external index has caught up.
package resolver
