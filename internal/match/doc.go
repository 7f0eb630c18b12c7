// Package match implements the pure text-matching primitives of the
// resolution engine: free-text normalization, string similarity, and
// candidate scoring against a catalog descriptor.
//
// Two scoring profiles exist. The weighted profile combines duration,
// artist overlap, and title similarity into an additive score with a
// strictness-dependent acceptance threshold. The gated profile is the
// older boolean policy: dynamic per-field thresholds plus a hard three
// second duration window. A [Scorer] applies exactly one profile.
package match
