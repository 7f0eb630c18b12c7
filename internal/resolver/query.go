package resolver

import (
	"strings"

	"github.com/tomasvidal/trackseek/internal/models"
)

// Strategy identifies one search-and-score approach, tried in a fixed
// priority order.
type Strategy string

const (
	// StrategyExact searches songs for artist + name + album, scored strict.
	StrategyExact Strategy = "exact"
	// StrategyAlbum locates the album container, then scores its tracks.
	StrategyAlbum Strategy = "album"
	// StrategyFuzzy searches songs for artist + name with spelling
	// correction enabled, scored non-strict.
	StrategyFuzzy Strategy = "fuzzy"
)

// Query builds the free-text search query for a strategy. The external
// index accepts raw text, so non-empty fields are joined with single
// spaces and nothing is escaped.
func Query(descriptor models.TrackDescriptor, strategy Strategy) string {
	var fields []string

	switch strategy {
	case StrategyExact:
		fields = []string{descriptor.PrimaryArtist(), descriptor.Name, descriptor.Album}
	case StrategyAlbum:
		fields = []string{descriptor.Album, descriptor.PrimaryArtist()}
	case StrategyFuzzy:
		fields = []string{descriptor.PrimaryArtist(), descriptor.Name}
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			parts = append(parts, f)
		}
	}

	return strings.Join(parts, " ")
}
