package models

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/tomasvidal/trackseek/internal/shared"
)

// TrackDescriptor is the canonical, immutable record of one track's
// identifying metadata, sourced from the authoritative catalog.
//
// Two descriptors with identical name, artists, and duration describe the
// same resolution request even when other fields differ.
type TrackDescriptor struct {
	Name        string   `json:"name"`
	Artists     []string `json:"artists"` // primary artist first
	Album       string   `json:"album"`
	Duration    int      `json:"duration"` // whole seconds
	TrackNumber int      `json:"track_number"`
	TotalTracks int      `json:"total_tracks"`
	ReleaseDate string   `json:"release_date"` // ISO-like, year in first 4 chars
	Genres      []string `json:"genres,omitempty"`
}

// PrimaryArtist returns the first listed artist, or an empty string.
func (d TrackDescriptor) PrimaryArtist() string {
	if len(d.Artists) == 0 {
		return ""
	}
	return d.Artists[0]
}

// Key returns the stable identity hash over (name, artist tuple, duration)
// used for memoization and persistence lookups.
func (d TrackDescriptor) Key() string {
	h := fnv.New64a()
	h.Write([]byte(d.Name))
	for _, artist := range d.Artists {
		h.Write([]byte{0})
		h.Write([]byte(artist))
	}
	fmt.Fprintf(h, "\x00%d", d.Duration)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Validate checks the descriptor carries the fields resolution requires.
func (d TrackDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: empty track name", shared.ErrInvalidDescriptor)
	}
	if len(d.Artists) == 0 || strings.TrimSpace(d.Artists[0]) == "" {
		return fmt.Errorf("%w: empty artist list", shared.ErrInvalidDescriptor)
	}
	if d.Duration < 0 {
		return fmt.Errorf("%w: negative duration", shared.ErrInvalidDescriptor)
	}
	return nil
}

// Year returns the release year extracted from the release date.
func (d TrackDescriptor) Year() string {
	return shared.ReleaseYear(d.ReleaseDate)
}

// AlbumDescriptor is a catalog album with its ordered tracks.
type AlbumDescriptor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Artists     []string          `json:"artists"`
	ReleaseDate string            `json:"release_date,omitempty"`
	TotalTracks int               `json:"total_tracks,omitempty"`
	Genres      []string          `json:"genres,omitempty"`
	Tracks      []TrackDescriptor `json:"tracks"`
}

// PlaylistDescriptor is a catalog playlist with its ordered tracks.
type PlaylistDescriptor struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Owner       string            `json:"owner,omitempty"`
	Tracks      []TrackDescriptor `json:"tracks"`
}

// Candidate is one free-text result from the external search service,
// unverified. Candidates are transient and never persisted.
type Candidate struct {
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Duration int      `json:"duration"` // whole seconds
	Locator  string   `json:"locator"`  // service-specific id
	Album    string   `json:"album,omitempty"`
}

// MatchResult is the score breakdown for one candidate against one
// descriptor. Retained for explanation output even when the verdict fails.
type MatchResult struct {
	Candidate     Candidate `json:"candidate"`
	DurationScore float64   `json:"duration_score"`
	ArtistScore   float64   `json:"artist_score"`
	TitleScore    float64   `json:"title_score"`
	Bonus         float64   `json:"bonus"`
	Total         float64   `json:"total"`
	Pass          bool      `json:"pass"`
}

// Resolution is the engine's final outcome for one descriptor.
type Resolution struct {
	Locator  string      `json:"locator"`
	Strategy string      `json:"strategy"`
	Match    MatchResult `json:"match"`
	Cached   bool        `json:"cached"`
}
