// package services defines interfaces for the engine's external collaborators
//
// YouTube Music (via proxy), Spotify
package services

import (
	"context"

	"github.com/tomasvidal/trackseek/internal/models"
)

// SearchFilter constrains what kind of items a search query returns.
type SearchFilter string

const (
	// FilterSongs restricts results to individual tracks.
	FilterSongs SearchFilter = "songs"
	// FilterAlbums restricts results to album containers.
	FilterAlbums SearchFilter = "albums"
)

// SearchService is the loosely-indexed search backend the engine resolves
// against. An empty result list is a normal outcome, never an error.
// Implementations wrap every transport or decode failure in
// shared.ErrSearchTransient so callers can retry.
type SearchService interface {
	// Search issues a free-text query and returns candidate records.
	// With FilterAlbums the candidate's Locator addresses an album
	// container usable with AlbumTracks.
	Search(ctx context.Context, query string, filter SearchFilter, limit int, spellingCorrection bool) ([]models.Candidate, error)

	// AlbumTracks fetches the full track list of an album container.
	AlbumTracks(ctx context.Context, albumID string) ([]models.Candidate, error)

	// Name returns the backend name for logs and reports.
	Name() string
}

// CatalogService supplies authoritative track descriptors. Lookups that
// find nothing return the matching shared.Err*NotFound sentinel.
type CatalogService interface {
	// Track retrieves a single track descriptor by catalog ID.
	Track(ctx context.Context, trackID string) (*models.TrackDescriptor, error)

	// Album retrieves an album with its ordered track descriptors.
	Album(ctx context.Context, albumID string) (*models.AlbumDescriptor, error)

	// Playlist retrieves a playlist with its ordered track descriptors.
	Playlist(ctx context.Context, playlistID string) (*models.PlaylistDescriptor, error)

	// Name returns the catalog name for logs and reports.
	Name() string
}
