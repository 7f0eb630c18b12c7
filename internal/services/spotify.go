// Spotify [CatalogService] implementation
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
//
// The resolver only reads public catalog data, so the client-credentials
// flow is enough; no user login or callback server is involved.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyArtist represents a Spotify artist reference.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbumRef represents the album object embedded in a track payload.
type SpotifyAlbumRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
}

// SpotifyTrack represents a Spotify track. Simplified track objects inside
// album payloads omit the Album field.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbumRef `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	TrackNumber int             `json:"track_number"`
}

type spotifyPagedTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

// SpotifyAlbum represents a full album payload with its first page of tracks.
type SpotifyAlbum struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Artists     []SpotifyArtist    `json:"artists"`
	ReleaseDate string             `json:"release_date"`
	TotalTracks int                `json:"total_tracks"`
	Genres      []string           `json:"genres"`
	Tracks      spotifyPagedTracks `json:"tracks"`
}

type spotifyPlaylistItem struct {
	Track SpotifyTrack `json:"track"`
}

type spotifyPagedPlaylistItems struct {
	Items []spotifyPlaylistItem `json:"items"`
	Total int                   `json:"total"`
	Next  *string               `json:"next"`
}

type owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a full playlist payload with its first page of tracks.
type SpotifyPlaylist struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Owner       owner                     `json:"owner"`
	Tracks      spotifyPagedPlaylistItems `json:"tracks"`
}

// SpotifyService implements [CatalogService] against the Spotify Web API.
// An [clientcredentials.Config] client handles app-token acquisition and
// refresh transparently.
type SpotifyService struct {
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a catalog client from app credentials.
func NewSpotifyService(ctx context.Context, cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		httpClient: creds.Client(ctx),
		baseURL:    spotifyBaseURL,
	}, nil
}

// Name returns the catalog name.
func (s *SpotifyService) Name() string {
	return "Spotify"
}

func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, notFound error, result any) error {
	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return notFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func descriptorFromTrack(t SpotifyTrack) models.TrackDescriptor {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	return models.TrackDescriptor{
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		Duration:    t.DurationMS / 1000,
		TrackNumber: t.TrackNumber,
		TotalTracks: t.Album.TotalTracks,
		ReleaseDate: t.Album.ReleaseDate,
	}
}

// Track retrieves a single track descriptor by Spotify ID.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*models.TrackDescriptor, error) {
	var track SpotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", trackID)
	if err := s.doRequest(ctx, endpoint, shared.ErrTrackNotFound, &track); err != nil {
		return nil, err
	}

	descriptor := descriptorFromTrack(track)
	return &descriptor, nil
}

// Album retrieves an album with its ordered track descriptors, following
// pagination until the full track list is loaded.
func (s *SpotifyService) Album(ctx context.Context, albumID string) (*models.AlbumDescriptor, error) {
	var album SpotifyAlbum
	endpoint := fmt.Sprintf("/albums/%s", albumID)
	if err := s.doRequest(ctx, endpoint, shared.ErrAlbumNotFound, &album); err != nil {
		return nil, err
	}

	items := album.Tracks.Items
	offset := len(items)
	for album.Tracks.Next != nil && offset < album.Tracks.Total {
		var page spotifyPagedTracks
		pageEndpoint := fmt.Sprintf("/albums/%s/tracks?limit=50&offset=%d", albumID, offset)
		if err := s.doRequest(ctx, pageEndpoint, shared.ErrAlbumNotFound, &page); err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		items = append(items, page.Items...)
		offset += len(page.Items)
		album.Tracks.Next = page.Next
	}

	descriptor := &models.AlbumDescriptor{
		ID:          album.ID,
		Name:        album.Name,
		ReleaseDate: album.ReleaseDate,
		TotalTracks: album.TotalTracks,
		Genres:      album.Genres,
	}
	for _, a := range album.Artists {
		descriptor.Artists = append(descriptor.Artists, a.Name)
	}

	descriptor.Tracks = make([]models.TrackDescriptor, 0, len(items))
	for _, t := range items {
		td := descriptorFromTrack(t)
		// simplified album tracks carry no album object of their own
		td.Album = album.Name
		td.ReleaseDate = album.ReleaseDate
		td.TotalTracks = album.TotalTracks
		td.Genres = album.Genres
		descriptor.Tracks = append(descriptor.Tracks, td)
	}

	return descriptor, nil
}

// Playlist retrieves a playlist with its ordered track descriptors,
// following pagination until the full track list is loaded.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*models.PlaylistDescriptor, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	if err := s.doRequest(ctx, endpoint, shared.ErrPlaylistNotFound, &playlist); err != nil {
		return nil, err
	}

	items := playlist.Tracks.Items
	offset := len(items)
	for playlist.Tracks.Next != nil && offset < playlist.Tracks.Total {
		var page spotifyPagedPlaylistItems
		pageEndpoint := fmt.Sprintf("/playlists/%s/tracks?limit=50&offset=%d", playlistID, offset)
		if err := s.doRequest(ctx, pageEndpoint, shared.ErrPlaylistNotFound, &page); err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}
		items = append(items, page.Items...)
		offset += len(page.Items)
		playlist.Tracks.Next = page.Next
	}

	descriptor := &models.PlaylistDescriptor{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Owner:       playlist.Owner.DisplayName,
	}

	descriptor.Tracks = make([]models.TrackDescriptor, 0, len(items))
	for _, item := range items {
		// local files and removed tracks come back with an empty ID
		if item.Track.ID == "" && item.Track.Name == "" {
			continue
		}
		descriptor.Tracks = append(descriptor.Tracks, descriptorFromTrack(item.Track))
	}

	return descriptor, nil
}
