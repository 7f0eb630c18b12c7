package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomasvidal/trackseek/internal/shared"
)

func newTestSpotifyService(t *testing.T, handler http.HandlerFunc) *SpotifyService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &SpotifyService{
		httpClient: server.Client(),
		baseURL:    server.URL,
	}
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		_, err := NewSpotifyService(context.Background(), shared.SpotifyConfig{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("err = %v, want ErrMissingCredentials", err)
		}
	})

	t.Run("creates client with credentials", func(t *testing.T) {
		svc, err := NewSpotifyService(context.Background(), shared.SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
		})
		if err != nil {
			t.Fatalf("NewSpotifyService failed: %v", err)
		}
		if svc.Name() != "Spotify" {
			t.Errorf("Name = %q", svc.Name())
		}
	})
}

func TestSpotifyServiceTrack(t *testing.T) {
	t.Run("maps track payload to descriptor", func(t *testing.T) {
		svc := newTestSpotifyService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tracks/track1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(SpotifyTrack{
				ID:   "track1",
				Name: "Yellow",
				Artists: []SpotifyArtist{
					{Name: "Coldplay"},
				},
				Album: SpotifyAlbumRef{
					Name:        "Parachutes",
					ReleaseDate: "2000-07-10",
					TotalTracks: 10,
				},
				DurationMS:  266773,
				TrackNumber: 5,
			})
		})

		descriptor, err := svc.Track(context.Background(), "track1")
		if err != nil {
			t.Fatalf("Track failed: %v", err)
		}

		if descriptor.Name != "Yellow" {
			t.Errorf("Name = %q", descriptor.Name)
		}
		if descriptor.Duration != 266 {
			t.Errorf("Duration = %d, want ms truncated to 266", descriptor.Duration)
		}
		if descriptor.Album != "Parachutes" || descriptor.TrackNumber != 5 || descriptor.TotalTracks != 10 {
			t.Errorf("descriptor mapped wrong: %+v", descriptor)
		}
		if descriptor.Year() != "2000" {
			t.Errorf("Year = %q", descriptor.Year())
		}
		if descriptor.PrimaryArtist() != "Coldplay" {
			t.Errorf("PrimaryArtist = %q", descriptor.PrimaryArtist())
		}
	})

	t.Run("missing track returns sentinel", func(t *testing.T) {
		svc := newTestSpotifyService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := svc.Track(context.Background(), "nope")
		if !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("err = %v, want ErrTrackNotFound", err)
		}
	})
}

func TestSpotifyServiceAlbum(t *testing.T) {
	t.Run("follows pagination and fills album fields", func(t *testing.T) {
		svc := newTestSpotifyService(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/albums/album1":
				next := "https://api.spotify.com/v1/albums/album1/tracks?offset=1"
				json.NewEncoder(w).Encode(SpotifyAlbum{
					ID:          "album1",
					Name:        "Parachutes",
					Artists:     []SpotifyArtist{{Name: "Coldplay"}},
					ReleaseDate: "2000-07-10",
					TotalTracks: 2,
					Tracks: spotifyPagedTracks{
						Items: []SpotifyTrack{
							{Name: "Don't Panic", Artists: []SpotifyArtist{{Name: "Coldplay"}}, DurationMS: 139000, TrackNumber: 1},
						},
						Total: 2,
						Next:  &next,
					},
				})
			case "/albums/album1/tracks":
				if got := r.URL.Query().Get("offset"); got != "1" {
					t.Errorf("offset = %q", got)
				}
				json.NewEncoder(w).Encode(spotifyPagedTracks{
					Items: []SpotifyTrack{
						{Name: "Yellow", Artists: []SpotifyArtist{{Name: "Coldplay"}}, DurationMS: 266000, TrackNumber: 2},
					},
					Total: 2,
				})
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		})

		album, err := svc.Album(context.Background(), "album1")
		if err != nil {
			t.Fatalf("Album failed: %v", err)
		}

		if album.Name != "Parachutes" || len(album.Artists) != 1 {
			t.Errorf("album mapped wrong: %+v", album)
		}
		if len(album.Tracks) != 2 {
			t.Fatalf("got %d tracks, want 2 after pagination", len(album.Tracks))
		}

		yellow := album.Tracks[1]
		if yellow.Name != "Yellow" {
			t.Errorf("second track = %q", yellow.Name)
		}
		if yellow.Album != "Parachutes" {
			t.Errorf("simplified track album = %q, want container name", yellow.Album)
		}
		if yellow.ReleaseDate != "2000-07-10" || yellow.TotalTracks != 2 {
			t.Errorf("track did not inherit album metadata: %+v", yellow)
		}
	})

	t.Run("missing album returns sentinel", func(t *testing.T) {
		svc := newTestSpotifyService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := svc.Album(context.Background(), "nope")
		if !errors.Is(err, shared.ErrAlbumNotFound) {
			t.Errorf("err = %v, want ErrAlbumNotFound", err)
		}
	})
}

func TestSpotifyServicePlaylist(t *testing.T) {
	t.Run("skips removed items", func(t *testing.T) {
		svc := newTestSpotifyService(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SpotifyPlaylist{
				ID:   "pl1",
				Name: "roadtrip",
				Owner: owner{
					DisplayName: "tomas",
				},
				Tracks: spotifyPagedPlaylistItems{
					Items: []spotifyPlaylistItem{
						{Track: SpotifyTrack{ID: "t1", Name: "Yellow", Artists: []SpotifyArtist{{Name: "Coldplay"}}, DurationMS: 266000}},
						{},
					},
					Total: 2,
				},
			})
		})

		playlist, err := svc.Playlist(context.Background(), "pl1")
		if err != nil {
			t.Fatalf("Playlist failed: %v", err)
		}

		if playlist.Owner != "tomas" {
			t.Errorf("Owner = %q", playlist.Owner)
		}
		if len(playlist.Tracks) != 1 {
			t.Fatalf("got %d tracks, want 1 after skipping empty item", len(playlist.Tracks))
		}
		if playlist.Tracks[0].Name != "Yellow" {
			t.Errorf("track = %q", playlist.Tracks[0].Name)
		}
	})

	t.Run("missing playlist returns sentinel", func(t *testing.T) {
		svc := newTestSpotifyService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := svc.Playlist(context.Background(), "nope")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("err = %v, want ErrPlaylistNotFound", err)
		}
	})
}
