// Package services defines the [SearchService] and [CatalogService]
// interfaces at the engine boundary and implements them for YouTube Music
// and Spotify.
//
// # Search Service
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping
// ytmusicapi. The browser headers file path is sent via X-Auth-File header
// on each request. Calls are synchronous HTTP requests gated by a
// token-bucket rate limiter and a per-call timeout.
//
// Every transport, status, or decode failure is wrapped in
// [shared.ErrSearchTransient] so the retry layer can distinguish it from a
// confirmed empty result. An empty result list is returned as a nil error.
//
// # Catalog Service
//
// [SpotifyService] reads public catalog data through the Spotify Web API
// using the OAuth2 client-credentials flow; the [clientcredentials.Config]
// client refreshes the app token transparently. Lookups that 404 return
// the matching sentinel:
//   - [shared.ErrTrackNotFound]
//   - [shared.ErrAlbumNotFound]
//   - [shared.ErrPlaylistNotFound]
//
// # API Mappings
//
// Both services convert provider JSON into engine types: Spotify payloads
// become [models.TrackDescriptor] (duration ms to whole seconds, primary
// artist first), proxy search results become [models.Candidate] with the
// videoId (or browseId for album containers) as the locator.
package services
