// YouTube Music [SearchService] implementation
//
// Communicates with the FastAPI proxy server wrapping the ytmusicapi
// Python library. Only the search and album-tracks endpoints are used;
// authentication is a browser headers file forwarded per request.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultProxyURL     = "http://127.0.0.1:8080"
	defaultProxyTimeout = 15 * time.Second
	defaultProxyRate    = 5.0
	watchURLPrefix      = "https://music.youtube.com/watch?v="
)

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbumRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeResult represents one search result or album track from the proxy.
// Songs carry a videoId; album containers carry a browseId instead.
type YouTubeResult struct {
	VideoID     string          `json:"videoId"`
	BrowseID    string          `json:"browseId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbumRef `json:"album"`
	DurationSec int             `json:"duration_seconds"`
	Year        string          `json:"year,omitempty"`
}

func (r YouTubeResult) toCandidate() models.Candidate {
	artists := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		artists = append(artists, a.Name)
	}

	locator := r.VideoID
	if locator == "" {
		locator = r.BrowseID
	}

	candidate := models.Candidate{
		Title:    r.Title,
		Artists:  artists,
		Duration: r.DurationSec,
		Locator:  locator,
	}

	if r.Album != nil {
		candidate.Album = r.Album.Name
	}

	return candidate
}

// WatchURL converts a song locator into a playable YouTube Music URL.
func WatchURL(locator string) string {
	return watchURLPrefix + locator
}

// YouTubeService implements [SearchService] against the ytmusicapi proxy.
// Requests share a token-bucket rate limiter and a per-call timeout so a
// stalled proxy surfaces as a transient error instead of a hang.
type YouTubeService struct {
	baseURL     string
	headersPath string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewYouTubeService creates a proxy-backed search service from config,
// falling back to defaults for any unset field.
func NewYouTubeService(cfg shared.SearchConfig) *YouTubeService {
	baseURL := cfg.ProxyURL
	if baseURL == "" {
		baseURL = defaultProxyURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = defaultProxyTimeout
	}

	perSecond := cfg.RateLimit
	if perSecond <= 0 {
		perSecond = defaultProxyRate
	}

	return &YouTubeService{
		baseURL:     baseURL,
		headersPath: cfg.HeadersPath,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Name returns the backend name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrSearchTransient, err)
	}

	apiURL := y.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.headersPath != "" {
		req.Header.Set("X-Auth-File", y.headersPath)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSearchTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrSearchTransient, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrSearchTransient, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrSearchTransient, err)
		}
	}

	return nil
}

// Search issues a free-text query against the proxy.
//
// Calls GET /api/search on the proxy. The proxy's ignore_spelling flag is
// the inverse of spellingCorrection: exact lookups pin the literal query
// while the fuzzy fallback lets the index respell it.
func (y *YouTubeService) Search(ctx context.Context, query string, filter SearchFilter, limit int, spellingCorrection bool) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("filter", string(filter))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("ignore_spelling", strconv.FormatBool(!spellingCorrection))

	var results []YouTubeResult
	if err := y.doRequest(ctx, "/api/search?"+params.Encode(), &results); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, r.toCandidate())
	}

	return candidates, nil
}

// AlbumTracks fetches the full track list of an album container.
//
// Calls GET /api/albums/{id} on the proxy. Tracks inherit the container's
// title as their album name when the proxy omits it.
func (y *YouTubeService) AlbumTracks(ctx context.Context, albumID string) ([]models.Candidate, error) {
	var album struct {
		Title  string          `json:"title"`
		Tracks []YouTubeResult `json:"tracks"`
	}

	endpoint := fmt.Sprintf("/api/albums/%s", url.PathEscape(albumID))
	if err := y.doRequest(ctx, endpoint, &album); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(album.Tracks))
	for _, t := range album.Tracks {
		candidate := t.toCandidate()
		if candidate.Album == "" {
			candidate.Album = album.Title
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
