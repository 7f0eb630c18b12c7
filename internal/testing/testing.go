// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/services"
)

// SearchCall records one Search invocation for call-count assertions.
type SearchCall struct {
	Query              string
	Filter             services.SearchFilter
	Limit              int
	SpellingCorrection bool
}

// MockSearchService is a scriptable test double for [services.SearchService].
// Results resolve per-query first, then per-filter defaults. Safe for
// concurrent use so batch tests can share one instance.
type MockSearchService struct {
	mu sync.Mutex

	// SongResults and AlbumResults are the default responses per filter.
	SongResults  []models.Candidate
	AlbumResults []models.Candidate

	// ByQuery overrides the defaults for an exact query string.
	ByQuery map[string][]models.Candidate

	// Tracks maps album locator to its track list.
	Tracks map[string][]models.Candidate

	// Err, when set, is returned by every call.
	Err error

	calls      []SearchCall
	albumCalls []string
}

func (m *MockSearchService) Search(ctx context.Context, query string, filter services.SearchFilter, limit int, spellingCorrection bool) ([]models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, SearchCall{
		Query:              query,
		Filter:             filter,
		Limit:              limit,
		SpellingCorrection: spellingCorrection,
	})

	if m.Err != nil {
		return nil, m.Err
	}
	if results, ok := m.ByQuery[query]; ok {
		return results, nil
	}
	if filter == services.FilterAlbums {
		return m.AlbumResults, nil
	}
	return m.SongResults, nil
}

func (m *MockSearchService) AlbumTracks(ctx context.Context, albumID string) ([]models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.albumCalls = append(m.albumCalls, albumID)

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks[albumID], nil
}

func (m *MockSearchService) Name() string { return "mock search" }

// Calls returns a copy of recorded Search invocations.
func (m *MockSearchService) Calls() []SearchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SearchCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SearchCount returns how many Search calls used the given filter.
func (m *MockSearchService) SearchCount(filter services.SearchFilter) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Filter == filter {
			count++
		}
	}
	return count
}

// CallCount returns total Search plus AlbumTracks invocations.
func (m *MockSearchService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls) + len(m.albumCalls)
}

// AlbumCalls returns a copy of recorded AlbumTracks locators.
func (m *MockSearchService) AlbumCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.albumCalls))
	copy(out, m.albumCalls)
	return out
}

// Reset clears recorded calls, keeping the scripted results.
func (m *MockSearchService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.albumCalls = nil
}

// MockCatalogService is a test double for [services.CatalogService].
type MockCatalogService struct {
	TrackResult    *models.TrackDescriptor
	AlbumResult    *models.AlbumDescriptor
	PlaylistResult *models.PlaylistDescriptor
	Err            error
}

func (m *MockCatalogService) Track(ctx context.Context, trackID string) (*models.TrackDescriptor, error) {
	return m.TrackResult, m.Err
}

func (m *MockCatalogService) Album(ctx context.Context, albumID string) (*models.AlbumDescriptor, error) {
	return m.AlbumResult, m.Err
}

func (m *MockCatalogService) Playlist(ctx context.Context, playlistID string) (*models.PlaylistDescriptor, error) {
	return m.PlaylistResult, m.Err
}

func (m *MockCatalogService) Name() string { return "mock catalog" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
