package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
)

type stubResolver struct {
	resolution *models.Resolution
	err        error
	last       models.TrackDescriptor
}

func (s *stubResolver) Resolve(_ context.Context, descriptor models.TrackDescriptor) (*models.Resolution, error) {
	s.last = descriptor
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.resolution, nil
}

type stubStore struct {
	resolutions []*models.PersistedResolution
	err         error
	criteria    map[string]any
}

func (s *stubStore) List(criteria map[string]any) ([]*models.PersistedResolution, error) {
	s.criteria = criteria
	return s.resolutions, s.err
}

func newTestServer(t *testing.T, resolver TrackResolver, store ResolutionStore) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	api := NewAPI(resolver, store, logger)

	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger))
	router.Handler(api)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestResolveEndpoint(t *testing.T) {
	descriptorJSON := `{"name":"Yellow","artists":["Coldplay"],"album":"Parachutes","duration":266}`

	t.Run("Success", func(t *testing.T) {
		resolver := &stubResolver{
			resolution: &models.Resolution{
				Locator:  "abc123",
				Strategy: "exact",
				Match:    models.MatchResult{Total: 0.94, Pass: true},
			},
		}
		server := newTestServer(t, resolver, nil)

		resp := postJSON(t, server.URL+"/api/resolve", descriptorJSON)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		body := decodeBody(t, resp)
		resolution, ok := body["resolution"].(map[string]any)
		if !ok {
			t.Fatalf("response missing resolution object: %v", body)
		}
		if resolution["locator"] != "abc123" || resolution["strategy"] != "exact" {
			t.Errorf("unexpected resolution payload: %v", resolution)
		}
		if body["url"] != "https://music.youtube.com/watch?v=abc123" {
			t.Errorf("unexpected url: %v", body["url"])
		}
		if resolver.last.Name != "Yellow" || resolver.last.Duration != 266 {
			t.Errorf("descriptor not decoded: %+v", resolver.last)
		}
	})

	t.Run("NoMatch", func(t *testing.T) {
		resolver := &stubResolver{err: fmt.Errorf("%w: %q by Coldplay", shared.ErrNoMatch, "Yellow")}
		server := newTestServer(t, resolver, nil)

		resp := postJSON(t, server.URL+"/api/resolve", descriptorJSON)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 for no match, got %d", resp.StatusCode)
		}
		if body := decodeBody(t, resp); body["error"] == "" {
			t.Error("expected error detail in body")
		}
	})

	t.Run("Transient", func(t *testing.T) {
		resolver := &stubResolver{err: fmt.Errorf("%w: proxy unreachable", shared.ErrSearchTransient)}
		server := newTestServer(t, resolver, nil)

		resp := postJSON(t, server.URL+"/api/resolve", descriptorJSON)
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("expected 502 for transient failure, got %d", resp.StatusCode)
		}
	})

	t.Run("InvalidDescriptor", func(t *testing.T) {
		server := newTestServer(t, &stubResolver{}, nil)

		resp := postJSON(t, server.URL+"/api/resolve", `{"name":"","artists":[],"duration":0}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for invalid descriptor, got %d", resp.StatusCode)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := newTestServer(t, &stubResolver{}, nil)

		resp := postJSON(t, server.URL+"/api/resolve", `{not json`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for malformed body, got %d", resp.StatusCode)
		}
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		server := newTestServer(t, &stubResolver{}, nil)

		resp, err := http.Get(server.URL + "/api/resolve")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestResolutionsEndpoint(t *testing.T) {
	now := time.Now().UTC()

	t.Run("List", func(t *testing.T) {
		store := &stubStore{
			resolutions: []*models.PersistedResolution{
				models.RehydrateResolution("res1", 1, "key1", "Yellow", "Coldplay", "Parachutes", 266, "abc123", "exact", 0.94, now, now, nil),
				models.RehydrateResolution("res2", 2, "key2", "Spies", "Coldplay", "Parachutes", 318, "def456", "fuzzy", 0.71, now, now, nil),
			},
		}
		server := newTestServer(t, &stubResolver{}, store)

		resp, err := http.Get(server.URL + "/api/resolutions?strategy=exact&artist=Coldplay")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		body := decodeBody(t, resp)
		if body["count"] != float64(2) {
			t.Errorf("expected count 2, got %v", body["count"])
		}
		rows, ok := body["resolutions"].([]any)
		if !ok || len(rows) != 2 {
			t.Fatalf("expected 2 resolution rows, got %v", body["resolutions"])
		}
		first := rows[0].(map[string]any)
		if first["track"] != "Yellow" || first["locator"] != "abc123" {
			t.Errorf("unexpected first row: %v", first)
		}
		if first["url"] != "https://music.youtube.com/watch?v=abc123" {
			t.Errorf("unexpected url: %v", first["url"])
		}

		if store.criteria["strategy"] != "exact" || store.criteria["artist"] != "Coldplay" {
			t.Errorf("query filters not forwarded: %v", store.criteria)
		}
	})

	t.Run("StoreFailure", func(t *testing.T) {
		store := &stubStore{err: fmt.Errorf("disk on fire")}
		server := newTestServer(t, &stubResolver{}, store)

		resp, err := http.Get(server.URL + "/api/resolutions")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", resp.StatusCode)
		}
	})

	t.Run("NoStore", func(t *testing.T) {
		server := newTestServer(t, &stubResolver{}, nil)

		resp, err := http.Get(server.URL + "/api/resolutions")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected 503 without a store, got %d", resp.StatusCode)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, &stubResolver{}, nil)

	resp, err := http.Get(server.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	server := newTestServer(t, &stubResolver{}, nil)

	t.Run("Generated", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.Header.Get(RequestIDHeader) == "" {
			t.Error("expected generated request ID header")
		}
	})

	t.Run("Honored", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/health", nil)
		req.Header.Set(RequestIDHeader, "req-42")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if got := resp.Header.Get(RequestIDHeader); got != "req-42" {
			t.Errorf("expected echoed request ID, got %q", got)
		}
	})
}

func TestBasicRouterMiddlewareOrder(t *testing.T) {
	router := NewBasicRouter()
	var order []string

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router.Use(tag("first"), tag("second"))
	router.Handle("GET /ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	want := []string{"first", "second", "handler"}
	for i, name := range want {
		if i >= len(order) || order[i] != name {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}
