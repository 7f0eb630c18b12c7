package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/services"
	"github.com/tomasvidal/trackseek/internal/shared"
)

// TrackResolver resolves one descriptor to a locator. Satisfied by [resolver.Resolver].
type TrackResolver interface {
	Resolve(ctx context.Context, descriptor models.TrackDescriptor) (*models.Resolution, error)
}

// ResolutionStore lists persisted resolutions. Satisfied by [repositories.ResolutionRepository].
type ResolutionStore interface {
	List(criteria map[string]any) ([]*models.PersistedResolution, error)
}

// API is the [Handler] serving the resolution endpoints.
type API struct {
	resolver TrackResolver
	store    ResolutionStore
	log      *log.Logger
}

// NewAPI creates the resolution API handler. store may be nil when persistence
// is not configured; the resolutions endpoint then reports 503.
func NewAPI(resolver TrackResolver, store ResolutionStore, logger *log.Logger) *API {
	return &API{resolver: resolver, store: store, log: logger}
}

// Routes returns the method-qualified patterns served by the API.
func (a *API) Routes() []string {
	return []string{
		"POST /api/resolve",
		"GET /api/resolutions",
		"GET /api/health",
	}
}

// ServeHTTP dispatches to the endpoint handlers by path.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/resolve":
		a.handleResolve(w, r)
	case "/api/resolutions":
		a.handleResolutions(w, r)
	case "/api/health":
		a.handleHealth(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (a *API) handleResolve(w http.ResponseWriter, r *http.Request) {
	var descriptor models.TrackDescriptor
	if err := json.NewDecoder(r.Body).Decode(&descriptor); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resolution, err := a.resolver.Resolve(r.Context(), descriptor)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, shared.ErrInvalidDescriptor):
			status = http.StatusBadRequest
		case errors.Is(err, shared.ErrNoMatch):
			status = http.StatusNotFound
		case errors.Is(err, shared.ErrSearchTransient):
			status = http.StatusBadGateway
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resolution": resolution,
		"url":        services.WatchURL(resolution.Locator),
	})
}

// resolutionPayload is the wire form of a persisted resolution.
type resolutionPayload struct {
	ID        string    `json:"id"`
	Track     string    `json:"track"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album,omitempty"`
	Duration  int       `json:"duration"`
	Locator   string    `json:"locator"`
	URL       string    `json:"url"`
	Strategy  string    `json:"strategy"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *API) handleResolutions(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	criteria := map[string]any{
		"strategy": r.URL.Query().Get("strategy"),
		"artist":   r.URL.Query().Get("artist"),
	}

	resolutions, err := a.store.List(criteria)
	if err != nil {
		a.log.Error("failed to list resolutions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list resolutions")
		return
	}

	payload := make([]resolutionPayload, 0, len(resolutions))
	for _, res := range resolutions {
		payload = append(payload, resolutionPayload{
			ID:        res.ID(),
			Track:     res.TrackName(),
			Artist:    res.Artist(),
			Album:     res.Album(),
			Duration:  res.Duration(),
			Locator:   res.Locator(),
			URL:       services.WatchURL(res.Locator()),
			Strategy:  res.Strategy(),
			Score:     res.Score(),
			CreatedAt: res.CreatedAt(),
			UpdatedAt: res.UpdatedAt(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resolutions": payload,
		"count":       len(payload),
	})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// New builds an http.Server for the resolution API with request tagging and
// logging middleware applied.
func New(cfg shared.ServerConfig, api *API, logger *log.Logger) *http.Server {
	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger))
	router.Handler(api)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
