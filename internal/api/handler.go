// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fr4iser90/aboutME/internal/catalog"
	custom_errors "github.com/fr4iser90/aboutME/internal/errors"
	"github.com/fr4iser90/aboutME/internal/model"
	"github.com/fr4iser90/aboutME/internal/syncer"
)

// SyncTrigger is the administrative "sync now" entry point.
type SyncTrigger interface {
	SyncNow(ctx context.Context, t syncer.Target) (model.SyncResult, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	store  catalog.Store
	sync   SyncTrigger
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(store catalog.Store, sync SyncTrigger, logger *slog.Logger) http.Handler {
	h := &Handler{
		store:  store,
		sync:   sync,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/projects", h.listProjects)
		r.Post("/sync/{source}/{username}", h.syncNow)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listProjects returns projects from the catalog.
// GET /v1/projects                         -> all visible projects
// GET /v1/projects?source=github&username=x -> all projects for that pair
func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	username := r.URL.Query().Get("username")

	var (
		projects []model.Project
		err      error
	)
	if source != "" && username != "" {
		projects, err = h.store.ListBySource(r.Context(), model.SourceType(source), username)
	} else {
		projects, err = h.store.ListVisible(r.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list projects", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if projects == nil {
		projects = []model.Project{}
	}
	respondWithJSON(w, http.StatusOK, projects)
}

// syncNow triggers a synchronous sync run for one (source, username) pair.
// POST /v1/sync/{source}/{username}
func (h *Handler) syncNow(w http.ResponseWriter, r *http.Request) {
	target := syncer.Target{
		Source:   model.SourceType(chi.URLParam(r, "source")),
		Username: chi.URLParam(r, "username"),
	}

	res, err := h.sync.SyncNow(r.Context(), target)
	if err != nil {
		if errors.Is(err, custom_errors.ErrSyncInFlight) {
			respondWithError(w, http.StatusConflict, "A sync for this target is already running")
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An unknown remote username aborts the run; answer not-found so the
	// operator sees the typo rather than a successful-looking result.
	if res.SourceMissing {
		respondWithJSON(w, http.StatusNotFound, res)
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
