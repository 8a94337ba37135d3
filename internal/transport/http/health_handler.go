package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler reports service liveness and dataset state
type HealthHandler struct {
	service InsightProvider
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service InsightProvider, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		started: time.Now(),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Health)
	return r
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	rows, uploadedAt, loaded := h.service.DatasetInfo()

	resp := map[string]interface{}{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"dataset_loaded": loaded,
	}
	if loaded {
		resp["dataset_rows"] = rows
		resp["dataset_uploaded_at"] = uploadedAt.UTC().Format(time.RFC3339)
	}
	render.JSON(w, r, resp)
}
