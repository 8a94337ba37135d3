package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wastesense/internal/errors"
)

// InventoryHandler serves the inventory dashboard endpoints
type InventoryHandler struct {
	service      InsightProvider
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service InsightProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InventoryHandler {
	return &InventoryHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "inventory_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the inventory routes
func (h *InventoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/overview", h.Overview)
	r.Get("/charts", h.Charts)
	r.Get("/distributor-status", h.DistributorStatus)
	return r
}

// Overview handles GET /api/inventory/overview
func (h *InventoryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.InventoryKPIs(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, kpis)
}

// Charts handles GET /api/inventory/charts
func (h *InventoryHandler) Charts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.service.InventoryCharts(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, charts)
}

// DistributorStatus handles GET /api/inventory/distributor-status
func (h *InventoryHandler) DistributorStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.DistributorStatus(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"distributors": rows,
	})
}
