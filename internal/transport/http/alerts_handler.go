package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"wastesense/internal/analytics"
	apierrors "wastesense/internal/errors"
)

// AlertsHandler serves the alert feed
type AlertsHandler struct {
	service      InsightProvider
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(service InsightProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AlertsHandler {
	return &AlertsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "alerts_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the alert routes
func (h *AlertsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.List)
	return r
}

// List handles GET /api/alerts. Severity, distributor and state filters are
// optional; the "ALL" sentinel (any case) disables a filter, matching the
// dashboard's dropdown defaults.
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter analytics.AlertFilter
	if sev := query.Get("severity"); sev != "" && !isAllSentinel(sev) {
		switch analytics.Severity(strings.ToUpper(sev)) {
		case analytics.SeverityHigh, analytics.SeverityMedium, analytics.SeverityLow:
			filter.Severity = analytics.Severity(strings.ToUpper(sev))
		default:
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("severity", "Severity must be HIGH, MEDIUM or LOW"))
			return
		}
	}
	if dist := query.Get("distributor"); dist != "" && !isAllSentinel(dist) {
		id, err := strconv.ParseInt(dist, 10, 64)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("distributor", "Distributor must be a numeric id"))
			return
		}
		filter.DistributorID = id
	}
	if state := query.Get("state"); state != "" && !isAllSentinel(state) {
		filter.State = state
	}

	report, err := h.service.Alerts(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

func isAllSentinel(v string) bool {
	return strings.EqualFold(v, "ALL")
}
