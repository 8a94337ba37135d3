package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"wastesense/internal/analytics"
	apierrors "wastesense/internal/errors"
	"wastesense/internal/exporter"
	"wastesense/internal/middleware"
	"wastesense/internal/services"
)

// RiskHandler serves the risk dashboard: overview, single-distributor
// trends, quarter comparison and the top-risky ranking.
type RiskHandler struct {
	service      InsightProvider
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(service InsightProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RiskHandler {
	return &RiskHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "risk_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the risk routes
func (h *RiskHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/overview", h.Overview)
	r.Get("/distributor-trend", h.DistributorTrend)
	r.Get("/quarter-comparison", h.QuarterComparison)
	r.Get("/top-risky", h.TopRisky)
	r.Get("/export", h.Export)
	return r
}

// Overview handles GET /api/risk/overview. Year and month are multi-select
// filters; the "All Years"/"All Months" sentinels disable them. State and
// distributor parameters are accepted but ignored for the global charts.
func (h *RiskHandler) Overview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter analytics.OverviewFilter
	for _, y := range query["year"] {
		if y == "All Years" {
			filter.Years = nil
			break
		}
		year, err := strconv.Atoi(y)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "Year must be an integer"))
			return
		}
		filter.Years = append(filter.Years, year)
	}
	for _, m := range query["month"] {
		if m == "All Months" {
			filter.Months = nil
			break
		}
		filter.Months = append(filter.Months, m)
	}

	overview, err := h.service.RiskOverview(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, overview)
}

// DistributorTrend handles GET /api/risk/distributor-trend
func (h *RiskHandler) DistributorTrend(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	id, err := strconv.ParseInt(r.URL.Query().Get("distributor_id"), 10, 64)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("distributor_id", "A numeric distributor id is required"))
		return
	}

	h.logger.InfoContext(r.Context(), "fetching distributor trend",
		slog.String("request_id", reqID),
		slog.Int64("distributor_id", id),
	)

	trend, err := h.service.DistributorTrend(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, trend)
}

// comparisonParams are the raw quarter-comparison query parameters.
type comparisonParams struct {
	State        string `validate:"required"`
	QuarterA     string `validate:"required"`
	QuarterB     string `validate:"required"`
	Distributor1 string `validate:"required,number"`
	Distributor2 string `validate:"omitempty,number"`
}

// QuarterComparison handles GET /api/risk/quarter-comparison
func (h *RiskHandler) QuarterComparison(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := comparisonParams{
		State:        query.Get("state"),
		QuarterA:     query.Get("quarter_a"),
		QuarterB:     query.Get("quarter_b"),
		Distributor1: query.Get("distributor_1"),
		Distributor2: query.Get("distributor_2"),
	}

	if err := h.validate.Struct(params); err != nil {
		var details []apierrors.ValidationError
		for _, fe := range err.(validator.ValidationErrors) {
			details = append(details, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: "failed on " + fe.Tag(),
			})
		}
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors(details))
		return
	}

	qa, err := analytics.ParseQuarterLabel(params.QuarterA)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("quarter_a", err.Error()))
		return
	}
	qb, err := analytics.ParseQuarterLabel(params.QuarterB)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("quarter_b", err.Error()))
		return
	}

	id1, _ := strconv.ParseInt(params.Distributor1, 10, 64)
	distributors := []int64{id1}
	if params.Distributor2 != "" {
		id2, _ := strconv.ParseInt(params.Distributor2, 10, 64)
		distributors = append(distributors, id2)
	}

	comparison, err := h.service.CompareQuarters(r.Context(), services.ComparisonRequest{
		State:        params.State,
		QuarterA:     qa,
		QuarterB:     qb,
		Distributors: distributors,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, comparison)
}

// Export handles GET /api/risk/export, streaming the full
// distributor-quarter table as a CSV download.
func (h *RiskHandler) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.QuarterTable(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="distributor_quarter_table.csv"`)
	if err := exporter.WriteQuarterTable(w, rows, exporter.WriteOptions{BOMPrefix: true}); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// TopRisky handles GET /api/risk/top-risky
func (h *RiskHandler) TopRisky(w http.ResponseWriter, r *http.Request) {
	top, err := h.service.TopRisky(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, top)
}
