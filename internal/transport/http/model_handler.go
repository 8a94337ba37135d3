package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"wastesense/internal/analytics"
	apierrors "wastesense/internal/errors"
)

// ModelHandler is the boundary to the external model collaborator. Training
// happens outside this service; the collaborator pushes its ranked feature
// importances here and the root-cause report renormalizes them on demand.
type ModelHandler struct {
	service      InsightProvider
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewModelHandler creates a new model handler
func NewModelHandler(service InsightProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ModelHandler {
	return &ModelHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "model_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the model routes
func (h *ModelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Put("/importances", h.SetImportances)
	return r
}

// importancesRequest is the collaborator's push payload.
type importancesRequest struct {
	Importances []analytics.FeatureImportance `json:"importances" validate:"required,min=1,dive"`
}

// SetImportances handles PUT /api/model/importances
func (h *ModelHandler) SetImportances(w http.ResponseWriter, r *http.Request) {
	var req importancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
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

	h.service.SetImportances(r.Context(), req.Importances)

	render.JSON(w, r, map[string]interface{}{
		"message":  "Feature importances updated",
		"features": len(req.Importances),
	})
}

// RootCauseHandler serves the root-cause report derived from the stored
// model importances.
type RootCauseHandler struct {
	service      InsightProvider
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRootCauseHandler creates a new root-cause handler
func NewRootCauseHandler(service InsightProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RootCauseHandler {
	return &RootCauseHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "rootcause_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the root-cause routes
func (h *RootCauseHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Report)
	return r
}

// Report handles GET /api/root-cause
func (h *RootCauseHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RootCause(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}
