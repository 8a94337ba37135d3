package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"wastesense/internal/analytics"
	"wastesense/internal/dataset"
	"wastesense/internal/middleware"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return NewProblemDetails(
			apiErr.StatusCode,
			problemTypeForStatus(apiErr.StatusCode),
			http.StatusText(apiErr.StatusCode),
			apiErr.Message,
			r.URL.Path,
		).WithExtension("error_code", apiErr.ErrorCode).
			WithExtension("details", apiErr.Details)
	}

	var schemaErr *analytics.SchemaError
	if errors.As(err, &schemaErr) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeSchema,
			"Invalid Dataset Schema",
			schemaErr.Error(),
			r.URL.Path,
		).WithExtension("missing_columns", schemaErr.Missing)
	}

	switch {
	case errors.Is(err, dataset.ErrNoDataset):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeDatasetState,
			"Dataset Not Loaded",
			"Dataset not uploaded. Please upload first.",
			r.URL.Path,
		)

	case errors.Is(err, analytics.ErrNoImportances):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeDatasetState,
			"Model Not Trained",
			"Feature importances not available. Train the model first.",
			r.URL.Path,
		)

	case errors.Is(err, analytics.ErrInsufficientFeatures):
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeInsufficient,
			"Insufficient Numeric Features",
			"Correlation analysis requires at least two numeric columns",
			r.URL.Path,
		)

	case errors.Is(err, analytics.ErrStateNotFound),
		errors.Is(err, analytics.ErrDistributorNotFound):
		return NewProblemDetails(
			http.StatusNotFound,
			TypeNotFound,
			"Resource Not Found",
			err.Error(),
			r.URL.Path,
		)

	default:
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing the request",
			r.URL.Path,
		)
	}
}

func problemTypeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return TypeValidation
	case http.StatusNotFound:
		return TypeNotFound
	default:
		return TypeInternal
	}
}
