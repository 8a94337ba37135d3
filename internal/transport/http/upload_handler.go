package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wastesense/internal/errors"
	"wastesense/internal/middleware"
)

// UploadHandler handles dataset uploads
type UploadHandler struct {
	service      InsightProvider
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBytes     int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service InsightProvider, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "upload_handler")),
		errorHandler: errorHandler,
		maxBytes:     maxBytes,
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Upload)
	return r
}

// Upload handles POST /api/upload. It accepts a multipart "file" field
// holding a CSV or Excel dataset and rebuilds all derived state from it.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A dataset file is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "processing dataset upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	result, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"message":      "Dataset uploaded successfully",
		"rows":         result.Rows,
		"columns":      result.Columns,
		"quarter_rows": result.QuarterRows,
	})
}
