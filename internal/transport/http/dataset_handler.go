package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/files"
	"tabinsight/internal/services"
)

// multipartMemory is the part of an upload kept in memory while parsing
const multipartMemory = 8 << 20

// DatasetHandler serves the upload, preview and derived-copy endpoints
type DatasetHandler struct {
	base
	service DatasetServiceInterface
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetServiceInterface, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		base:    newBase(logger, "dataset"),
		service: service,
	}
}

// RegisterRoutes mounts the dataset endpoints on r
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.Upload)
	r.Post("/upload_manual", h.UploadManual)
	r.Post("/cleanup", h.Cleanup)
	r.Post("/preview", h.Preview)
	r.Post("/get_options", h.Options)
	r.Post("/clean", h.Clean)
	r.Post("/standardize", h.Standardize)
	r.Post("/mask", h.Mask)
	r.Post("/save", h.Save)
}

// Upload handles POST /api/upload
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errors.HandleError(w, r, apperrors.ErrPayloadTooLarge)
			return
		}
		h.errors.HandleError(w, r, apperrors.ErrMissingFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errors.HandleError(w, r, apperrors.ErrMissingFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		h.errors.HandleError(w, r, apperrors.ErrEmptyFilename)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Upload received",
		slog.String("original_filename", header.Filename),
		slog.Int64("size_bytes", header.Size))

	result, err := h.service.Upload(r.Context(), header.Filename, data)
	h.reply(w, r, result, err)
}

// UploadManual handles POST /api/upload_manual
func (h *DatasetHandler) UploadManual(w http.ResponseWriter, r *http.Request) {
	var req manualUploadRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.UploadManual(r.Context(), req.strings())
	h.reply(w, r, result, err)
}

// Cleanup handles POST /api/cleanup
func (h *DatasetHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cleanup(r.Context()); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	success(w, r, map[string]string{"message": "storage cleared"})
}

// Preview handles POST /api/preview
func (h *DatasetHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Preview(r.Context(), req.Filename)
	h.reply(w, r, result, err)
}

// Options handles POST /api/get_options
func (h *DatasetHandler) Options(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if !h.bind(w, r, &req) {
		return
	}
	options, err := h.service.Options(r.Context(), req.Filename, req.Column)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	success(w, r, map[string]interface{}{"column": req.Column, "options": options})
}

// Clean handles POST /api/clean
func (h *DatasetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Clean(r.Context(), req.Filename)
	h.reply(w, r, result, err)
}

// Standardize handles POST /api/standardize
func (h *DatasetHandler) Standardize(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Standardize(r.Context(), req.Filename)
	h.reply(w, r, result, err)
}

// Mask handles POST /api/mask
func (h *DatasetHandler) Mask(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Mask(r.Context(), req.Filename)
	h.reply(w, r, result, err)
}

// Save handles POST /api/save. A name clash without confirmation answers
// with the exists envelope.
func (h *DatasetHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Save(r.Context(), services.SaveInput{
		Filename:           req.Filename,
		Columns:            req.Columns,
		Rows:               req.rows(),
		Mode:               files.SaveMode(req.SaveMode),
		OldFilename:        req.OldFilename,
		IsNewTable:         req.IsNewTable,
		OverwriteConfirmed: req.OverwriteConfirmed,
	})
	h.reply(w, r, result, err)
}
