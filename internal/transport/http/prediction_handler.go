package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PredictionHandler serves the regression endpoints
type PredictionHandler struct {
	base
	service PredictionServiceInterface
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(service PredictionServiceInterface, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		base:    newBase(logger, "prediction"),
		service: service,
	}
}

// RegisterRoutes mounts the prediction endpoints on r
func (h *PredictionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/predict", h.Predict)
	r.Post("/predict_new", h.PredictNew)
}

// Predict handles POST /api/predict
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Predict(r.Context(), req.Filename, req.TargetCol, req.FeatureCols)
	h.reply(w, r, result, err)
}

// PredictNew handles POST /api/predict_new
func (h *PredictionHandler) PredictNew(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.PredictNew(r.Context(), req.Filename, req.TargetCol, req.FeatureCols)
	h.reply(w, r, result, err)
}
