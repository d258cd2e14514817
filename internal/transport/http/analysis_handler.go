package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AnalysisHandler serves the statistics and chart endpoints
type AnalysisHandler struct {
	base
	service AnalysisServiceInterface
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		base:    newBase(logger, "analysis"),
		service: service,
	}
}

// RegisterRoutes mounts the analysis endpoints on r
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/analyze", func(r chi.Router) {
		r.Post("/descriptive", h.Descriptive)
		r.Post("/advanced", h.Advanced)
		r.Post("/ttest", h.TTest)
		r.Post("/summary", h.Summary)
	})
	r.Route("/visualize", func(r chi.Router) {
		r.Post("/distribution", h.Distribution)
		r.Post("/categorical", h.Categorical)
		r.Post("/radar", h.Radar)
	})
}

// Descriptive handles POST /api/analyze/descriptive
func (h *AnalysisHandler) Descriptive(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Descriptive(r.Context(), req.Filename, req.Columns)
	h.reply(w, r, result, err)
}

// Advanced handles POST /api/analyze/advanced
func (h *AnalysisHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Advanced(r.Context(), req.Filename, req.Columns)
	h.reply(w, r, result, err)
}

// TTest handles POST /api/analyze/ttest
func (h *AnalysisHandler) TTest(w http.ResponseWriter, r *http.Request) {
	var req ttestRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.TTest(r.Context(), req.Filename, req.GroupCol, req.Columns)
	h.reply(w, r, result, err)
}

// Summary handles POST /api/analyze/summary
func (h *AnalysisHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !h.bind(w, r, &req) {
		return
	}
	insights, err := h.service.Summary(r.Context(), req.Filename)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	success(w, r, map[string]interface{}{"insights": insights})
}

// Distribution handles POST /api/visualize/distribution
func (h *AnalysisHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Distribution(r.Context(), req.Filename, req.Columns)
	h.reply(w, r, result, err)
}

// Categorical handles POST /api/visualize/categorical
func (h *AnalysisHandler) Categorical(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Categorical(r.Context(), req.Filename)
	h.reply(w, r, result, err)
}

// Radar handles POST /api/visualize/radar
func (h *AnalysisHandler) Radar(w http.ResponseWriter, r *http.Request) {
	var req radarRequest
	if !h.bind(w, r, &req) {
		return
	}
	result, err := h.service.Radar(r.Context(), req.Filename, req.IDCol, string(req.TargetVal))
	h.reply(w, r, result, err)
}
