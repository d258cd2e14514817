package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
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

// HandleError logs err and writes the {status, message} envelope
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		err = ErrRequestTimeout
	}

	apiErr := FromError(err)
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("kind", KindOf(err).String()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", apiErr.StatusCode),
	}

	switch {
	case apiErr.StatusCode >= http.StatusInternalServerError:
		h.logger.ErrorContext(r.Context(), "request failed", attrs...)
	case apiErr.Status == StatusExists:
		h.logger.InfoContext(r.Context(), "save requires confirmation", attrs...)
	default:
		h.logger.WarnContext(r.Context(), "request rejected", attrs...)
	}

	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, Envelope{Status: apiErr.Status, Message: apiErr.Message})
}

// WriteError writes an error envelope without logging. Used by middleware
// that runs before a handler is resolved.
func WriteError(w http.ResponseWriter, r *http.Request, err *APIError) {
	render.Status(r, err.StatusCode)
	render.JSON(w, r, Envelope{Status: err.Status, Message: err.Message})
}
