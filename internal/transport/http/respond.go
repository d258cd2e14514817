package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/middleware"
)

// base bundles what every handler needs to read a request and answer it
type base struct {
	validator *middleware.RequestValidator
	errors    *apperrors.ErrorHandler
	logger    *slog.Logger
}

func newBase(logger *slog.Logger, name string) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		validator: middleware.NewRequestValidator(),
		errors:    apperrors.NewErrorHandler(logger),
		logger:    logger.With(slog.String("handler", name)),
	}
}

// bind decodes the JSON body into dst and validates it. On failure the
// error response has already been written and false is returned.
func (b base) bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := b.validator.Decode(r, dst); err != nil {
		b.errors.HandleError(w, r, err)
		return false
	}
	return true
}

// success writes the success envelope
func success(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, apperrors.Envelope{Status: apperrors.StatusSuccess, Data: data})
}

// reply writes data or the error envelope for err
func (b base) reply(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if err != nil {
		b.errors.HandleError(w, r, err)
		return
	}
	success(w, r, data)
}
