package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/infrastructure"
)

// tracker wraps one service operation in a span, a timer and a log line
type tracker struct {
	metrics *infrastructure.AnalyticsMetrics
	logger  *slog.Logger
}

// start opens the operation. The returned func must be called exactly once
// with the number of rows handled and the operation's error.
func (t tracker) start(ctx context.Context, op, filename string) (context.Context, func(rows int, err error)) {
	ctx, span := infrastructure.StartSpan(ctx, "service."+op,
		attribute.String("operation", op),
		attribute.String("filename", filename))
	began := time.Now()

	return ctx, func(rows int, err error) {
		defer span.End()
		duration := time.Since(began)

		var kind string
		if err != nil {
			kind = apperrors.KindOf(err).String()
			infrastructure.RecordError(ctx, err)

			level := slog.LevelError
			if k := apperrors.KindOf(err); k == apperrors.KindValidation || k == apperrors.KindConflict || k == apperrors.KindParse {
				level = slog.LevelWarn
			}
			t.logger.Log(ctx, level, "Operation failed",
				slog.String("operation", op),
				slog.String("filename", filename),
				slog.String("error_kind", kind),
				slog.String("error", err.Error()),
				slog.Duration("duration", duration))
		} else {
			t.logger.InfoContext(ctx, "Operation completed",
				slog.String("operation", op),
				slog.String("filename", filename),
				slog.Int("rows", rows),
				slog.Duration("duration", duration))
		}

		t.metrics.RecordOperation(ctx, op, rows, duration, kind)
	}
}
