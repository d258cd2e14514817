package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"tabinsight/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestOTelInitialization(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		EnableMetrics: true,
		EnableTracing: false,
		TraceExporter: "none",
		SampleRatio:   0.5,
		Environment:   "test",
	})

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 0.5, cfg.SampleRatio)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableTracing)
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *OTelConfig
		wantErr bool
	}{
		{
			name: "metrics only",
			cfg:  &OTelConfig{ServiceName: ServiceName, EnableMetrics: true},
		},
		{
			name: "tracing with no exporter",
			cfg:  &OTelConfig{ServiceName: ServiceName, EnableTracing: true, TraceExporter: "none"},
		},
		{
			name:    "unknown trace exporter",
			cfg:     &OTelConfig{ServiceName: ServiceName, EnableTracing: true, TraceExporter: "jaeger"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, providers.Shutdown(context.Background()))
		})
	}
}

func TestTraceCorrelation(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	ctx = WithTraceID(ctx, traceID)
	assert.Equal(t, traceID, GetTraceID(ctx))

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestAnalyticsMetrics(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAnalyticsMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.HTTPActiveRequests)
	assert.NotNil(t, metrics.OperationsTotal)
	assert.NotNil(t, metrics.OperationDuration)
	assert.NotNil(t, metrics.OperationErrors)
	assert.NotNil(t, metrics.RowsProcessed)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordOperation(ctx, "clean", 120, 15*time.Millisecond, "")
		metrics.RecordOperation(ctx, "predict", 0, time.Second, "validation")
	})

	var nilMetrics *AnalyticsMetrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordOperation(ctx, "clean", 1, time.Millisecond, "")
	})
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateAnalyticsMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordOperation(context.Background(), "describe", 10, time.Millisecond, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analytics_operations_total")
}

func TestSpanHelpers(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "analytics.describe")
	defer span.End()

	assert.True(t, span.IsRecording())
	assert.NotPanics(t, func() {
		RecordError(ctx, errors.New("boom"))
		RecordError(context.Background(), errors.New("no span"))
	})
}
