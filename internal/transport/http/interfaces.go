package http

import (
	"context"

	"tabinsight/internal/analytics"
	"tabinsight/internal/files"
	"tabinsight/internal/ml"
	"tabinsight/internal/services"
)

// DatasetServiceInterface defines the stored-table operations
type DatasetServiceInterface interface {
	Upload(ctx context.Context, original string, data []byte) (*services.UploadResult, error)
	UploadManual(ctx context.Context, grid [][]string) (*services.UploadResult, error)
	Preview(ctx context.Context, filename string) (*analytics.Preview, error)
	Options(ctx context.Context, filename, column string) ([]string, error)
	Cleanup(ctx context.Context) error
	Clean(ctx context.Context, filename string) (*services.CleanResult, error)
	Standardize(ctx context.Context, filename string) (*services.StandardizeResult, error)
	Mask(ctx context.Context, filename string) (*services.MaskResult, error)
	Save(ctx context.Context, in services.SaveInput) (*files.SaveResult, error)
}

// AnalysisServiceInterface defines the statistics and chart operations
type AnalysisServiceInterface interface {
	Descriptive(ctx context.Context, filename string, columns []string) ([]analytics.ColumnStats, error)
	Advanced(ctx context.Context, filename string, columns []string) (*analytics.CorrelationResult, error)
	TTest(ctx context.Context, filename, groupCol string, columns []string) ([]analytics.GroupComparison, error)
	Distribution(ctx context.Context, filename string, columns []string) ([]analytics.Distribution, error)
	Categorical(ctx context.Context, filename string) ([]analytics.CategoricalSummary, error)
	Radar(ctx context.Context, filename, idCol, target string) (*analytics.RadarProfile, error)
	Summary(ctx context.Context, filename string) ([]string, error)
}

// PredictionServiceInterface defines the regression operations
type PredictionServiceInterface interface {
	Predict(ctx context.Context, filename, target string, features []string) (*ml.TrainingResult, error)
	PredictNew(ctx context.Context, filename, target string, features []string) (*ml.ConfidenceRecord, error)
}
