package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tabinsight/internal/analytics"
	"tabinsight/internal/files"
	"tabinsight/internal/ml"
	"tabinsight/internal/services"
)

type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Upload(ctx context.Context, original string, data []byte) (*services.UploadResult, error) {
	args := m.Called(ctx, original, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadResult), args.Error(1)
}

func (m *MockDatasetService) UploadManual(ctx context.Context, grid [][]string) (*services.UploadResult, error) {
	args := m.Called(ctx, grid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.UploadResult), args.Error(1)
}

func (m *MockDatasetService) Preview(ctx context.Context, filename string) (*analytics.Preview, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Preview), args.Error(1)
}

func (m *MockDatasetService) Options(ctx context.Context, filename, column string) ([]string, error) {
	args := m.Called(ctx, filename, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDatasetService) Cleanup(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatasetService) Clean(ctx context.Context, filename string) (*services.CleanResult, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CleanResult), args.Error(1)
}

func (m *MockDatasetService) Standardize(ctx context.Context, filename string) (*services.StandardizeResult, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StandardizeResult), args.Error(1)
}

func (m *MockDatasetService) Mask(ctx context.Context, filename string) (*services.MaskResult, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MaskResult), args.Error(1)
}

func (m *MockDatasetService) Save(ctx context.Context, in services.SaveInput) (*files.SaveResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.SaveResult), args.Error(1)
}

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Descriptive(ctx context.Context, filename string, columns []string) ([]analytics.ColumnStats, error) {
	args := m.Called(ctx, filename, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.ColumnStats), args.Error(1)
}

func (m *MockAnalysisService) Advanced(ctx context.Context, filename string, columns []string) (*analytics.CorrelationResult, error) {
	args := m.Called(ctx, filename, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.CorrelationResult), args.Error(1)
}

func (m *MockAnalysisService) TTest(ctx context.Context, filename, groupCol string, columns []string) ([]analytics.GroupComparison, error) {
	args := m.Called(ctx, filename, groupCol, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.GroupComparison), args.Error(1)
}

func (m *MockAnalysisService) Distribution(ctx context.Context, filename string, columns []string) ([]analytics.Distribution, error) {
	args := m.Called(ctx, filename, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Distribution), args.Error(1)
}

func (m *MockAnalysisService) Categorical(ctx context.Context, filename string) ([]analytics.CategoricalSummary, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.CategoricalSummary), args.Error(1)
}

func (m *MockAnalysisService) Radar(ctx context.Context, filename, idCol, target string) (*analytics.RadarProfile, error) {
	args := m.Called(ctx, filename, idCol, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.RadarProfile), args.Error(1)
}

func (m *MockAnalysisService) Summary(ctx context.Context, filename string) ([]string, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) Predict(ctx context.Context, filename, target string, features []string) (*ml.TrainingResult, error) {
	args := m.Called(ctx, filename, target, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ml.TrainingResult), args.Error(1)
}

func (m *MockPredictionService) PredictNew(ctx context.Context, filename, target string, features []string) (*ml.ConfidenceRecord, error) {
	args := m.Called(ctx, filename, target, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ml.ConfidenceRecord), args.Error(1)
}
