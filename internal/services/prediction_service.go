package services

import (
	"context"
	"log/slog"

	"tabinsight/internal/files"
	"tabinsight/internal/infrastructure"
	"tabinsight/internal/ml"
)

// PredictionService trains a fresh forest for every request. Nothing is
// cached between calls.
type PredictionService struct {
	store   *files.Store
	trainer *ml.Trainer
	track   tracker
}

// NewPredictionService creates a prediction service. metrics may be nil.
func NewPredictionService(store *files.Store, trainer *ml.Trainer, metrics *infrastructure.AnalyticsMetrics, logger *slog.Logger) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "prediction"))

	return &PredictionService{
		store:   store,
		trainer: trainer,
		track:   tracker{metrics: metrics, logger: logger},
	}
}

// Predict trains on filename and reports held-out fit and importances
func (s *PredictionService) Predict(ctx context.Context, filename, target string, features []string) (res *ml.TrainingResult, err error) {
	ctx, done := s.track.start(ctx, "predict", filename)
	rows := 0
	defer func() { done(rows, err) }()

	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if target == "" || len(features) == 0 {
		return nil, ErrTargetRequired
	}

	table, err := s.store.Load(filename)
	if err != nil {
		return nil, err
	}
	rows = table.Len()
	return s.trainer.Train(ctx, table, target, features)
}

// PredictNew trains on filename and scores confidence on a demo sample
func (s *PredictionService) PredictNew(ctx context.Context, filename, target string, features []string) (res *ml.ConfidenceRecord, err error) {
	ctx, done := s.track.start(ctx, "predict_new", filename)
	rows := 0
	defer func() { done(rows, err) }()

	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if target == "" || len(features) == 0 {
		return nil, ErrTargetRequired
	}

	table, err := s.store.Load(filename)
	if err != nil {
		return nil, err
	}
	rows = table.Len()
	return s.trainer.Score(ctx, table, target, features)
}
