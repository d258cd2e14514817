package ml

import (
	"context"
	"log/slog"
	"time"

	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/numeric"
)

// TrainingResult is the evaluation of one freshly trained forest
type TrainingResult struct {
	R2          float64      `json:"r2"`
	MSE         float64      `json:"mse"`
	Features    []string     `json:"features"`
	Importances []float64    `json:"importances"`
	Scatter     [][2]float64 `json:"scatter"`
	TrainRows   int          `json:"train_rows"`
	TestRows    int          `json:"test_rows"`
}

// Trainer fits and evaluates random forests on table columns
type Trainer struct {
	cfg    config.AnalyticsConfig
	logger *slog.Logger
}

// NewTrainer creates a trainer. A nil logger falls back to slog.Default.
func NewTrainer(cfg config.AnalyticsConfig, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{cfg: cfg, logger: logger.With(slog.String("component", "trainer"))}
}

// fitted is the in-memory state shared by Train and Score
type fitted struct {
	forest *Forest
	testX  [][]float64
	testY  []float64
	train  int
}

// Train fits a forest on 80% of the complete rows and evaluates it on the
// rest. Importances are percentages aligned with features.
func (t *Trainer) Train(ctx context.Context, table *dataset.Table, target string, features []string) (*TrainingResult, error) {
	m, err := t.fit(ctx, table, target, features)
	if err != nil {
		return nil, err
	}

	pred := m.forest.Predict(m.testX)
	res := &TrainingResult{
		R2:          numeric.Round(R2(m.testY, pred), 4),
		MSE:         numeric.Round(MSE(m.testY, pred), 4),
		Features:    features,
		Importances: make([]float64, len(features)),
		Scatter:     make([][2]float64, 0, min(len(pred), t.cfg.MaxScatterPairs)),
		TrainRows:   m.train,
		TestRows:    len(m.testY),
	}
	for i, v := range m.forest.Importances() {
		res.Importances[i] = numeric.Round(v*100, 2)
	}
	for i := 0; i < len(pred) && i < t.cfg.MaxScatterPairs; i++ {
		res.Scatter = append(res.Scatter, [2]float64{m.testY[i], pred[i]})
	}

	t.logger.InfoContext(ctx, "Model evaluated",
		slog.String("target", target),
		slog.Float64("r2", res.R2),
		slog.Float64("mse", res.MSE))

	return res, nil
}

// fit validates the columns, drops incomplete rows, splits and trains
func (t *Trainer) fit(ctx context.Context, table *dataset.Table, target string, features []string) (*fitted, error) {
	if target == "" || len(features) == 0 {
		return nil, apperrors.Validation("target and at least one feature are required")
	}

	cols := make([]*dataset.Column, 0, len(features)+1)
	for _, name := range append([]string{target}, features...) {
		c, ok := table.Column(name)
		if !ok {
			return nil, apperrors.Validation("column %s not found", name)
		}
		if !c.HoldsNumbers() {
			return nil, apperrors.Validation("column %s is not numeric", name)
		}
		cols = append(cols, c)
	}

	var x [][]float64
	var y []float64
	for i := 0; i < table.Len(); i++ {
		complete := true
		for _, c := range cols {
			if c.IsMissing(i) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		row := make([]float64, len(features))
		for j, c := range cols[1:] {
			row[j] = c.Numbers()[i]
		}
		x = append(x, row)
		y = append(y, cols[0].Numbers()[i])
	}
	if len(y) < t.cfg.MinTrainingRows {
		return nil, apperrors.Validation("only %d complete rows, at least %d are needed to train", len(y), t.cfg.MinTrainingRows)
	}

	split := TrainTestSplit(len(y), t.cfg.TestRatio, t.cfg.Seed)
	trainX, trainY := pick(x, y, split.Train)
	testX, testY := pick(x, y, split.Test)

	start := time.Now()
	forest, err := FitForest(trainX, trainY, t.cfg.Trees, t.cfg.Seed)
	if err != nil {
		return nil, apperrors.Computation(err)
	}

	t.logger.InfoContext(ctx, "Forest trained",
		slog.String("target", target),
		slog.Int("features", len(features)),
		slog.Int("train_rows", len(trainY)),
		slog.Int("test_rows", len(testY)),
		slog.Int("trees", t.cfg.Trees),
		slog.Duration("duration", time.Since(start)))

	return &fitted{forest: forest, testX: testX, testY: testY, train: len(trainY)}, nil
}

func pick(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	px := make([][]float64, len(idx))
	py := make([]float64, len(idx))
	for i, j := range idx {
		px[i] = x[j]
		py[i] = y[j]
	}
	return px, py
}
