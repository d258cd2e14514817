package ml

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

func newTestTrainer() *Trainer {
	return NewTrainer(config.DefaultAnalytics(), slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

// linearTable has y = 2x + 1 plus a little noise and an unrelated column z
func linearTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		y := 2*x + 1 + float64((i*3)%5-2)*0.1
		z := float64((i * 7) % 13)
		rows[i] = []string{
			dataset.FormatNumber(x),
			dataset.FormatNumber(z),
			dataset.FormatNumber(y),
			[]string{"a", "b"}[i%2],
		}
	}
	table, err := dataset.New([]string{"x", "z", "y", "label"}, rows, dataset.Options{})
	require.NoError(t, err)
	return table
}

func TestTrainTestSplit(t *testing.T) {
	s := TrainTestSplit(10, 0.2, 42)
	assert.Len(t, s.Test, 2)
	assert.Len(t, s.Train, 8)
	assert.True(t, sort.IntsAreSorted(s.Test))

	all := append(append([]int(nil), s.Train...), s.Test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	assert.Equal(t, s, TrainTestSplit(10, 0.2, 42))
	assert.Len(t, TrainTestSplit(11, 0.2, 42).Test, 3)
}

func TestFitTree_MemorizesTrainingData(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{10, 20, 30, 40}
	tree := fitTree(x, y, []int{0, 1, 2, 3}, 1, rand.New(rand.NewSource(1)))

	for i, row := range x {
		assert.Equal(t, y[i], tree.predict(row))
	}
	assert.Equal(t, 2.5, tree.nodes[0].threshold)
	assert.Greater(t, tree.importances[0], 0.0)
}

func TestFitForest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := make([][]float64, 60)
	y := make([]float64, 60)
	for i := range x {
		x[i] = []float64{float64(i), rng.Float64()}
		y[i] = 3 * float64(i)
	}

	f1, err := FitForest(x, y, 20, 42)
	require.NoError(t, err)
	f2, err := FitForest(x, y, 20, 42)
	require.NoError(t, err)

	probe := [][]float64{{10.5, 0.5}, {40, 0.1}}
	assert.Equal(t, f1.Predict(probe), f2.Predict(probe))

	imp := f1.Importances()
	require.Len(t, imp, 2)
	assert.InDelta(t, 1, imp[0]+imp[1], 1e-9)
	assert.Greater(t, imp[0], 0.9)

	_, err = FitForest(nil, nil, 10, 42)
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	actual := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, R2(actual, actual))
	assert.InDelta(t, 0.8, R2(actual, []float64{1.5, 2.5, 2.5, 3.5}), 1e-12)
	assert.Equal(t, 1.0, R2([]float64{5, 5}, []float64{5, 5}))
	assert.Equal(t, 0.0, R2([]float64{5, 5}, []float64{4, 6}))

	assert.Equal(t, 0.25, MSE(actual, []float64{1.5, 2.5, 2.5, 3.5}))
	assert.InDelta(t, 0.5, MAPE([]float64{2, 4}, []float64{1, 2}, 1e-9), 1e-6)

	assert.Equal(t, 0.0, TrendCorrelation(actual, []float64{2, 2, 2, 2}))
	assert.InDelta(t, 1, TrendCorrelation(actual, []float64{2, 4, 6, 8}), 1e-12)
}

func TestConfidence(t *testing.T) {
	tr := newTestTrainer()

	t.Run("mean-only predictions stay in the low-trust regime", func(t *testing.T) {
		actual := []float64{10, 12, 14, 16, 18}
		predicted := []float64{14, 14, 14, 14, 14}
		got := tr.Confidence(actual, predicted)
		assert.LessOrEqual(t, got, 45.0)
		accuracy := 1 - MAPE(actual, predicted, 1e-9)
		assert.InDelta(t, accuracy*45, got, 0.01)
	})

	t.Run("weak trend is penalized even with small error", func(t *testing.T) {
		actual := []float64{100, 101, 100, 101, 100, 101}
		predicted := []float64{100.5, 100.5, 100.6, 100.4, 100.5, 100.5}
		assert.LessOrEqual(t, tr.Confidence(actual, predicted), 45.0)
	})

	t.Run("blends accuracy and trend", func(t *testing.T) {
		actual := []float64{10, 20, 30, 40, 50}
		predicted := []float64{12, 18, 33, 39, 52}
		accuracy := 1 - MAPE(actual, predicted, 1e-9)
		corr := TrendCorrelation(actual, predicted)
		assert.InDelta(t, (accuracy*0.4+corr*0.6)*100, tr.Confidence(actual, predicted), 0.01)
	})

	t.Run("near perfect is clamped", func(t *testing.T) {
		actual := []float64{100, 200, 300, 400, 500}
		assert.Equal(t, 98.75, tr.Confidence(actual, actual))
		assert.Equal(t, 98.75, tr.Confidence(actual, []float64{101, 199, 301, 399, 501}))
	})
}

func TestTrainer_Train(t *testing.T) {
	tr := newTestTrainer()
	table := linearTable(t, 50)

	res, err := tr.Train(context.Background(), table, "y", []string{"x", "z"})
	require.NoError(t, err)

	assert.Greater(t, res.R2, 0.9)
	assert.Equal(t, []string{"x", "z"}, res.Features)
	require.Len(t, res.Importances, 2)
	assert.Greater(t, res.Importances[0], res.Importances[1])
	assert.InDelta(t, 100, res.Importances[0]+res.Importances[1], 0.02)
	assert.Len(t, res.Scatter, 10)
	assert.Equal(t, 40, res.TrainRows)
	assert.Equal(t, 10, res.TestRows)
	assert.Equal(t, math.Round(res.R2*1e4)/1e4, res.R2)

	again, err := tr.Train(context.Background(), table, "y", []string{"x", "z"})
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestTrainer_TrainIgnoresCancellation(t *testing.T) {
	tr := newTestTrainer()
	table := linearTable(t, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := tr.Train(ctx, table, "y", []string{"x", "z"})
	require.NoError(t, err)

	want, err := tr.Train(context.Background(), table, "y", []string{"x", "z"})
	require.NoError(t, err)
	assert.Equal(t, want, res)
}

func TestTrainer_Validation(t *testing.T) {
	tr := newTestTrainer()
	table := linearTable(t, 50)

	tests := []struct {
		name     string
		table    *dataset.Table
		target   string
		features []string
	}{
		{"no target", table, "", []string{"x"}},
		{"no features", table, "y", nil},
		{"unknown column", table, "y", []string{"ghost"}},
		{"categorical feature", table, "y", []string{"label"}},
		{"too few rows", linearTable(t, 9), "y", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Train(context.Background(), tt.table, tt.target, tt.features)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestTrainer_DropsIncompleteRows(t *testing.T) {
	rows := make([][]string, 11)
	for i := range rows {
		rows[i] = []string{dataset.FormatNumber(float64(i)), dataset.FormatNumber(float64(2 * i))}
	}
	rows[3][0] = ""
	rows[7][1] = "NA"
	table, err := dataset.New([]string{"x", "y"}, rows, dataset.Options{})
	require.NoError(t, err)

	_, err = newTestTrainer().Train(context.Background(), table, "y", []string{"x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTrainer_Score(t *testing.T) {
	tr := newTestTrainer()

	rec, err := tr.Score(context.Background(), linearTable(t, 50), "y", []string{"x", "z"})
	require.NoError(t, err)

	assert.Equal(t, 10, rec.SampleSize)
	assert.Len(t, rec.Labels, 10)
	assert.Equal(t, "Test point 1", rec.Labels[0])
	assert.Len(t, rec.RealValues, 10)
	assert.Len(t, rec.PredictedValues, 10)
	assert.Greater(t, rec.Confidence, 45.0)
	assert.LessOrEqual(t, rec.Confidence, 98.75)

	cfg := config.DefaultAnalytics()
	cfg.DemoSampleSize = 4
	small, err := NewTrainer(cfg, nil).Score(context.Background(), linearTable(t, 50), "y", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 4, small.SampleSize)
}
