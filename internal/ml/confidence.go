package ml

import (
	"context"
	"fmt"
	"log/slog"

	"tabinsight/internal/dataset"
	"tabinsight/internal/numeric"
)

// ConfidenceRecord is the trust score of a model on a demo sample
type ConfidenceRecord struct {
	Confidence      float64   `json:"confidence"`
	SampleSize      int       `json:"sampleSize"`
	Labels          []string  `json:"labels"`
	RealValues      []float64 `json:"realValues"`
	PredictedValues []float64 `json:"predictedValues"`
}

// Score trains like Train, predicts the first DemoSampleSize held-out rows
// and rates how far the predictions can be trusted.
func (t *Trainer) Score(ctx context.Context, table *dataset.Table, target string, features []string) (*ConfidenceRecord, error) {
	m, err := t.fit(ctx, table, target, features)
	if err != nil {
		return nil, err
	}

	size := min(t.cfg.DemoSampleSize, len(m.testY))
	actual := m.testY[:size]
	predicted := m.forest.Predict(m.testX[:size])

	rec := &ConfidenceRecord{
		Confidence:      t.Confidence(actual, predicted),
		SampleSize:      size,
		Labels:          demoLabels(size),
		RealValues:      numeric.RoundAll(actual, 2),
		PredictedValues: numeric.RoundAll(predicted, 2),
	}

	t.logger.InfoContext(ctx, "Confidence scored",
		slog.String("target", target),
		slog.Int("sample_size", size),
		slog.Float64("confidence", rec.Confidence))

	return rec, nil
}

// Confidence rates predictions against actual values on a 0..100 scale.
// When the sample R² or the trend correlation falls under its floor the
// model is treated as a near-constant predictor and only accuracy counts,
// scaled down to at most DegenerateScale.
func (t *Trainer) Confidence(actual, predicted []float64) float64 {
	r2 := R2(actual, predicted)
	corr := TrendCorrelation(actual, predicted)
	accuracy := max(0, 1-MAPE(actual, predicted, t.cfg.MAPEEpsilon))

	var score float64
	if r2 < t.cfg.ConfidenceR2Floor || corr < t.cfg.ConfidenceCorrMin {
		score = accuracy * t.cfg.DegenerateScale
	} else {
		score = (accuracy*t.cfg.AccuracyWeight + corr*t.cfg.TrendWeight) * 100
	}
	score = numeric.Round(score, 2)
	// scores between the clamp and the ceiling are capped as well, so no
	// reported value ever exceeds the clamp
	if score > t.cfg.ConfidenceCeiling || score > t.cfg.ConfidenceClamp {
		score = t.cfg.ConfidenceClamp
	}
	return score
}

func demoLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Test point %d", i+1)
	}
	return labels
}
