package analytics

import (
	"log/slog"

	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

// Analyzer runs the table computations with a fixed set of thresholds
type Analyzer struct {
	cfg    config.AnalyticsConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(cfg config.AnalyticsConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "analyzer")),
	}
}

// Config returns the thresholds in use
func (a *Analyzer) Config() config.AnalyticsConfig { return a.cfg }

// numberColumns resolves a caller-supplied column list. Unknown names are
// dropped; a known column that does not hold numbers is rejected.
func numberColumns(table *dataset.Table, names []string) ([]*dataset.Column, error) {
	cols := table.Select(names)
	for _, c := range cols {
		if !c.HoldsNumbers() {
			return nil, apperrors.Validation("column %s is not numeric", c.Name)
		}
	}
	return cols, nil
}
