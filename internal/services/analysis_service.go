package services

import (
	"context"
	"log/slog"

	"tabinsight/internal/analytics"
	"tabinsight/internal/dataset"
	"tabinsight/internal/files"
	"tabinsight/internal/infrastructure"
)

// AnalysisService answers the read-only statistics and chart requests.
// Every call re-reads the table from storage.
type AnalysisService struct {
	store    *files.Store
	analyzer *analytics.Analyzer
	track    tracker
}

// NewAnalysisService creates an analysis service. metrics may be nil.
func NewAnalysisService(store *files.Store, analyzer *analytics.Analyzer, metrics *infrastructure.AnalyticsMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "analysis"))

	return &AnalysisService{
		store:    store,
		analyzer: analyzer,
		track:    tracker{metrics: metrics, logger: logger},
	}
}

// Descriptive returns summary statistics of the requested columns
func (s *AnalysisService) Descriptive(ctx context.Context, filename string, columns []string) ([]analytics.ColumnStats, error) {
	var out []analytics.ColumnStats
	err := s.run(ctx, "descriptive", filename, func(ctx context.Context, table *dataset.Table) error {
		var err error
		out, err = s.analyzer.Describe(table, columns)
		return err
	})
	return out, err
}

// Advanced returns normality tests and the correlation matrix
func (s *AnalysisService) Advanced(ctx context.Context, filename string, columns []string) (*analytics.CorrelationResult, error) {
	var out *analytics.CorrelationResult
	err := s.run(ctx, "advanced", filename, func(ctx context.Context, table *dataset.Table) error {
		var err error
		out, err = s.analyzer.Correlate(table, columns)
		return err
	})
	return out, err
}

// TTest compares the two groups of groupCol on each column
func (s *AnalysisService) TTest(ctx context.Context, filename, groupCol string, columns []string) ([]analytics.GroupComparison, error) {
	if groupCol == "" {
		return nil, ErrGroupRequired
	}
	var out []analytics.GroupComparison
	err := s.run(ctx, "ttest", filename, func(ctx context.Context, table *dataset.Table) error {
		var err error
		out, err = s.analyzer.CompareGroups(table, groupCol, columns)
		return err
	})
	return out, err
}

// Distribution returns box plot and histogram data per column
func (s *AnalysisService) Distribution(ctx context.Context, filename string, columns []string) ([]analytics.Distribution, error) {
	var out []analytics.Distribution
	err := s.run(ctx, "distribution", filename, func(ctx context.Context, table *dataset.Table) error {
		var err error
		out, err = s.analyzer.Distributions(table, columns)
		return err
	})
	return out, err
}

// Categorical returns frequency tables of the categorical columns
func (s *AnalysisService) Categorical(ctx context.Context, filename string) ([]analytics.CategoricalSummary, error) {
	var out []analytics.CategoricalSummary
	err := s.run(ctx, "categorical", filename, func(ctx context.Context, table *dataset.Table) error {
		out = s.analyzer.Categorical(table)
		return nil
	})
	if out == nil && err == nil {
		out = []analytics.CategoricalSummary{}
	}
	return out, err
}

// Radar compares one entity's measures with the column means
func (s *AnalysisService) Radar(ctx context.Context, filename, idCol, target string) (*analytics.RadarProfile, error) {
	if idCol == "" || target == "" {
		return nil, ErrRadarRequired
	}
	var out *analytics.RadarProfile
	err := s.run(ctx, "radar", filename, func(ctx context.Context, table *dataset.Table) error {
		var err error
		out, err = s.analyzer.Radar(table, idCol, target)
		return err
	})
	return out, err
}

// Summary narrates the rule-based insights of a table
func (s *AnalysisService) Summary(ctx context.Context, filename string) ([]string, error) {
	var out []string
	err := s.run(ctx, "summary", filename, func(ctx context.Context, table *dataset.Table) error {
		out = s.analyzer.Summarize(ctx, table)
		return nil
	})
	return out, err
}

// run loads filename and hands it to fn inside a tracked operation
func (s *AnalysisService) run(ctx context.Context, op, filename string, fn func(context.Context, *dataset.Table) error) (err error) {
	ctx, done := s.track.start(ctx, op, filename)
	rows := 0
	defer func() { done(rows, err) }()

	if filename == "" {
		return ErrFilenameRequired
	}
	table, err := s.store.Load(filename)
	if err != nil {
		return err
	}
	rows = table.Len()
	return fn(ctx, table)
}
