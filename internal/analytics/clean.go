package analytics

import (
	"context"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

// CleaningReport summarizes one Clean run
type CleaningReport struct {
	TotalRows        int            `json:"total_rows"`
	TotalMissing     int            `json:"total_missing"`
	MissingByColumn  map[string]int `json:"missing_by_column"`
	OutliersHandled  int            `json:"outliers_handled"`
	OutliersByColumn map[string]int `json:"outliers_by_column"`
	ProcessedColumns []string       `json:"processed_columns"`
}

// meanStd returns the sample mean and standard deviation of the present
// values. An undefined deviation (fewer than two values) is reported as 0.
func meanStd(present []float64) (float64, float64) {
	if len(present) == 0 {
		return math.NaN(), 0
	}
	mean, std := stat.MeanStdDev(present, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Clean imputes missing numeric cells with the column mean and clips every
// value into mean ± OutlierSigma·std. Mean and std are taken before
// imputation. A zero std collapses the bounds, so the whole column becomes
// its mean. The input table is not modified.
func (a *Analyzer) Clean(ctx context.Context, table *dataset.Table) (*dataset.Table, *CleaningReport, error) {
	out := table.Clone()
	report := &CleaningReport{
		TotalRows:        table.Len(),
		TotalMissing:     table.MissingCells(),
		MissingByColumn:  make(map[string]int, table.Width()),
		OutliersByColumn: make(map[string]int),
		ProcessedColumns: []string{},
	}
	for _, c := range table.Columns() {
		report.MissingByColumn[c.Name] = c.MissingCount()
	}

	for _, c := range out.OfKind(dataset.KindNumeric) {
		present := c.Present()
		if len(present) == 0 {
			// nothing to impute from; the column stays missing
			continue
		}

		mean, std := meanStd(present)
		if math.IsInf(mean, 0) || math.IsNaN(mean) || math.IsInf(std, 0) {
			return nil, nil, apperrors.Computationf("column %s: mean or deviation is not finite", c.Name)
		}
		lower := mean - a.cfg.OutlierSigma*std
		upper := mean + a.cfg.OutlierSigma*std

		values := make([]float64, c.Len())
		outliers := 0
		for i, v := range c.Numbers() {
			if c.IsMissing(i) {
				v = mean
			}
			if v < lower || v > upper {
				outliers++
			}
			values[i] = math.Min(math.Max(v, lower), upper)
		}
		c.SetNumbers(values)

		report.OutliersByColumn[c.Name] = outliers
		report.OutliersHandled += outliers
		report.ProcessedColumns = append(report.ProcessedColumns, c.Name)
	}

	a.logger.InfoContext(ctx, "Table cleaned",
		slog.Int("rows", report.TotalRows),
		slog.Int("missing", report.TotalMissing),
		slog.Int("outliers", report.OutliersHandled),
		slog.Int("columns", len(report.ProcessedColumns)))

	return out, report, nil
}

// Standardize rescales every numeric column to z-scores. A column with zero
// deviation becomes all zeros, missing cells included. Other missing cells
// stay missing.
func (a *Analyzer) Standardize(ctx context.Context, table *dataset.Table) (*dataset.Table, error) {
	out := table.Clone()
	scaled := 0

	for _, c := range out.OfKind(dataset.KindNumeric) {
		present := c.Present()
		if len(present) == 0 {
			continue
		}
		mean, std := meanStd(present)
		if math.IsInf(mean, 0) || math.IsInf(std, 0) {
			return nil, apperrors.Computationf("column %s: mean or deviation is not finite", c.Name)
		}

		values := make([]float64, c.Len())
		for i, v := range c.Numbers() {
			switch {
			case std == 0:
				values[i] = 0
			case c.IsMissing(i):
				values[i] = math.NaN()
			default:
				values[i] = (v - mean) / std
			}
		}
		c.SetNumbers(values)
		scaled++
	}

	a.logger.InfoContext(ctx, "Table standardized",
		slog.Int("rows", table.Len()),
		slog.Int("columns", scaled))

	return out, nil
}
