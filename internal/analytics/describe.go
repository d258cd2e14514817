package analytics

import (
	"gonum.org/v1/gonum/stat"

	"tabinsight/internal/dataset"
	"tabinsight/internal/numeric"
)

// ColumnStats is the descriptive summary of one numeric column. Pointer
// fields are null when the statistic is undefined.
type ColumnStats struct {
	Variable string   `json:"variable"`
	Count    int      `json:"count"`
	Mean     *float64 `json:"mean"`
	Median   *float64 `json:"median"`
	Std      *float64 `json:"std"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}

// Describe returns count, mean, median, std, min and max for each requested
// column, rounded to 4 places, in request order.
func (a *Analyzer) Describe(table *dataset.Table, columns []string) ([]ColumnStats, error) {
	cols, err := numberColumns(table, columns)
	if err != nil {
		return nil, err
	}

	out := make([]ColumnStats, 0, len(cols))
	for _, c := range cols {
		out = append(out, describeColumn(c))
	}
	return out, nil
}

func describeColumn(c *dataset.Column) ColumnStats {
	present := c.Present()
	s := ColumnStats{Variable: c.Name, Count: len(present)}
	if len(present) == 0 {
		return s
	}

	sorted := numeric.Sorted(present)
	mean, std := stat.MeanStdDev(present, nil)
	lo, hi := numeric.MinMax(sorted)

	s.Mean = numeric.Nullable(mean, 4)
	s.Median = numeric.Nullable(numeric.Quantile(sorted, 0.5), 4)
	s.Std = numeric.Nullable(std, 4)
	s.Min = numeric.Nullable(lo, 4)
	s.Max = numeric.Nullable(hi, 4)
	return s
}
