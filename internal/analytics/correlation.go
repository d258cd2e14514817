package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/numeric"
)

// NormalityResult is the Shapiro-Wilk outcome for one column
type NormalityResult struct {
	Variable  string   `json:"variable"`
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"p_value"`
	IsNormal  bool     `json:"is_normal"`
}

// CorrelationResult bundles the correlation view of the selected columns.
// Matrix cells are flattened row-major as [row, col, value] triplets.
type CorrelationResult struct {
	Variables   []string          `json:"variables"`
	Normality   []NormalityResult `json:"normality"`
	Matrix      [][3]float64      `json:"correlation_matrix"`
	ScatterData [][2]float64      `json:"scatter_data"`
	ScatterVars []string          `json:"scatter_vars"`
}

// Correlate runs normality tests, builds the pairwise-complete Pearson
// matrix and samples a scatter plot of the first two selected columns.
func (a *Analyzer) Correlate(table *dataset.Table, columns []string) (*CorrelationResult, error) {
	cols, err := numberColumns(table, columns)
	if err != nil {
		return nil, err
	}
	if len(cols) < 2 {
		return nil, apperrors.Validation("too few variables: select at least two numeric columns")
	}

	res := &CorrelationResult{
		Variables:   make([]string, len(cols)),
		Normality:   []NormalityResult{},
		ScatterData: [][2]float64{},
		ScatterVars: []string{cols[0].Name, cols[1].Name},
	}

	for i, c := range cols {
		res.Variables[i] = c.Name
		present := c.Present()
		if len(present) < a.cfg.MinNormalitySize {
			continue
		}
		w, p := ShapiroWilk(present)
		res.Normality = append(res.Normality, NormalityResult{
			Variable:  c.Name,
			Statistic: numeric.Nullable(w, 4),
			PValue:    numeric.Nullable(p, 4),
			IsNormal:  p > a.cfg.NormalityAlpha,
		})
	}

	matrix := CorrelationMatrix(cols)
	res.Matrix = make([][3]float64, 0, len(cols)*len(cols))
	for i := range matrix {
		for j := range matrix[i] {
			res.Matrix = append(res.Matrix, [3]float64{float64(i), float64(j), numeric.Round(matrix[i][j], 3)})
		}
	}

	x, y := cols[0].Numbers(), cols[1].Numbers()
	for i := range x {
		if cols[0].IsMissing(i) || cols[1].IsMissing(i) {
			continue
		}
		res.ScatterData = append(res.ScatterData, [2]float64{x[i], y[i]})
	}

	return res, nil
}

// CorrelationMatrix returns the symmetric Pearson matrix over rows where
// both columns are present. Undefined coefficients are 0.
func CorrelationMatrix(cols []*dataset.Column) [][]float64 {
	m := make([][]float64, len(cols))
	for i := range m {
		m[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pairwisePearson(cols[i], cols[j])
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m
}

// pairwisePearson correlates the rows where both columns are present
func pairwisePearson(a, b *dataset.Column) float64 {
	xa, xb := a.Numbers(), b.Numbers()
	x := make([]float64, 0, len(xa))
	y := make([]float64, 0, len(xb))
	for i := range xa {
		if a.IsMissing(i) || b.IsMissing(i) {
			continue
		}
		x = append(x, xa[i])
		y = append(y, xb[i])
	}
	return Pearson(x, y)
}

// Pearson returns the correlation of x and y, 0 when it is undefined
func Pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}
