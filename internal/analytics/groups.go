package analytics

import (
	"errors"

	"github.com/aclements/go-moremath/stats"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/numeric"
)

// GroupComparison is the Welch t-test of one column across two groups.
// TValue and PValue are null when both groups have zero variance.
type GroupComparison struct {
	Variable    string   `json:"variable"`
	Group1Name  string   `json:"group1_name"`
	Group1Mean  float64  `json:"group1_mean"`
	Group2Name  string   `json:"group2_name"`
	Group2Mean  float64  `json:"group2_mean"`
	TValue      *float64 `json:"t_value"`
	PValue      *float64 `json:"p_value"`
	Significant bool     `json:"significant"`
}

// CompareGroups splits the rows by a binary grouping column and runs a
// Welch t-test on every requested numeric column. Columns with fewer than
// two observations in either group are skipped, as are non-numeric ones.
func (a *Analyzer) CompareGroups(table *dataset.Table, groupCol string, columns []string) ([]GroupComparison, error) {
	if groupCol == "" {
		return nil, apperrors.Validation("group column is required")
	}
	g, ok := table.Column(groupCol)
	if !ok {
		return nil, apperrors.Validation("group column %s not found", groupCol)
	}
	labels := g.Distinct()
	if len(labels) != 2 {
		return nil, apperrors.Validation("group column %s must have exactly two distinct values, found %d", groupCol, len(labels))
	}

	out := []GroupComparison{}
	for _, c := range table.Select(columns) {
		if !c.HoldsNumbers() {
			continue
		}

		var x1, x2 []float64
		values := c.Numbers()
		for i := range values {
			if g.IsMissing(i) || c.IsMissing(i) {
				continue
			}
			switch g.Key(i) {
			case labels[0]:
				x1 = append(x1, values[i])
			case labels[1]:
				x2 = append(x2, values[i])
			}
		}
		if len(x1) < 2 || len(x2) < 2 {
			continue
		}

		s1, s2 := stats.Sample{Xs: x1}, stats.Sample{Xs: x2}
		cmp := GroupComparison{
			Variable:   c.Name,
			Group1Name: labels[0],
			Group1Mean: numeric.Round(s1.Mean(), 4),
			Group2Name: labels[1],
			Group2Mean: numeric.Round(s2.Mean(), 4),
		}

		res, err := stats.TwoSampleWelchTTest(s1, s2, stats.LocationDiffers)
		switch {
		case errors.Is(err, stats.ErrZeroVariance):
			// identical constant groups: the statistic is undefined
		case err != nil:
			return nil, apperrors.Computation(err)
		default:
			cmp.TValue = numeric.Nullable(res.T, 4)
			cmp.PValue = numeric.Nullable(res.P, 4)
			cmp.Significant = res.P < a.cfg.SignificanceAlpha
		}
		out = append(out, cmp)
	}
	return out, nil
}
