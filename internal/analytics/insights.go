package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"tabinsight/internal/dataset"
)

// Summarize produces the ordered, rule-based findings for a table: data
// quality, structure, skewness, a grouping suggestion, a regression
// suggestion and navigation steps.
func (a *Analyzer) Summarize(ctx context.Context, table *dataset.Table) []string {
	numericCols := table.OfKind(dataset.KindNumeric)
	rows := table.Len()
	insights := make([]string, 0, 6)

	insights = append(insights, a.qualityInsight(table))
	insights = append(insights, fmt.Sprintf(
		"Structure: found %d numeric measure column(s) and %d categorical column(s).",
		len(numericCols), table.Width()-len(numericCols)))

	if len(numericCols) > 0 {
		insights = append(insights, a.skewInsight(numericCols))
	}

	for _, c := range table.OfKind(dataset.KindCategorical) {
		if len(c.Distinct()) == 2 {
			insights = append(insights, fmt.Sprintf(
				"Group comparison: %s has exactly two groups and is a good grouping variable for an independent-samples t-test.", c.Name))
			break
		}
	}

	recommended := false
	if len(numericCols) >= a.cfg.MinTargetCandidates {
		target, features := a.recommendTarget(numericCols)
		insights = append(insights, fmt.Sprintf(
			"Prediction: use %s as the target variable (Y), it has the strongest overall correlation with the other measures, and start with %s as features.",
			target, strings.Join(features, ", ")))
		recommended = true
	}

	steps := "Next steps: 1) select numeric columns and run descriptive statistics. 2) run correlation analysis on the columns of interest."
	if recommended {
		steps += " 3) open the prediction engine and train the recommended model."
	} else {
		steps += " 3) open the prediction engine to explore deeper patterns."
	}
	insights = append(insights, steps)

	a.logger.InfoContext(ctx, "Insights generated",
		slog.Int("rows", rows),
		slog.Int("insights", len(insights)),
		slog.Bool("target_recommended", recommended))

	return insights
}

func (a *Analyzer) qualityInsight(table *dataset.Table) string {
	rows := table.Len()
	cells := rows * table.Width()
	ratio := 0.0
	if cells > 0 {
		ratio = float64(table.MissingCells()) / float64(cells)
	}

	switch {
	case rows < a.cfg.SmallSampleRows:
		return fmt.Sprintf(
			"Data quality: the sample is very small (%d rows). Models trained on it will overfit easily, so prefer descriptive statistics.", rows)
	case ratio > a.cfg.MissingRatioThreshold:
		return fmt.Sprintf(
			"Data quality: %.1f%% of cells are missing. Run cleaning first to fill the gaps.", ratio*100)
	default:
		return fmt.Sprintf(
			"Data quality: healthy, the table is %.1f%% complete and ready for modelling.", 100-ratio*100)
	}
}

func (a *Analyzer) skewInsight(cols []*dataset.Column) string {
	var flagged []string
	for _, c := range cols {
		skew := Skewness(c.Present())
		switch {
		case math.IsNaN(skew):
		case skew > a.cfg.SkewThreshold:
			flagged = append(flagged, c.Name+" is strongly right-skewed")
		case skew < -a.cfg.SkewThreshold:
			flagged = append(flagged, c.Name+" is strongly left-skewed")
		}
	}
	if len(flagged) == 0 {
		return "Distribution: every numeric column is reasonably balanced, no severe skew found."
	}
	return "Distribution warning: " + strings.Join(flagged, "; ") +
		". Consider cleaning extreme values with the 3-sigma rule."
}

// recommendTarget picks the column with the largest summed absolute
// correlation to the others. Ties keep the earliest column. Features are
// the first RecommendedFeatures remaining columns in table order.
func (a *Analyzer) recommendTarget(cols []*dataset.Column) (string, []string) {
	matrix := CorrelationMatrix(cols)
	best, bestSum := 0, math.Inf(-1)
	for i, row := range matrix {
		sum := 0.0
		for _, r := range row {
			sum += math.Abs(r)
		}
		if sum > bestSum {
			best, bestSum = i, sum
		}
	}

	var features []string
	for i, c := range cols {
		if i == best {
			continue
		}
		if len(features) == a.cfg.RecommendedFeatures {
			break
		}
		features = append(features, c.Name)
	}
	return cols[best].Name, features
}

// Skewness returns the bias-corrected sample skewness, NaN for fewer than
// three values and 0 for a constant sample.
func Skewness(xs []float64) float64 {
	if len(xs) < 3 {
		return math.NaN()
	}
	if _, std := stat.MeanStdDev(xs, nil); std == 0 {
		return 0
	}
	return stat.Skew(xs, nil)
}
