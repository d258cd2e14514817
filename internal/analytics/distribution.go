package analytics

import (
	"fmt"
	"math"

	"tabinsight/internal/dataset"
	"tabinsight/internal/numeric"
)

// Histogram holds chart-ready bin labels and counts
type Histogram struct {
	Categories []string `json:"categories"`
	Series     []int    `json:"series"`
}

// Distribution is the boxplot and histogram of one column
type Distribution struct {
	Variable  string     `json:"variable"`
	Boxplot   [5]float64 `json:"boxplot"`
	Histogram Histogram  `json:"histogram"`
}

// Distributions computes the five-number summary and an automatically
// binned histogram for each requested column. Columns without any present
// value are skipped.
func (a *Analyzer) Distributions(table *dataset.Table, columns []string) ([]Distribution, error) {
	cols, err := numberColumns(table, columns)
	if err != nil {
		return nil, err
	}

	out := make([]Distribution, 0, len(cols))
	for _, c := range cols {
		present := c.Present()
		if len(present) == 0 {
			continue
		}
		sorted := numeric.Sorted(present)

		edges := binEdges(sorted)
		counts := binCounts(sorted, edges)
		labels := make([]string, len(counts))
		for i := range counts {
			labels[i] = fmt.Sprintf("%.1f~%.1f", numeric.Round(edges[i], 1), numeric.Round(edges[i+1], 1))
		}

		out = append(out, Distribution{
			Variable: c.Name,
			Boxplot: [5]float64{
				sorted[0],
				numeric.Quantile(sorted, 0.25),
				numeric.Quantile(sorted, 0.5),
				numeric.Quantile(sorted, 0.75),
				sorted[len(sorted)-1],
			},
			Histogram: Histogram{Categories: labels, Series: counts},
		})
	}
	return out, nil
}

// binEdges picks equal-width bins with the smaller of the Freedman-Diaconis
// and Sturges widths, falling back to Sturges when the IQR is zero. There
// are never more bins than values. A constant sample gets one bin of width
// 1 centred on the value.
func binEdges(sorted []float64) []float64 {
	n := len(sorted)
	first, last := sorted[0], sorted[n-1]
	if first == last {
		first -= 0.5
		last += 0.5
	}

	bins := 1
	ptp := sorted[n-1] - sorted[0]
	if ptp > 0 {
		width := ptp / (math.Log2(float64(n)) + 1)
		iqr := numeric.Quantile(sorted, 0.75) - numeric.Quantile(sorted, 0.25)
		if fd := 2 * iqr * math.Pow(float64(n), -1.0/3.0); fd > 0 {
			width = math.Min(width, fd)
		}
		bins = n
		if b := math.Ceil(ptp / width); b < float64(n) {
			bins = int(b)
		}
	}

	edges := make([]float64, bins+1)
	step := (last - first) / float64(bins)
	for i := range edges {
		edges[i] = first + float64(i)*step
	}
	edges[bins] = last
	return edges
}

// binCounts counts values per bin. Bins are half open except the last,
// which includes its upper edge.
func binCounts(sorted, edges []float64) []int {
	bins := len(edges) - 1
	counts := make([]int, bins)
	first, last := edges[0], edges[bins]
	norm := float64(bins) / (last - first)

	for _, v := range sorted {
		if v < first || v > last {
			continue
		}
		i := int((v - first) * norm)
		if i >= bins {
			i = bins - 1
		}
		if i > 0 && v < edges[i] {
			i--
		}
		if i < bins-1 && v >= edges[i+1] {
			i++
		}
		counts[i]++
	}
	return counts
}
