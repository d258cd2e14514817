package analytics

import (
	"sort"

	"tabinsight/internal/dataset"
)

// PieSlice is one name/value pair for pie style charts
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CategoricalSummary is the frequency table of one categorical column
type CategoricalSummary struct {
	Variable   string     `json:"variable"`
	Categories []string   `json:"categories"`
	Values     []int      `json:"values"`
	PieData    []PieSlice `json:"pie_data"`
}

// Categorical builds descending frequency tables for every categorical
// column, skipping name or ID like columns and columns with more than
// CategoricalMaxDistinct distinct values.
func (a *Analyzer) Categorical(table *dataset.Table) []CategoricalSummary {
	out := []CategoricalSummary{}
	for _, c := range table.OfKind(dataset.KindCategorical) {
		if dataset.MatchesAny(c.Name, a.cfg.CategoricalExcludes) {
			continue
		}
		counts, order := frequencies(c)
		if len(order) > a.cfg.CategoricalMaxDistinct {
			continue
		}

		// stable sort keeps first-appearance order among equal counts
		sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

		s := CategoricalSummary{
			Variable:   c.Name,
			Categories: order,
			Values:     make([]int, len(order)),
			PieData:    make([]PieSlice, len(order)),
		}
		for i, k := range order {
			s.Values[i] = counts[k]
			s.PieData[i] = PieSlice{Name: k, Value: counts[k]}
		}
		out = append(out, s)
	}
	return out
}

// frequencies counts non-missing keys and returns them in first-appearance
// order
func frequencies(c *dataset.Column) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		k := c.Key(i)
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}
