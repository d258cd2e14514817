package analytics

import (
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

// TableProfile is the column overview returned after an upload
type TableProfile struct {
	Columns        []string `json:"columns"`
	NumericColumns []string `json:"numeric_columns"`
	BinaryColumns  []string `json:"binary_columns"`
	RowCount       int      `json:"row_count"`
}

// Preview is the first rows of a table with every cell as display text
type Preview struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Profile lists all columns, the numeric measure columns and every column
// with exactly two distinct values.
func (a *Analyzer) Profile(table *dataset.Table) TableProfile {
	p := TableProfile{
		Columns:        table.Names(),
		NumericColumns: []string{},
		BinaryColumns:  []string{},
		RowCount:       table.Len(),
	}
	for _, c := range table.Columns() {
		if c.Kind == dataset.KindNumeric {
			p.NumericColumns = append(p.NumericColumns, c.Name)
		}
		if len(c.Distinct()) == 2 {
			p.BinaryColumns = append(p.BinaryColumns, c.Name)
		}
	}
	return p
}

// Preview returns the first PreviewRows rows, missing cells as ""
func (a *Analyzer) Preview(table *dataset.Table) Preview {
	head := table.Head(a.cfg.PreviewRows)
	names := head.Names()
	p := Preview{Columns: names, Rows: make([]map[string]string, 0, head.Len())}
	for _, record := range head.Records() {
		row := make(map[string]string, len(names))
		for j, name := range names {
			row[name] = record[j]
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// Options lists the distinct non-missing values of a column in order of
// first appearance, capped at OptionsLimit.
func (a *Analyzer) Options(table *dataset.Table, column string) ([]string, error) {
	c, ok := table.Column(column)
	if !ok {
		return nil, apperrors.Validation("column %s not found", column)
	}
	values := c.Distinct()
	if values == nil {
		values = []string{}
	}
	if len(values) > a.cfg.OptionsLimit {
		values = values[:a.cfg.OptionsLimit]
	}
	return values, nil
}
