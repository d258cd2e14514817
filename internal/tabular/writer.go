package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

const (
	// defaultSheet is the sheet name used for generated workbooks
	defaultSheet = "Sheet1"
	// maxExactCell bounds the magnitudes a spreadsheet stores with every digit
	maxExactCell = 1e15
)

// Encode serializes table in the format implied by name's extension.
// CSV output carries a UTF-8 BOM so spreadsheet tools detect the encoding.
func Encode(name string, table *dataset.Table) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch Ext(name) {
	case FormatCSV:
		err = WriteCSV(&buf, table)
	case FormatXLSX:
		err = WriteXLSX(&buf, table)
	default:
		return nil, apperrors.Parse(nil, "%s: cannot write this file type", name)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes a BOM-prefixed CSV with a header row
func WriteCSV(w io.Writer, table *dataset.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Names()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.Records() {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Number-holding columns are
// stored as numeric cells.
func WriteXLSX(w io.Writer, table *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(defaultSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, table.Width())
	for j, name := range table.Names() {
		header[j] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	cols := table.Columns()
	for i := 0; i < table.Len(); i++ {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			switch {
			case c.IsMissing(i):
				row[j] = nil
			case c.HoldsNumbers():
				// numbers beyond spreadsheet precision are kept as text cells
				v := c.Numbers()[i]
				if text := c.String(i); text != dataset.FormatNumber(v) || math.Abs(v) >= maxExactCell {
					row[j] = text
				} else {
					row[j] = v
				}
			default:
				row[j] = c.String(i)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	return f.Write(w)
}
