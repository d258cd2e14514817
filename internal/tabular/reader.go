package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

// Supported file formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader turns stored files into tables
type Reader struct {
	opts   dataset.Options
	logger *slog.Logger
}

// NewReader creates a reader that classifies columns with opts
func NewReader(opts dataset.Options, logger *slog.Logger) *Reader {
	return &Reader{opts: opts, logger: logger.With(slog.String("component", "tabular_reader"))}
}

// Ext returns the lowercase extension of name without the dot
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Read loads the file at path. Delimited text is decoded as UTF-8 first and
// falls back to GBK; workbooks are read from their first sheet.
func (r *Reader) Read(path string) (*dataset.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return r.Decode(filepath.Base(path), data)
}

// Decode parses raw bytes whose format is given by name's extension
func (r *Reader) Decode(name string, data []byte) (*dataset.Table, error) {
	switch Ext(name) {
	case FormatCSV:
		return r.decodeCSV(name, data)
	case FormatXLSX:
		return r.decodeXLSX(name, data)
	case FormatXLS:
		return nil, apperrors.Parse(nil, "%s: legacy .xls workbooks cannot be read, save the file as .xlsx or .csv", name)
	default:
		return nil, apperrors.Parse(nil, "%s: unsupported file extension", name)
	}
}

func (r *Reader) decodeCSV(name string, data []byte) (*dataset.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	encoding := "utf-8"
	if !utf8.Valid(data) {
		// the decoder substitutes U+FFFD for bytes that are not GBK either
		decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err == nil && bytes.ContainsRune(decoded, utf8.RuneError) {
			err = errors.New("invalid byte sequence")
		}
		if err != nil {
			return nil, apperrors.Parse(err, "%s: text is neither UTF-8 nor GBK", name)
		}
		data = decoded
		encoding = "gbk"
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Parse(err, "%s: malformed csv", name)
		}
		if isBlankRecord(rec) {
			continue
		}
		records = append(records, rec)
	}

	r.logger.Debug("decoded csv",
		slog.String("file", name),
		slog.String("encoding", encoding),
		slog.Int("records", len(records)))

	return r.build(name, records)
}

func (r *Reader) decodeXLSX(name string, data []byte) (*dataset.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Parse(err, "%s: cannot open workbook", name)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.Parse(nil, "%s: workbook has no sheets", name)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Parse(err, "%s: cannot read sheet %q", name, sheets[0])
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRecord(row) {
			continue
		}
		records = append(records, row)
	}

	r.logger.Debug("decoded workbook",
		slog.String("file", name),
		slog.String("sheet", sheets[0]),
		slog.Int("records", len(records)))

	return r.build(name, records)
}

func (r *Reader) build(name string, records [][]string) (*dataset.Table, error) {
	if len(records) == 0 {
		return nil, apperrors.Parse(nil, "%s: no columns to parse", name)
	}
	table, err := dataset.New(records[0], records[1:], r.opts)
	if err != nil {
		return nil, apperrors.Parse(err, "%s: inconsistent rows", name)
	}
	return table, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
