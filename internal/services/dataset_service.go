package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"tabinsight/internal/analytics"
	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/files"
	"tabinsight/internal/infrastructure"
	"tabinsight/internal/privacy"
	"tabinsight/internal/tabular"
)

// UploadResult describes a freshly stored table
type UploadResult struct {
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Digest           string `json:"digest"`
	analytics.TableProfile
}

// CleanResult is the outcome of a clean run
type CleanResult struct {
	CleanedFilename string                    `json:"cleaned_filename"`
	OutliersHandled int                       `json:"outliers_handled"`
	Report          *analytics.CleaningReport `json:"report"`
}

// StandardizeResult names the standardized copy
type StandardizeResult struct {
	StdFilename string `json:"std_filename"`
}

// MaskResult names the masked copy and the columns that were masked
type MaskResult struct {
	MaskedFilename string   `json:"masked_filename"`
	MaskedColumns  []string `json:"masked_cols"`
}

// SaveInput carries rows edited by a client back to storage. Rows are keyed
// by column name; Columns fixes the column order.
type SaveInput struct {
	Filename           string
	Columns            []string
	Rows               []map[string]interface{}
	Mode               files.SaveMode
	OldFilename        string
	IsNewTable         bool
	OverwriteConfirmed bool
}

// DatasetService manages the stored tables: ingest, preview, derived copies
// and saves
type DatasetService struct {
	store    *files.Store
	analyzer *analytics.Analyzer
	masker   *privacy.Masker
	opts     dataset.Options
	track    tracker
	logger   *slog.Logger
	now      func() time.Time
}

// NewDatasetService creates a dataset service. metrics may be nil.
func NewDatasetService(store *files.Store, analyzer *analytics.Analyzer, masker *privacy.Masker, metrics *infrastructure.AnalyticsMetrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("service", "dataset"))

	return &DatasetService{
		store:    store,
		analyzer: analyzer,
		masker:   masker,
		opts:     dataset.Options{IdentifierKeywords: analyzer.Config().IdentifierKeywords},
		track:    tracker{metrics: metrics, logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

// Upload stores raw file bytes in the primary area under a generated name
// and profiles the table. A file that cannot be parsed is removed again.
func (s *DatasetService) Upload(ctx context.Context, original string, data []byte) (res *UploadResult, err error) {
	ctx, done := s.track.start(ctx, "upload", original)
	rows := 0
	defer func() { done(rows, err) }()

	if original == "" {
		return nil, ErrFilenameRequired
	}
	if err := s.store.ValidateUpload(original); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	name := fmt.Sprintf("%s%d.%s", config.UploadPrefix, s.now().Unix(), tabular.Ext(original))
	if err := s.store.WriteBytes(files.AreaPrimary, name, data); err != nil {
		return nil, err
	}

	table, err := s.store.Read(files.AreaPrimary, name)
	if err != nil {
		if derr := s.store.Delete(files.AreaPrimary, name); derr != nil {
			s.logger.WarnContext(ctx, "Failed to remove unreadable upload",
				slog.String("filename", name),
				slog.String("error", derr.Error()))
		}
		return nil, err
	}
	rows = table.Len()

	return &UploadResult{
		Filename:         name,
		OriginalFilename: original,
		Digest:           digest(data),
		TableProfile:     s.analyzer.Profile(table),
	}, nil
}

// UploadManual stores a grid typed by the user. The first row is the header.
func (s *DatasetService) UploadManual(ctx context.Context, grid [][]string) (res *UploadResult, err error) {
	ctx, done := s.track.start(ctx, "upload_manual", config.ManualOriginalName)
	rows := 0
	defer func() { done(rows, err) }()

	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	table, err := dataset.New(grid[0], grid[1:], s.opts)
	if err != nil {
		return nil, apperrors.Validation("invalid manual table: %v", err)
	}

	data, err := tabular.Encode(config.ManualOriginalName, table)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s%d.csv", config.ManualPrefix, s.now().Unix())
	if err := s.store.WriteBytes(files.AreaPrimary, name, data); err != nil {
		return nil, err
	}
	rows = table.Len()

	return &UploadResult{
		Filename:         name,
		OriginalFilename: config.ManualOriginalName,
		Digest:           digest(data),
		TableProfile:     s.analyzer.Profile(table),
	}, nil
}

// Preview returns the first rows of a table as strings
func (s *DatasetService) Preview(ctx context.Context, filename string) (*analytics.Preview, error) {
	table, err := s.load(ctx, "preview", filename)
	if err != nil {
		return nil, err
	}
	preview := s.analyzer.Preview(table)
	return &preview, nil
}

// Options lists the distinct values of one column
func (s *DatasetService) Options(ctx context.Context, filename, column string) (out []string, err error) {
	ctx, done := s.track.start(ctx, "options", filename)
	rows := 0
	defer func() { done(rows, err) }()

	if column == "" {
		return nil, ErrColumnRequired
	}
	table, err := s.read(filename)
	if err != nil {
		return nil, err
	}
	rows = table.Len()
	return s.analyzer.Options(table, column)
}

// Cleanup wipes both storage areas
func (s *DatasetService) Cleanup(ctx context.Context) (err error) {
	ctx, done := s.track.start(ctx, "cleanup", "")
	defer func() { done(0, err) }()

	return s.store.Reset()
}

// Clean imputes and clips the numeric columns and writes cleaned_<stem>.csv
// into the derived area
func (s *DatasetService) Clean(ctx context.Context, filename string) (res *CleanResult, err error) {
	ctx, done := s.track.start(ctx, "clean", filename)
	rows := 0
	defer func() { done(rows, err) }()

	table, err := s.read(filename)
	if err != nil {
		return nil, err
	}
	rows = table.Len()

	cleaned, report, err := s.analyzer.Clean(ctx, table)
	if err != nil {
		return nil, err
	}

	name := cleanedName(filename)
	if err := s.store.Write(files.AreaDerived, name, cleaned); err != nil {
		return nil, err
	}

	return &CleanResult{
		CleanedFilename: name,
		OutliersHandled: report.OutliersHandled,
		Report:          report,
	}, nil
}

// Standardize z-scores the numeric columns and writes std_<filename>
func (s *DatasetService) Standardize(ctx context.Context, filename string) (res *StandardizeResult, err error) {
	ctx, done := s.track.start(ctx, "standardize", filename)
	rows := 0
	defer func() { done(rows, err) }()

	table, err := s.read(filename)
	if err != nil {
		return nil, err
	}
	rows = table.Len()

	standardized, err := s.analyzer.Standardize(ctx, table)
	if err != nil {
		return nil, err
	}

	name := config.StandardizedPrefix + filename
	if err := s.store.Write(files.AreaDerived, name, standardized); err != nil {
		return nil, err
	}
	return &StandardizeResult{StdFilename: name}, nil
}

// Mask obscures the sensitive columns and writes masked_<filename>
func (s *DatasetService) Mask(ctx context.Context, filename string) (res *MaskResult, err error) {
	ctx, done := s.track.start(ctx, "mask", filename)
	rows := 0
	defer func() { done(rows, err) }()

	table, err := s.read(filename)
	if err != nil {
		return nil, err
	}
	rows = table.Len()

	masked, columns := s.masker.Mask(ctx, table)

	name := config.MaskedPrefix + filename
	if err := s.store.Write(files.AreaDerived, name, masked); err != nil {
		return nil, err
	}
	if columns == nil {
		columns = []string{}
	}
	return &MaskResult{MaskedFilename: name, MaskedColumns: columns}, nil
}

// Save persists client rows with the conflict-checked protocol
func (s *DatasetService) Save(ctx context.Context, in SaveInput) (res *files.SaveResult, err error) {
	ctx, done := s.track.start(ctx, "save", in.Filename)
	defer func() { done(len(in.Rows), err) }()

	if in.Filename == "" {
		return nil, ErrFilenameRequired
	}
	if len(in.Columns) == 0 {
		return nil, ErrColumnsRequired
	}

	records := make([][]string, len(in.Rows))
	for i, row := range in.Rows {
		record := make([]string, len(in.Columns))
		for j, name := range in.Columns {
			record[j] = cellString(row[name])
		}
		records[i] = record
	}

	table, err := dataset.New(in.Columns, records, s.opts)
	if err != nil {
		return nil, apperrors.Validation("invalid table data: %v", err)
	}

	return s.store.Save(ctx, files.SaveRequest{
		Filename:           in.Filename,
		Table:              table,
		Mode:               in.Mode,
		OldFilename:        in.OldFilename,
		IsNewTable:         in.IsNewTable,
		OverwriteConfirmed: in.OverwriteConfirmed,
	})
}

// load tracks a read-only operation around reading filename
func (s *DatasetService) load(ctx context.Context, op, filename string) (table *dataset.Table, err error) {
	_, done := s.track.start(ctx, op, filename)
	defer func() {
		rows := 0
		if table != nil {
			rows = table.Len()
		}
		done(rows, err)
	}()
	return s.read(filename)
}

func (s *DatasetService) read(filename string) (*dataset.Table, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	return s.store.Load(filename)
}

// cleanedName keeps the name up to its first dot and forces .csv
func cleanedName(filename string) string {
	stem, _, _ := strings.Cut(filename, ".")
	return config.CleanedPrefix + stem + ".csv"
}

// digest is the BLAKE2b-256 hex digest of an upload
func digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// cellString turns a decoded JSON cell into its stored text
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return dataset.FormatNumber(val)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
