package files

import (
	"context"
	"log/slog"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
)

// SaveMode selects how Save resolves its target path
type SaveMode string

const (
	// SaveOverwrite writes over the current copy of the file
	SaveOverwrite SaveMode = "overwrite"
	// SaveNewOutput always writes into the derived area
	SaveNewOutput SaveMode = "new_output"
	// SaveRenameSource writes next to OldFilename and then removes it
	SaveRenameSource SaveMode = "rename_source"
)

// SaveRequest describes one persistence call
type SaveRequest struct {
	Filename           string
	Table              *dataset.Table
	Mode               SaveMode
	OldFilename        string
	IsNewTable         bool
	OverwriteConfirmed bool
}

// SaveResult reports where the table was written
type SaveResult struct {
	Filename string   `json:"filename"`
	Area     Area     `json:"area"`
	Removed  []string `json:"removed,omitempty"`
}

// Save resolves the target area, refuses to clobber an existing file unless
// confirmed, writes the table, and for rename_source removes the old file
// from its area afterwards. The existence check and the write are not atomic.
func (s *Store) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	if req.Mode == "" {
		req.Mode = SaveOverwrite
	}
	if req.Table == nil {
		return nil, apperrors.Validation("no table data to save")
	}
	if req.Filename == "" {
		return nil, apperrors.Validation("filename is required")
	}

	area, err := s.resolveSaveArea(req)
	if err != nil {
		return nil, err
	}

	guarded := req.Mode == SaveNewOutput || req.Mode == SaveRenameSource || req.IsNewTable
	if guarded && !req.OverwriteConfirmed && s.Exists(area, req.Filename) {
		s.logger.InfoContext(ctx, "Save blocked by existing file",
			slog.String("name", req.Filename),
			slog.String("area", string(area)),
			slog.String("mode", string(req.Mode)))
		return nil, apperrors.Conflict("a file named %s already exists; confirm to overwrite it", req.Filename)
	}

	if err := s.Write(area, req.Filename, req.Table); err != nil {
		return nil, err
	}

	result := &SaveResult{Filename: req.Filename, Area: area}

	// the old file is only removed from the area it was resolved in
	if req.Mode == SaveRenameSource && req.OldFilename != req.Filename {
		if err := s.Delete(area, req.OldFilename); err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, string(area)+"/"+req.OldFilename)
	}

	s.logger.InfoContext(ctx, "Table saved",
		slog.String("name", req.Filename),
		slog.String("area", string(area)),
		slog.String("mode", string(req.Mode)),
		slog.Int("rows", req.Table.Len()))

	return result, nil
}

func (s *Store) resolveSaveArea(req SaveRequest) (Area, error) {
	switch req.Mode {
	case SaveNewOutput:
		return AreaDerived, nil
	case SaveRenameSource:
		if req.OldFilename == "" {
			return "", apperrors.Validation("old_filename is required for rename_source")
		}
		return s.Locate(req.OldFilename)
	case SaveOverwrite:
		if req.IsNewTable || s.Exists(AreaDerived, req.Filename) {
			return AreaDerived, nil
		}
		return AreaPrimary, nil
	default:
		return "", apperrors.Validation("unknown save_mode %q", req.Mode)
	}
}
