package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/tabular"
	"tabinsight/internal/validation"
)

// Area names one of the two storage locations
type Area string

const (
	// AreaPrimary holds uploaded tables
	AreaPrimary Area = "primary"
	// AreaDerived holds every generated table
	AreaDerived Area = "derived"
)

// lookupOrder is the order in which areas are searched for a bare name
var lookupOrder = []Area{AreaDerived, AreaPrimary}

// Store persists tables in the primary and derived areas. It is the only
// component that touches the file system.
type Store struct {
	dirs      map[Area]string
	reader    *tabular.Reader
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewStore creates both area directories if needed
func NewStore(cfg config.StorageConfig, reader *tabular.Reader, logger *slog.Logger) (*Store, error) {
	s := &Store{
		dirs: map[Area]string{
			AreaPrimary: cfg.PrimaryDir(),
			AreaDerived: cfg.DerivedDir(),
		},
		reader:    reader,
		validator: validation.NewFileValidator(cfg.AllowedTypes, logger),
		logger:    logger.With(slog.String("component", "file_store")),
	}
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureDirs() error {
	for area, dir := range s.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s area %s: %w", area, dir, err)
		}
	}
	return nil
}

// Path returns the full path of name inside area
func (s *Store) Path(area Area, name string) (string, error) {
	dir, ok := s.dirs[area]
	if !ok {
		return "", fmt.Errorf("unknown storage area %q", area)
	}
	if err := s.validator.ValidateName(name); err != nil {
		return "", apperrors.Validation("%v", err)
	}
	return filepath.Join(dir, name), nil
}

// Exists checks if name exists in area
func (s *Store) Exists(area Area, name string) bool {
	path, err := s.Path(area, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	exists := err == nil && !info.IsDir()

	s.logger.Debug("Exists check",
		slog.String("area", string(area)),
		slog.String("name", name),
		slog.Bool("exists", exists))

	return exists
}

// Locate finds the area holding name, derived first
func (s *Store) Locate(name string) (Area, error) {
	if err := s.validator.ValidateName(name); err != nil {
		return "", apperrors.Validation("%v", err)
	}
	for _, area := range lookupOrder {
		if s.Exists(area, name) {
			return area, nil
		}
	}
	return "", apperrors.Validation("file %s not found", name)
}

// Read loads name from area
func (s *Store) Read(area Area, name string) (*dataset.Table, error) {
	path, err := s.Path(area, name)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Reading table",
		slog.String("area", string(area)),
		slog.String("name", name))

	return s.reader.Read(path)
}

// Load locates name and reads it
func (s *Store) Load(name string) (*dataset.Table, error) {
	area, err := s.Locate(name)
	if err != nil {
		return nil, err
	}
	return s.Read(area, name)
}

// Write serializes table into area in the format of name's extension.
// Nothing is written when encoding fails.
func (s *Store) Write(area Area, name string, table *dataset.Table) error {
	data, err := tabular.Encode(name, table)
	if err != nil {
		return err
	}
	return s.WriteBytes(area, name, data)
}

// WriteBytes stores raw bytes, replacing any existing file atomically
func (s *Store) WriteBytes(area Area, name string, data []byte) error {
	path, err := s.Path(area, name)
	if err != nil {
		return err
	}

	s.logger.Info("Writing file",
		slog.String("area", string(area)),
		slog.String("name", name),
		slog.Int("size_bytes", len(data)))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

// Delete removes name from area
func (s *Store) Delete(area Area, name string) error {
	path, err := s.Path(area, name)
	if err != nil {
		return err
	}

	s.logger.Info("Deleting file",
		slog.String("area", string(area)),
		slog.String("name", name))

	return os.Remove(path)
}

// Reset wipes both areas and recreates them empty
func (s *Store) Reset() error {
	for area, dir := range s.dirs {
		s.logger.Info("Clearing storage area",
			slog.String("area", string(area)),
			slog.String("dir", dir))
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear %s area: %w", area, err)
		}
	}
	return s.ensureDirs()
}

// ValidateUpload checks an incoming file name against the allowed types
func (s *Store) ValidateUpload(name string) error {
	if err := s.validator.ValidateUpload(name); err != nil {
		return apperrors.Validation("%v", err)
	}
	return nil
}
