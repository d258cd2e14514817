package validation

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"
)

// FileValidator checks client supplied file names before they reach the
// storage layer
type FileValidator struct {
	allowed []string
	logger  *slog.Logger
}

// NewFileValidator creates a validator accepting the given extensions
func NewFileValidator(allowed []string, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		allowed: allowed,
		logger:  logger,
	}
}

// ValidateName rejects names that could escape a storage area
func (v *FileValidator) ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("file name is empty")
	case name != filepath.Base(name), strings.ContainsAny(name, `/\`):
		v.logger.Warn("Rejected file name with path components",
			slog.String("file", name))
		return fmt.Errorf("file name %q must not contain path separators", name)
	case name == "." || name == "..":
		return fmt.Errorf("file name %q is not allowed", name)
	case strings.HasPrefix(name, "~$"):
		return fmt.Errorf("file %s is a temporary Excel file", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("file name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateExtension checks the name against the allowed extension list
func (v *FileValidator) ValidateExtension(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return fmt.Errorf("file %s has no extension", name)
	}
	for _, a := range v.allowed {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return nil
		}
	}
	v.logger.Warn("Rejected file extension",
		slog.String("file", name),
		slog.String("extension", ext))
	return fmt.Errorf("file %s has unsupported extension %q", name, ext)
}

// ValidateUpload applies both checks
func (v *FileValidator) ValidateUpload(name string) error {
	if err := v.ValidateName(name); err != nil {
		return err
	}
	return v.ValidateExtension(name)
}
