// Package privacy masks personally identifying columns before a table is
// shared. Masking is one-way: no key is kept and nothing can be unmasked.
package privacy

import (
	"context"
	"log/slog"
	"strings"

	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
)

// Masker obfuscates every column whose name contains a sensitive keyword
type Masker struct {
	keywords []string
	glyph    string
	suffix   string
	logger   *slog.Logger
}

// NewMasker creates a masker from the analytics settings
func NewMasker(cfg config.AnalyticsConfig, logger *slog.Logger) *Masker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Masker{
		keywords: cfg.SensitiveKeywords,
		glyph:    cfg.MaskGlyph,
		suffix:   cfg.MaskSuffix,
		logger:   logger.With(slog.String("component", "masker")),
	}
}

// Mask returns a masked copy of table and the names of the masked columns.
// Missing cells are left missing.
func (m *Masker) Mask(ctx context.Context, table *dataset.Table) (*dataset.Table, []string) {
	out := table.Clone()
	masked := []string{}

	for _, c := range out.Columns() {
		if !dataset.MatchesAny(c.Name, m.keywords) {
			continue
		}
		// read every display value before the first write demotes the column
		values := make([]string, c.Len())
		for i := range values {
			values[i] = c.String(i)
		}
		for i, v := range values {
			if !c.IsMissing(i) {
				c.SetString(i, m.MaskValue(v))
			}
		}
		masked = append(masked, c.Name)
	}

	m.logger.InfoContext(ctx, "Sensitive columns masked",
		slog.Int("columns", len(masked)),
		slog.String("names", strings.Join(masked, ",")))

	return out, masked
}

// MaskValue obfuscates one trimmed value by its length in characters:
// up to 2 keeps the first character, 3 keeps the first and last, longer
// values keep the first four followed by the suffix.
func (m *Masker) MaskValue(s string) string {
	r := []rune(strings.TrimSpace(s))
	switch {
	case len(r) == 0:
		return s
	case len(r) <= 2:
		return string(r[0]) + m.glyph
	case len(r) == 3:
		return string(r[0]) + m.glyph + string(r[2])
	default:
		return string(r[:4]) + m.suffix
	}
}
