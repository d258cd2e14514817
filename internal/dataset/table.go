package dataset

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ColumnKind is the classification computed once when a Table is built
type ColumnKind int

const (
	// KindCategorical holds free text or labels
	KindCategorical ColumnKind = iota
	// KindNumeric holds measurements usable by every numeric operation
	KindNumeric
	// KindIdentifier holds numbers whose column name marks them as codes or IDs
	KindIdentifier
)

// String returns the kind label used in API responses
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindIdentifier:
		return "identifier"
	default:
		return "categorical"
	}
}

// missingTokens mirrors the default NA spellings of common spreadsheet tooling
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissingToken reports whether a raw cell denotes a missing value
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// Options controls column classification
type Options struct {
	// IdentifierKeywords are matched case-insensitively as substrings of
	// column names.
	IdentifierKeywords []string
}

// Column is a named, typed sequence of cells
type Column struct {
	Name string
	Kind ColumnKind

	raw     []string
	missing []bool
	numbers []float64
	// text is the canonical form of each number. Integer cells keep their
	// exact digits since float64 cannot hold long IDs.
	text []string
}

// Table is an ordered set of uniquely named columns of equal length
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a Table from a header and string rows. Short rows are padded
// with missing cells, duplicate or blank header names are disambiguated.
func New(header []string, rows [][]string, opts Options) (*Table, error) {
	names := uniqueNames(header)
	width := len(names)

	cols := make([]*Column, width)
	for j, name := range names {
		cols[j] = &Column{
			Name:    name,
			raw:     make([]string, len(rows)),
			missing: make([]bool, len(rows)),
		}
	}

	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), width)
		}
		for j := 0; j < width; j++ {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			if IsMissingToken(cell) {
				cols[j].missing[i] = true
				continue
			}
			cols[j].raw[i] = cell
		}
	}

	for _, c := range cols {
		c.classify(opts)
	}

	return fromColumns(cols, len(rows)), nil
}

func fromColumns(cols []*Column, rows int) *Table {
	t := &Table{columns: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i, c := range cols {
		t.index[c.Name] = i
	}
	return t
}

// uniqueNames replaces blank names with "Unnamed: i" and suffixes repeats
// with ".1", ".2", ... in order of appearance.
func uniqueNames(header []string) []string {
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// classify parses the column once and fixes its kind
func (c *Column) classify(opts Options) {
	numbers := make([]float64, len(c.raw))
	text := make([]string, len(c.raw))
	for i, s := range c.raw {
		if c.missing[i] {
			numbers[i] = math.NaN()
			continue
		}
		s = strings.TrimSpace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.Kind = KindCategorical
			c.numbers = nil
			c.text = nil
			return
		}
		numbers[i] = v
		text[i] = canonicalNumber(s, v)
	}

	c.numbers = numbers
	c.text = text
	if MatchesAny(c.Name, opts.IdentifierKeywords) {
		c.Kind = KindIdentifier
		return
	}
	c.Kind = KindNumeric
}

// MatchesAny reports whether name contains any keyword, ignoring case
func MatchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Len returns the number of rows
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Columns returns the columns in table order
func (t *Table) Columns() []*Column { return t.columns }

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Select keeps the requested names that exist, preserving request order and
// dropping duplicates.
func (t *Table) Select(names []string) []*Column {
	out := make([]*Column, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		if c, ok := t.Column(n); ok {
			out = append(out, c)
			seen[n] = true
		}
	}
	return out
}

// OfKind returns the columns of the given kind in table order
func (t *Table) OfKind(kind ColumnKind) []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// MissingCells counts missing cells across the whole table
func (t *Table) MissingCells() int {
	total := 0
	for _, c := range t.columns {
		total += c.MissingCount()
	}
	return total
}

// Clone returns a deep copy that can be modified independently
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.clone()
	}
	return fromColumns(cols, t.rows)
}

// Head returns a table holding at most the first n rows
func (t *Table) Head(n int) *Table {
	if n >= t.rows {
		return t
	}
	if n < 0 {
		n = 0
	}
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		h := &Column{Name: c.Name, Kind: c.Kind, raw: c.raw[:n], missing: c.missing[:n]}
		if c.numbers != nil {
			h.numbers = c.numbers[:n]
			h.text = c.text[:n]
		}
		cols[i] = h
	}
	return fromColumns(cols, n)
}

// Records returns every row as display strings, missing cells as "".
func (t *Table) Records() [][]string {
	out := make([][]string, t.rows)
	for i := range out {
		row := make([]string, len(t.columns))
		for j, c := range t.columns {
			row[j] = c.String(i)
		}
		out[i] = row
	}
	return out
}

func (c *Column) clone() *Column {
	out := &Column{
		Name:    c.Name,
		Kind:    c.Kind,
		raw:     append([]string(nil), c.raw...),
		missing: append([]bool(nil), c.missing...),
	}
	if c.numbers != nil {
		out.numbers = append([]float64(nil), c.numbers...)
		out.text = append([]string(nil), c.text...)
	}
	return out
}

// Len returns the number of cells
func (c *Column) Len() int { return len(c.raw) }

// HoldsNumbers reports whether every present value is numeric
func (c *Column) HoldsNumbers() bool { return c.Kind == KindNumeric || c.Kind == KindIdentifier }

// IsMissing reports whether row i is missing
func (c *Column) IsMissing(i int) bool { return c.missing[i] }

// MissingCount counts missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.missing {
		if m {
			n++
		}
	}
	return n
}

// Numbers returns the parsed values with NaN for missing cells. It is nil
// for categorical columns. Callers must not modify the slice.
func (c *Column) Numbers() []float64 { return c.numbers }

// Present returns the non-missing numbers in row order
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.numbers))
	for i, v := range c.numbers {
		if !c.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// String returns the display form of row i, "" when missing. Integers keep
// every digit, other numbers are rendered in their shortest round-trip form.
func (c *Column) String(i int) string {
	if c.missing[i] {
		return ""
	}
	if c.numbers != nil {
		return c.text[i]
	}
	return c.raw[i]
}

// Key returns the string coercion used for equality and distinct counts
func (c *Column) Key(i int) string {
	if c.numbers != nil && !c.missing[i] {
		return c.text[i]
	}
	return strings.TrimSpace(c.raw[i])
}

// Distinct returns the distinct non-missing keys in order of first appearance
func (c *Column) Distinct() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range c.raw {
		if c.missing[i] {
			continue
		}
		k := c.Key(i)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// SetNumbers replaces the column's values. NaN entries become missing.
func (c *Column) SetNumbers(values []float64) {
	if len(values) != len(c.raw) {
		panic(fmt.Sprintf("dataset: column %q has %d rows, got %d values", c.Name, len(c.raw), len(values)))
	}
	c.numbers = append(c.numbers[:0], values...)
	if len(c.text) != len(values) {
		c.text = make([]string, len(values))
	}
	for i, v := range values {
		c.missing[i] = math.IsNaN(v)
		c.raw[i] = ""
		if !c.missing[i] {
			c.raw[i] = FormatNumber(v)
		}
		c.text[i] = c.raw[i]
	}
}

// SetString replaces the text of row i in a categorical column. An empty
// string marks the cell missing.
func (c *Column) SetString(i int, s string) {
	c.raw[i] = s
	c.missing[i] = IsMissingToken(s)
	if c.numbers != nil {
		for j := range c.raw {
			if j != i && !c.missing[j] {
				c.raw[j] = c.text[j]
			}
		}
		c.numbers = nil
		c.text = nil
		c.Kind = KindCategorical
	}
}

// canonicalNumber keeps integer text exact, normalized the way an int64
// parse would print it, and falls back to the float form otherwise.
func canonicalNumber(s string, v float64) string {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n.String()
	}
	return FormatNumber(v)
}

// FormatNumber renders v in its shortest exact decimal form
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if math.IsInf(v, 0) || math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
