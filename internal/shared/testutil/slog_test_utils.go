package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord represents a captured log record for testing
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder holds every record written through handlers derived from it
type LogRecorder struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

// BufferedSlogHandler captures log records for testing. Attributes added
// with WithAttrs are carried onto every record, so component tags set by
// logger.With are visible to assertions.
type BufferedSlogHandler struct {
	recorder *LogRecorder
	attrs    []slog.Attr
	group    string
}

// NewTestLogger creates a logger with a buffered handler for testing
func NewTestLogger(t *testing.T) (*slog.Logger, *LogRecorder) {
	recorder := &LogRecorder{t: t}
	return slog.New(&BufferedSlogHandler{recorder: recorder}), recorder
}

// Enabled implements slog.Handler
func (h *BufferedSlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[h.key(a.Key)] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Any()
		return true
	})

	h.recorder.add(LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs implements slog.Handler
func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

// WithGroup implements slog.Handler
func (h *BufferedSlogHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = h.key(name)
	return &next
}

func (h *BufferedSlogHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func (r *LogRecorder) add(rec LogRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	if r.t != nil {
		r.t.Logf("[%s] %s %v", rec.Level, rec.Message, rec.Attrs)
	}
}

// Records returns a copy of all captured log records
func (r *LogRecorder) Records() []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]LogRecord, len(r.records))
	copy(records, r.records)
	return records
}

// RecordsByLevel returns log records filtered by level
func (r *LogRecorder) RecordsByLevel(level slog.Level) []LogRecord {
	var filtered []LogRecord
	for _, rec := range r.Records() {
		if rec.Level == level {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// ContainsMessage checks if any log record contains the given message
func (r *LogRecorder) ContainsMessage(message string) bool {
	for _, rec := range r.Records() {
		if strings.Contains(rec.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr checks if any log record carries key=value
func (r *LogRecorder) ContainsAttr(key string, value any) bool {
	for _, rec := range r.Records() {
		if val, ok := rec.Attrs[key]; ok && val == value {
			return true
		}
	}
	return false
}

// Clear removes all captured records
func (r *LogRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = r.records[:0]
}

// Count returns the number of captured records
func (r *LogRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// AssertLogContains checks for a message at the given level
func AssertLogContains(t *testing.T, recorder *LogRecorder, level slog.Level, message string) {
	t.Helper()

	records := recorder.RecordsByLevel(level)
	for _, rec := range records {
		if strings.Contains(rec.Message, message) {
			return
		}
	}

	t.Errorf("Expected log message not found at level %s: %q", level, message)
	for _, rec := range records {
		t.Logf("  - %s", rec.Message)
	}
}

// AssertLogAttr checks that some record carries key=expected
func AssertLogAttr(t *testing.T, recorder *LogRecorder, key string, expected any) {
	t.Helper()

	if !recorder.ContainsAttr(key, expected) {
		t.Errorf("Expected log attribute not found: %s=%v", key, expected)
		for _, rec := range recorder.Records() {
			t.Logf("  - %s: %v", rec.Message, rec.Attrs)
		}
	}
}

// AssertNoErrors checks that no error-level logs were recorded
func AssertNoErrors(t *testing.T, recorder *LogRecorder) {
	t.Helper()

	for _, rec := range recorder.RecordsByLevel(slog.LevelError) {
		t.Errorf("Unexpected error log: %s: %v", rec.Message, rec.Attrs)
	}
}

// WriteFile writes content to name inside a fresh temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
