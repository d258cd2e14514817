package testutil

import (
	"log/slog"
	"os"
	"testing"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, recorder := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		if got := len(recorder.Records()); got != 2 {
			t.Errorf("Expected 2 records, got %d", got)
		}
		if !recorder.ContainsMessage("test message") {
			t.Error("Expected to find 'test message'")
		}
		if !recorder.ContainsAttr("key", "value") {
			t.Error("Expected to find attribute key=value")
		}
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, recorder := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if got := len(recorder.RecordsByLevel(slog.LevelInfo)); got != 1 {
			t.Errorf("Expected 1 info record, got %d", got)
		}
		if got := len(recorder.RecordsByLevel(slog.LevelDebug)); got != 1 {
			t.Errorf("Expected 1 debug record, got %d", got)
		}
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, recorder := NewTestLogger(t)

		logger.With(slog.String("component", "file_store")).Info("Writing file")
		logger.WithGroup("req").Info("done", slog.Int("status", 200))

		AssertLogAttr(t, recorder, "component", "file_store")
		AssertLogAttr(t, recorder, "req.status", int64(200))
	})

	t.Run("clear", func(t *testing.T) {
		logger, recorder := NewTestLogger(t)

		logger.Info("one")
		recorder.Clear()
		logger.Info("two")

		if recorder.Count() != 1 {
			t.Errorf("Expected 1 record after clear, got %d", recorder.Count())
		}
		AssertLogContains(t, recorder, slog.LevelInfo, "two")
		AssertNoErrors(t, recorder)
	})
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "a.csv", "x\n1\n")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "x\n1\n" {
		t.Errorf("unexpected content %q", data)
	}
}
