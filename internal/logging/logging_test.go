package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "id", "BL-25-12-01")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "id=BL-25-12-01") {
		t.Fatalf("expected structured attribute in output: %s", out)
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Info("first")
	closer.Close()

	logger, closer, err = OpenFile(path, "info")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	logger.Info("second")
	closer.Close()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("expected both lines, got %s", data)
	}
}
