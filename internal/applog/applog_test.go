package applog

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONLinesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortexd.log")
	l, err := New(Options{FilePath: path, Level: slog.LevelInfo})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("daemon started", "pid", os.Getpid())

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(body), "daemon started") {
		t.Fatalf("expected message in log output, got %q", body)
	}
}

func TestNewDiscardSwallowsOutput(t *testing.T) {
	l := NewDiscard()
	l.Info("should not panic")
	l.With("component", "test").Warn("also fine")
}
