package activitylog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogWritesHeaderAndEvent(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.SetSession("sess-1")
	l.Log("mic_started", map[string]any{"segment": 1})
	l.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, got %d", len(entries))
	}

	body, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + event line, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], `"log_started"`) {
		t.Fatalf("expected header line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], `"mic_started"`) || !strings.Contains(lines[1], `"sess-1"`) {
		t.Fatalf("expected event line with session, got %q", lines[1])
	}
}

func TestRotateNowStartsFreshFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log("a", nil)
	l.RotateNow()
	l.Log("b", nil)
	l.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected RotateNow to start a second file, got %d", len(entries))
	}
}

func TestRotationByTimeWindow(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log("first", nil)
	time.Sleep(20 * time.Millisecond)
	l.Log("second", nil)
	l.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected rotation to produce at least two files, got %d", len(entries))
	}
}
