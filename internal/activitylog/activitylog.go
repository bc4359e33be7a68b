// Package activitylog writes an append-only JSONL event stream with
// rotation aligned to recording segment boundaries: each file is
// self-contained (its own header line) and independently readable, unlike
// applog's size-rotated process log.
package activitylog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const bootIDFile = "/proc/sys/kernel/random/boot_id"

// Logger is an append-only, fsync-per-write JSONL writer. Every call is
// best-effort: a write failure closes the current file and is otherwise
// swallowed, because activity logging must never interrupt recording.
type Logger struct {
	mu sync.Mutex

	dir         string
	rotateEvery time.Duration
	bootID      string

	file      *os.File
	filePath  string
	openedAt  time.Time
	sessionID string
}

// New creates a Logger rooted at dir, rotating to a freshly stamped file
// every rotateEvery. The directory is created if missing.
func New(dir string, rotateEvery time.Duration) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating activity log dir: %w", err)
	}
	return &Logger{dir: dir, rotateEvery: rotateEvery, bootID: readBootID()}, nil
}

// SetSession attaches (or, with "", clears) the session id stamped on
// every subsequent log line.
func (l *Logger) SetSession(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessionID = sessionID
}

// Log appends one event. data may be nil.
func (l *Logger) Log(event string, data map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureFileLocked(); err != nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	entry := map[string]any{
		"ts":      time.Now().Format("2006-01-02T15:04:05.000Z07:00"),
		"event":   event,
		"session": nilIfEmpty(l.sessionID),
		"data":    data,
	}
	l.writeLocked(entry)
}

// RotateNow forces the next Log call to open a fresh file, for callers
// that want rotation to align exactly with an external event (a new
// audio segment starting) rather than waiting for the time window.
func (l *Logger) RotateNow() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
}

// Close flushes and closes the current file. Call on shutdown.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeLocked()
}

func (l *Logger) ensureFileLocked() error {
	now := time.Now()
	if l.file != nil && now.Sub(l.openedAt) >= l.rotateEvery {
		l.closeLocked()
	}
	if l.file != nil {
		return nil
	}

	stamp := now.Format("20060102_150405")
	path := filepath.Join(l.dir, stamp+".jsonl")
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(l.dir, fmt.Sprintf("%s_%d.jsonl", stamp, n))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return err
	}
	l.file = f
	l.filePath = path
	l.openedAt = now

	l.writeLocked(map[string]any{
		"ts":      now.Format("2006-01-02T15:04:05.000Z07:00"),
		"event":   "log_started",
		"session": nilIfEmpty(l.sessionID),
		"data": map[string]any{
			"boot_id":          l.bootID,
			"log_file":         filepath.Base(path),
			"rotation_seconds": int(l.rotateEvery.Seconds()),
		},
	})
	return nil
}

func (l *Logger) writeLocked(entry map[string]any) {
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	line = append(line, '\n')
	if _, err := l.file.Write(line); err != nil {
		l.closeLocked()
		return
	}
	_ = l.file.Sync()
}

func (l *Logger) closeLocked() {
	if l.file == nil {
		return
	}
	_ = l.file.Sync()
	_ = l.file.Close()
	l.file = nil
	l.filePath = ""
}

func readBootID() string {
	body, err := os.ReadFile(bootIDFile)
	if err != nil {
		return "unknown"
	}
	return strings.TrimRight(string(body), "\r\n")
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
