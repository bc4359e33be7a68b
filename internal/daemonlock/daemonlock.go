// Package daemonlock guards against two cortexd processes running against
// the same data directory at once, using a single flock-backed pidfile.
package daemonlock

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

// Entry is the JSON payload written alongside the lock so an operator (or
// cortexctl) can tell what's holding it.
type Entry struct {
	PID       int       `json:"pid"`
	Version   string    `json:"version"`
	StartedAt time.Time `json:"started_at"`
}

// Lock is a held single-instance lock. Call Release when the daemon shuts
// down; an unreleased lock is freed by the OS when the process exits.
type Lock struct {
	flock *flock.Flock
	path  string
}

// Acquire tries to take the lock at path, failing fast (non-blocking) if
// another process already holds it.
func Acquire(path, version string) (*Lock, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring daemon lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("cortexd is already running (lock held at %s)", path)
	}

	entry := Entry{PID: os.Getpid(), Version: version, StartedAt: time.Now()}
	body, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("encoding lock entry: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("writing lock entry: %w", err)
	}

	return &Lock{flock: fl, path: path}, nil
}

// Release unlocks and removes the pidfile. Safe to call once; a second
// call is a no-op error-wise since flock.Unlock on an unlocked handle
// just returns nil.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("releasing daemon lock: %w", err)
	}
	_ = os.Remove(l.path)
	return nil
}

// Read loads the entry at path without acquiring the lock, for "is a
// daemon running, and who" diagnostics.
func Read(path string) (Entry, error) {
	var e Entry
	body, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return e, fmt.Errorf("decoding lock entry: %w", err)
	}
	return e, nil
}
