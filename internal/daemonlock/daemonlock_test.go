package daemonlock

import (
	"path/filepath"
	"testing"
)

func TestAcquireThenReleaseAllowsReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortexd.lock")

	l, err := Acquire(path, "v1.2.3")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	entry, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if entry.Version != "v1.2.3" {
		t.Fatalf("got version %q", entry.Version)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	l2, err := Acquire(path, "v1.2.4")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer l2.Release()
}

func TestAcquireFailsWhenAlreadyHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortexd.lock")

	l, err := Acquire(path, "v1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer l.Release()

	if _, err := Acquire(path, "v1"); err == nil {
		t.Fatal("expected second acquire to fail while lock is held")
	}
}
