package ble

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLineBufferSplitsOnNewline(t *testing.T) {
	lb := newLineBuffer(1024)
	lines := lb.feed([]byte("CMD:ping\nCMD:pon"))
	if len(lines) != 1 || lines[0] != "CMD:ping" {
		t.Fatalf("got %v", lines)
	}
	lines = lb.feed([]byte("g\n"))
	if len(lines) != 1 || lines[0] != "CMD:pong" {
		t.Fatalf("got %v", lines)
	}
}

func TestLineBufferIgnoresBlankLines(t *testing.T) {
	lb := newLineBuffer(1024)
	lines := lb.feed([]byte("\n\nCMD:ping\n\n"))
	if len(lines) != 1 || lines[0] != "CMD:ping" {
		t.Fatalf("got %v", lines)
	}
}

func TestLineBufferFlushesOversizedUnterminatedInput(t *testing.T) {
	lb := newLineBuffer(8)
	lines := lb.feed([]byte("0123456789"))
	if len(lines) != 1 || lines[0] != "0123456789" {
		t.Fatalf("expected the overflowed buffer flushed as one message, got %v", lines)
	}
	if len(lb.buf) != 0 {
		t.Fatalf("expected buffer to be reset after exceeding max size, got %d bytes", len(lb.buf))
	}
}

func TestLocalIPReturnsAnAddress(t *testing.T) {
	ip, err := localIP()
	if err != nil {
		t.Fatalf("localIP: %v", err)
	}
	if ip == "" {
		t.Fatal("expected non-empty IP")
	}
}

func TestBuildDiscoverMessageWithoutToken(t *testing.T) {
	dir := t.TempDir()
	msg, err := buildDiscoverMessage(8080, filepath.Join(dir, "missing-token"))
	if err != nil {
		t.Fatalf("buildDiscoverMessage: %v", err)
	}
	if !strings.HasPrefix(msg, "DISCOVER:") {
		t.Fatalf("got %q", msg)
	}
	if strings.Contains(msg, `"token"`) {
		t.Fatalf("expected no token field, got %q", msg)
	}
	if !strings.Contains(msg, `"port":8080`) {
		t.Fatalf("expected port in payload, got %q", msg)
	}
}

func TestBuildDiscoverMessageWithToken(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenPath, []byte("secret-token\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	msg, err := buildDiscoverMessage(9000, tokenPath)
	if err != nil {
		t.Fatalf("buildDiscoverMessage: %v", err)
	}
	if !strings.Contains(msg, `"token":"secret-token"`) {
		t.Fatalf("expected token in payload, got %q", msg)
	}
}

func TestPairingCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairing.toml")

	if cache := LoadPairingCache(path); cache.Address != "" {
		t.Fatalf("expected empty cache for missing file, got %+v", cache)
	}

	want := PairingCache{Address: "AA:BB:CC:DD:EE:FF", Name: "cortex-wearable", MTU: 185}
	if err := SavePairingCache(path, want); err != nil {
		t.Fatalf("SavePairingCache: %v", err)
	}

	got := LoadPairingCache(path)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
