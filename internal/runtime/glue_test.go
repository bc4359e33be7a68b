package runtime

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/cortexwear/cortexd/internal/protocol"
	"github.com/cortexwear/cortexd/internal/store"
)

func newTestGlue(t *testing.T) (*Glue, *fakeRecorder) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cortex.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	rec := &fakeRecorder{}
	m := NewMachine(rec, nil)
	d := protocol.NewDispatcher(s)
	return NewGlue(m, d, s, nil, nil), rec
}

func TestHandleIncomingDelegatesGenericCommands(t *testing.T) {
	g, _ := newTestGlue(t)
	got := g.HandleIncoming("CMD:ping")
	if got != "RSP:pong" {
		t.Fatalf("got %q", got)
	}
}

func TestHandleIncomingInterceptsStartStopRecording(t *testing.T) {
	g, rec := newTestGlue(t)

	got := g.HandleIncoming("CMD:start_recording")
	if got != "ACK:start_recording:started" {
		t.Fatalf("got %q", got)
	}
	if g.machine.State() != StateRecording {
		t.Fatalf("expected RECORDING, got %v", g.machine.State())
	}
	if rec.started != 1 {
		t.Fatalf("expected recorder started once, got %d", rec.started)
	}

	got = g.HandleIncoming("CMD:start_recording")
	if got != "ERR:start_recording:already recording" {
		t.Fatalf("got %q", got)
	}

	got = g.HandleIncoming("CMD:stop_recording")
	if got != "ACK:stop_recording:stopped" {
		t.Fatalf("got %q", got)
	}
	if g.machine.State() != StateSTTIdle {
		t.Fatalf("expected STT_IDLE, got %v", g.machine.State())
	}

	got = g.HandleIncoming("CMD:stop_recording")
	if got != "ERR:stop_recording:not recording" {
		t.Fatalf("got %q", got)
	}
}

func TestHandleIncomingPlainTextBecomesVoiceNote(t *testing.T) {
	g, _ := newTestGlue(t)
	got := g.HandleIncoming("remember to water the plants")
	if !strings.HasPrefix(got, "ACK:voice:") {
		t.Fatalf("got %q", got)
	}

	rows, err := g.store.Query("notes", nil, "", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one note row, got %d", len(rows))
	}
	if rows[0]["source"] != "voice" {
		t.Fatalf("expected source=voice, got %v", rows[0]["source"])
	}
}

func TestHandleIncomingBlankPlainTextIsIgnored(t *testing.T) {
	g, _ := newTestGlue(t)
	got := g.HandleIncoming("   ")
	if got != "" {
		t.Fatalf("expected empty response for blank fallback, got %q", got)
	}
}

func TestStatusContextReflectsMachineState(t *testing.T) {
	g, _ := newTestGlue(t)
	ctx := g.StatusContext()
	if ctx.AppState != string(StateSTTIdle) {
		t.Fatalf("got app state %q", ctx.AppState)
	}
	if ctx.BLEConnected {
		t.Fatal("expected BLE disconnected by default stub")
	}
}
