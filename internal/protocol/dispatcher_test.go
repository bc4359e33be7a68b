package protocol

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cortexwear/cortexd/internal/store"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cortex.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewDispatcher(s)
}

func TestDispatchPing(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand("CMD:ping", StatusContext{})
	if got != "RSP:pong" {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand("CMD:teleport", StatusContext{})
	if got != "ERR:teleport:unknown command" {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchNoteRequiresContent(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand(`CMD:note:{"tags":"x"}`, StatusContext{})
	if got != "ERR:note:missing content field" {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchNoteAcks(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand(`CMD:note:{"content":"remember this"}`, StatusContext{})
	if !strings.HasPrefix(got, "ACK:note:") {
		t.Fatalf("got %q", got)
	}
}

func TestSessionStartSetsActiveSession(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand(`CMD:session_start:{"ai_platform":"claude"}`, StatusContext{})
	if !strings.HasPrefix(got, "ACK:session:") {
		t.Fatalf("got %q", got)
	}
	if d.ActiveSessionID() == "" {
		t.Fatal("expected active session id after session_start")
	}

	sessionID := strings.TrimPrefix(got, "ACK:session:")
	got = d.HandleCommand("CMD:session_end", StatusContext{})
	if got != "ACK:session_end:"+sessionID {
		t.Fatalf("got %q", got)
	}
	if d.ActiveSessionID() != "" {
		t.Fatal("expected active session cleared after session_end")
	}
}

func TestSessionEndWithNoActiveSession(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand("CMD:session_end", StatusContext{})
	if got != "ERR:session_end:no active session" {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchStatusReflectsContext(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand("CMD:status", StatusContext{AppState: "STT_IDLE", BLEConnected: true})
	if !strings.HasPrefix(got, "RSP:status:") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, `"app_state":"STT_IDLE"`) {
		t.Fatalf("expected app_state in status payload: %q", got)
	}
}

func TestDispatchQueryRejectsUnknownTable(t *testing.T) {
	d := newTestDispatcher(t)
	got := d.HandleCommand(`CMD:query:{"table":"users"}`, StatusContext{})
	if got != "ERR:query:invalid or missing table: \"users\"" {
		t.Fatalf("got %q", got)
	}
}

func TestFileDeleteRejectsProtectedCategory(t *testing.T) {
	d := newTestDispatcher(t)
	id, err := d.store.InsertFile(store.File{Filename: "session.log", Category: "logs", SizeBytes: 10})
	if err != nil {
		t.Fatalf("insert file: %v", err)
	}

	got := d.HandleCommand(fmt.Sprintf(`CMD:file_delete:{"id":%d}`, id), StatusContext{})
	if !strings.HasPrefix(got, "ERR:file_delete:deletion not allowed for category: logs") {
		t.Fatalf("got %q", got)
	}

	category, found, err := d.store.FileCategory(id)
	if err != nil || !found || category != "logs" {
		t.Fatalf("expected file to survive the rejected delete, category=%q found=%v err=%v", category, found, err)
	}
}

func TestFileDeleteAllowsRecordingsAndUploads(t *testing.T) {
	d := newTestDispatcher(t)
	id, err := d.store.InsertFile(store.File{Filename: "clip.wav", Category: "recordings", SizeBytes: 10})
	if err != nil {
		t.Fatalf("insert file: %v", err)
	}

	got := d.HandleCommand(fmt.Sprintf(`CMD:file_delete:{"id":%d}`, id), StatusContext{})
	if got != fmt.Sprintf("ACK:file_delete:%d", id) {
		t.Fatalf("got %q", got)
	}
}
