package runtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/cortexwear/cortexd/internal/protocol"
	"github.com/cortexwear/cortexd/internal/store"
)

// BLEConnChecker reports whether a BLE central link is currently attached;
// implemented by internal/transport/ble, stubbed in tests.
type BLEConnChecker interface {
	Connected() bool
}

// DiskFreeGBer reports free space on the data partition in gigabytes;
// supplied by cmd/cortexd (freeDiskGB), stubbed in tests.
type DiskFreeGBer func() float64

// Glue is the device-local front door: every inbound transport message
// passes through HandleIncoming before (if at all) it reaches the generic
// wire-protocol dispatcher.
type Glue struct {
	machine    *Machine
	dispatcher *protocol.Dispatcher
	store      *store.Store

	started  time.Time
	ble      BLEConnChecker
	diskFree DiskFreeGBer
}

// NewGlue wires a state machine to a dispatcher and a store for the
// voice-note and plain-text fallback paths.
func NewGlue(m *Machine, d *protocol.Dispatcher, s *store.Store, ble BLEConnChecker, diskFree DiskFreeGBer) *Glue {
	if ble == nil {
		ble = alwaysDisconnected{}
	}
	if diskFree == nil {
		diskFree = func() float64 { return 0 }
	}
	return &Glue{machine: m, dispatcher: d, store: s, started: time.Now(), ble: ble, diskFree: diskFree}
}

type alwaysDisconnected struct{}

func (alwaysDisconnected) Connected() bool { return false }

// StatusContext builds the context record consumed by the status command,
// refreshed on every call so it never goes stale between commands.
func (g *Glue) StatusContext() protocol.StatusContext {
	return protocol.StatusContext{
		AppState:      string(g.machine.State()),
		UptimeSeconds: time.Since(g.started).Seconds(),
		DiskFreeGB:    g.diskFree(),
		BLEConnected:  g.ble.Connected(),
	}
}

// HandleIncoming is the single entry point transports call with a raw,
// already-chunk-reassembled wire message. It intercepts start_recording/
// stop_recording before generic dispatch, hands CMD: frames to the
// dispatcher, and treats anything else as a plain-text voice note.
func (g *Glue) HandleIncoming(raw string) string {
	if strings.HasPrefix(raw, "CMD:") {
		cmd, payload := splitCommand(raw)
		switch cmd {
		case "start_recording":
			return g.handleStartRecording(payload)
		case "stop_recording":
			return g.handleStopRecording()
		default:
			return g.dispatcher.HandleCommand(raw, g.StatusContext())
		}
	}

	return g.saveVoiceFallback(raw)
}

func splitCommand(raw string) (cmd, payload string) {
	rest := strings.TrimPrefix(raw, "CMD:")
	cmd, payload, _ = strings.Cut(rest, ":")
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	return cmd, payload
}

func (g *Glue) handleStartRecording(payload string) string {
	state := g.machine.State()
	switch state {
	case StateRecording:
		return "ERR:start_recording:already recording"
	case StateShutdown:
		return "ERR:start_recording:device shutting down"
	}

	resumed := state == StatePaused
	g.machine.ForceRecording()
	if resumed {
		return "ACK:start_recording:resumed"
	}
	return "ACK:start_recording:started"
}

func (g *Glue) handleStopRecording() string {
	state := g.machine.State()
	if state != StateRecording && state != StatePaused {
		return "ERR:stop_recording:not recording"
	}
	g.machine.LongPress()
	return "ACK:stop_recording:stopped"
}

// saveVoiceFallback stores a raw, non-CMD/CHUNK BLE message as a voice
// note rather than silently dropping it.
func (g *Glue) saveVoiceFallback(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	id, err := g.SaveVoiceNote(text, "")
	if err != nil {
		return fmt.Sprintf("ERR:voice:%v", err)
	}
	return fmt.Sprintf("ACK:voice:%d", id)
}

// SaveVoiceNote stores text as a note row with note_type and source both
// "voice". Only the database row is written; no plain-text file is
// created alongside it.
func (g *Glue) SaveVoiceNote(text, sessionID string) (int64, error) {
	if sessionID == "" {
		sessionID = g.dispatcher.ActiveSessionID()
	}
	return g.store.InsertNote(store.Note{
		Content:   text,
		NoteType:  "voice",
		Source:    "voice",
		SessionID: sessionID,
	})
}
