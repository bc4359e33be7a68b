package runtime

import (
	"strings"
	"sync"
	"time"
)

// Recorder is the external audio-capture collaborator's control surface.
// The recorder process itself — arecord invocation, segment rotation,
// disk accounting — is out of scope here; runtime only needs to start,
// stop, and poll it.
type Recorder interface {
	Start() error
	Stop() error
	IsAlive() bool
	SessionElapsedSeconds() float64
	SegmentCount() int
}

// NoopRecorder satisfies Recorder when no external recorder process is
// wired up (tests, or a build with recording disabled).
type NoopRecorder struct{}

func (NoopRecorder) Start() error                  { return nil }
func (NoopRecorder) Stop() error                    { return nil }
func (NoopRecorder) IsAlive() bool                  { return true }
func (NoopRecorder) SessionElapsedSeconds() float64 { return 0 }
func (NoopRecorder) SegmentCount() int              { return 0 }

// Machine is the wearable's button/voice-driven state machine. It holds
// no transport-specific state — BLE and HTTP both drive it through the
// same methods.
type Machine struct {
	mu    sync.Mutex
	state AppState

	recorder   Recorder
	noteText   string
	noteStart  time.Time
	pauseStart time.Time

	onEvent func(event string, data map[string]any)
}

// NewMachine starts the machine in STT_IDLE, the device's sole idle mode.
func NewMachine(recorder Recorder, onEvent func(event string, data map[string]any)) *Machine {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	if onEvent == nil {
		onEvent = func(string, map[string]any) {}
	}
	return &Machine{state: StateSTTIdle, recorder: recorder, onEvent: onEvent}
}

// State returns the current mode.
func (m *Machine) State() AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ShortPress advances the state machine on a short button press, mirroring
// the five-way branch in the original firmware loop.
func (m *Machine) ShortPress() (savedNote string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateSTTIdle:
		m.state = StateSTTListening
		m.onEvent("stt_listening_started", nil)

	case StateSTTListening:
		m.state = StateSTTIdle
		m.onEvent("stt_listening_cancelled", nil)

	case StateNoteTaking:
		savedNote = m.noteText
		dur := 0.0
		if !m.noteStart.IsZero() {
			dur = time.Since(m.noteStart).Seconds()
		}
		m.onEvent("note_saved", map[string]any{"text": truncate(m.noteText, 500), "duration_s": dur})
		m.noteText = ""
		m.noteStart = time.Time{}
		m.state = StateSTTIdle

	case StateRecording:
		_ = m.recorder.Stop()
		m.state = StatePaused
		m.pauseStart = time.Now()
		m.onEvent("mic_paused", map[string]any{"elapsed_seconds": m.recorder.SessionElapsedSeconds()})

	case StatePaused:
		pauseDur := 0.0
		if !m.pauseStart.IsZero() {
			pauseDur = time.Since(m.pauseStart).Seconds()
		}
		_ = m.recorder.Start()
		m.state = StateRecording
		m.pauseStart = time.Time{}
		m.onEvent("mic_resumed", map[string]any{"pause_duration_seconds": pauseDur})
	}
	return savedNote
}

// LongPress stops an in-progress recording and returns to STT_IDLE — it is
// a no-op outside RECORDING/PAUSED.
func (m *Machine) LongPress() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRecording && m.state != StatePaused {
		return
	}
	elapsed := m.recorder.SessionElapsedSeconds()
	segments := m.recorder.SegmentCount()
	_ = m.recorder.Stop()
	m.state = StateSTTIdle
	m.pauseStart = time.Time{}
	m.onEvent("mic_stopped", map[string]any{"total_segments": segments, "total_elapsed_seconds": elapsed})
}

// VoiceCommand handles a finalized STT transcript while listening: "note"
// and "record" are the only recognized commands, matching the prototype's
// substring match.
func (m *Machine) VoiceCommand(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSTTListening {
		return
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "note"):
		m.noteText = ""
		m.noteStart = time.Now()
		m.state = StateNoteTaking
		m.onEvent("note_started", nil)
	case strings.Contains(lower, "record"):
		_ = m.recorder.Start()
		m.state = StateRecording
		m.onEvent("mic_started", nil)
	}
}

// ForceRecording starts recording directly, regardless of the current STT
// state, for device-local commands that bypass the voice-trigger path.
// It is a no-op if already RECORDING.
func (m *Machine) ForceRecording() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateRecording {
		return
	}
	_ = m.recorder.Start()
	m.state = StateRecording
	m.pauseStart = time.Time{}
	m.onEvent("mic_started", map[string]any{"forced": true})
}

// AccumulateNoteText appends a transcript fragment while NOTE_TAKING.
func (m *Machine) AccumulateNoteText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateNoteTaking || text == "" {
		return
	}
	if m.noteText == "" {
		m.noteText = text
	} else {
		m.noteText = m.noteText + " " + text
	}
}

// SilenceTimeout auto-saves a note or cancels listening when the caller
// observes the silence threshold has elapsed; returns the note text to
// save when transitioning out of NOTE_TAKING.
func (m *Machine) SilenceTimeout() (savedNote string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateSTTListening:
		m.state = StateSTTIdle
		m.onEvent("stt_listening_timeout", nil)
	case StateNoteTaking:
		savedNote = m.noteText
		m.onEvent("note_saved", map[string]any{"text": truncate(m.noteText, 500)})
		m.noteText = ""
		m.noteStart = time.Time{}
		m.state = StateSTTIdle
	}
	return savedNote
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
