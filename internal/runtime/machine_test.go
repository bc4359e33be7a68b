package runtime

import "testing"

type fakeRecorder struct {
	started, stopped int
	elapsed          float64
	segments         int
}

func (f *fakeRecorder) Start() error                  { f.started++; return nil }
func (f *fakeRecorder) Stop() error                    { f.stopped++; return nil }
func (f *fakeRecorder) IsAlive() bool                  { return true }
func (f *fakeRecorder) SessionElapsedSeconds() float64 { return f.elapsed }
func (f *fakeRecorder) SegmentCount() int              { return f.segments }

func TestShortPressTogglesListening(t *testing.T) {
	m := NewMachine(nil, nil)
	if m.State() != StateSTTIdle {
		t.Fatalf("expected initial STT_IDLE, got %v", m.State())
	}
	m.ShortPress()
	if m.State() != StateSTTListening {
		t.Fatalf("expected STT_LISTENING, got %v", m.State())
	}
	m.ShortPress()
	if m.State() != StateSTTIdle {
		t.Fatalf("expected cancel back to STT_IDLE, got %v", m.State())
	}
}

func TestVoiceCommandNoteFlow(t *testing.T) {
	m := NewMachine(nil, nil)
	m.ShortPress() // -> STT_LISTENING
	m.VoiceCommand("take a note please")
	if m.State() != StateNoteTaking {
		t.Fatalf("expected NOTE_TAKING, got %v", m.State())
	}
	m.AccumulateNoteText("buy milk")
	m.AccumulateNoteText("and eggs")
	saved := m.ShortPress()
	if saved != "buy milk and eggs" {
		t.Fatalf("got note text %q", saved)
	}
	if m.State() != StateSTTIdle {
		t.Fatalf("expected STT_IDLE after save, got %v", m.State())
	}
}

func TestVoiceCommandRecordFlow(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewMachine(rec, nil)
	m.ShortPress()
	m.VoiceCommand("start record")
	if m.State() != StateRecording {
		t.Fatalf("expected RECORDING, got %v", m.State())
	}
	if rec.started != 1 {
		t.Fatalf("expected recorder started once, got %d", rec.started)
	}

	m.ShortPress() // pause
	if m.State() != StatePaused || rec.stopped != 1 {
		t.Fatalf("expected PAUSED with one stop, got state=%v stopped=%d", m.State(), rec.stopped)
	}

	m.ShortPress() // resume
	if m.State() != StateRecording || rec.started != 2 {
		t.Fatalf("expected resumed RECORDING, got state=%v started=%d", m.State(), rec.started)
	}

	rec.elapsed = 42
	rec.segments = 3
	m.LongPress()
	if m.State() != StateSTTIdle {
		t.Fatalf("expected STT_IDLE after long press, got %v", m.State())
	}
	if rec.stopped != 2 {
		t.Fatalf("expected recorder stopped twice total, got %d", rec.stopped)
	}
}

func TestLongPressOutsideRecordingIsNoop(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewMachine(rec, nil)
	m.LongPress()
	if m.State() != StateSTTIdle || rec.stopped != 0 {
		t.Fatalf("expected no-op, got state=%v stopped=%d", m.State(), rec.stopped)
	}
}

func TestSilenceTimeoutSavesNoteAndCancelsListening(t *testing.T) {
	m := NewMachine(nil, nil)
	m.ShortPress()
	if saved := m.SilenceTimeout(); saved != "" {
		t.Fatalf("expected no note on listening timeout, got %q", saved)
	}
	if m.State() != StateSTTIdle {
		t.Fatalf("expected STT_IDLE, got %v", m.State())
	}

	m.ShortPress()
	m.VoiceCommand("note")
	m.AccumulateNoteText("partial thought")
	saved := m.SilenceTimeout()
	if saved != "partial thought" {
		t.Fatalf("got %q", saved)
	}
	if m.State() != StateSTTIdle {
		t.Fatalf("expected STT_IDLE after timeout save, got %v", m.State())
	}
}

func TestForceRecordingFromIdle(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewMachine(rec, nil)
	m.ForceRecording()
	if m.State() != StateRecording || rec.started != 1 {
		t.Fatalf("expected forced RECORDING, got state=%v started=%d", m.State(), rec.started)
	}
	m.ForceRecording()
	if rec.started != 1 {
		t.Fatalf("expected no-op when already recording, got started=%d", rec.started)
	}
}

func TestEventCallbackFires(t *testing.T) {
	var events []string
	m := NewMachine(nil, func(event string, _ map[string]any) {
		events = append(events, event)
	})
	m.ShortPress()
	m.ShortPress()
	if len(events) != 2 || events[0] != "stt_listening_started" || events[1] != "stt_listening_cancelled" {
		t.Fatalf("got events %v", events)
	}
}
