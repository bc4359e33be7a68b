// Package runtime is the device-side glue between the wire protocol and
// the wearable's recording state machine: it intercepts start_recording/
// stop_recording before they ever reach the generic dispatcher, folds
// raw non-command BLE text into voice notes, and reports the state
// machine's current mode to the status command.
package runtime

// AppState is the wearable's top-level mode. There is deliberately no
// separate IDLE state — STT listening is the device's sole idle surface,
// collapsing the legacy IDLE/STT_IDLE split.
type AppState string

const (
	StateSTTIdle      AppState = "STT_IDLE"
	StateSTTListening AppState = "STT_LISTENING"
	StateNoteTaking   AppState = "NOTE_TAKING"
	StateRecording    AppState = "RECORDING"
	StatePaused       AppState = "PAUSED"
	StateShutdown     AppState = "SHUTDOWN"
)
