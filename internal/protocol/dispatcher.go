package protocol

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cortexwear/cortexd/internal/store"
)

// Dispatcher parses CMD:<command>:<payload> messages, routes them to a
// handler, and returns RSP:/ACK:/ERR: responses. Runtime glue intercepts
// start_recording/stop_recording before a message ever reaches here —
// everything that arrives at Dispatch is store-backed or a WiFi
// provisioning verb.
type Dispatcher struct {
	store *store.Store

	mu              sync.Mutex
	activeSessionID string
}

// NewDispatcher wires a dispatcher to the given store.
func NewDispatcher(s *store.Store) *Dispatcher {
	return &Dispatcher{store: s}
}

// ActiveSessionID returns the currently open session, or "" if none.
func (d *Dispatcher) ActiveSessionID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeSessionID
}

// HandleCommand parses a CMD:<command>:<payload> frame and dispatches it.
// Anything not starting with "CMD:" is not this dispatcher's concern — the
// caller (runtime glue) already decided that.
func (d *Dispatcher) HandleCommand(raw string, ctx StatusContext) string {
	rest := strings.TrimPrefix(raw, "CMD:")
	cmd, payload, _ := strings.Cut(rest, ":")
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	return d.dispatch(cmd, payload, ctx)
}

func (d *Dispatcher) dispatch(cmd, payload string, ctx StatusContext) (resp string) {
	defer func() {
		if r := recover(); r != nil {
			resp = fmt.Sprintf("ERR:%s:%v", cmd, r)
		}
	}()

	handler, ok := handlers[cmd]
	if !ok {
		return fmt.Sprintf("ERR:%s:unknown command", cmd)
	}
	return handler(d, payload, ctx)
}

type handlerFunc func(d *Dispatcher, payload string, ctx StatusContext) string

var handlers = map[string]handlerFunc{
	"ping":            cmdPing,
	"status":          cmdStatus,
	"note":            cmdNote,
	"activity":        cmdActivity,
	"search":          cmdSearch,
	"session_start":   cmdSessionStart,
	"session_end":     cmdSessionEnd,
	"get_context":     cmdGetContext,
	"project_upsert":  cmdProjectUpsert,
	"computer_reg":    cmdComputerReg,
	"people_upsert":   cmdPeopleUpsert,
	"query":           cmdQuery,
	"wifi_scan":       cmdWifiScan,
	"wifi_config":     cmdWifiConfig,
	"wifi_status":     cmdWifiStatus,
	"file_register":   cmdFileRegister,
	"file_list":       cmdFileList,
	"file_search":     cmdFileSearch,
	"file_delete":     cmdFileDelete,
}
