// Package ble implements the BLE central role: scanning for the wearable
// peripheral, subscribing to its notify characteristic, draining an
// outbound queue of wire-protocol strings as MTU-sized GATT writes, and
// reassembling inbound notifications into newline-delimited messages.
package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"

	"github.com/cortexwear/cortexd/internal/protocol"
)

const (
	scanTimeout      = 5 * time.Second
	connectTimeout   = 10 * time.Second
	reconnectWait    = 5 * time.Second
	servePollPeriod  = 100 * time.Millisecond
	minMTUPayload    = 20
	defaultMTU       = 23
	maxMessageLength = 512
	outboundCeiling  = 512
)

// Logger is the narrow logging surface the central worker needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Handler processes one fully-reassembled inbound line and returns the
// response to enqueue back outbound ("" suppresses a reply).
type Handler func(line string) string

// Options configures a Central.
type Options struct {
	DeviceNameSubstring string
	ServiceUUID         string
	RXCharUUID          string // host -> device (central writes)
	TXCharUUID          string // device -> host (central subscribes)
	HTTPPort            int
	TokenFilePath       string
	PairingCachePath    string
	Handle              Handler
	OnConnect           func(addr string)
	OnDisconnect        func()
	Log                 Logger
}

// Central is the BLE worker: one instance per process, run on its own
// goroutine via Run.
type Central struct {
	opts Options
	log  Logger

	mu        sync.RWMutex
	connected bool
	address   string
	mtu       int
}

// New prepares a Central. It does not touch the radio until Run starts.
func New(opts Options) (*Central, error) {
	if opts.Handle == nil {
		return nil, fmt.Errorf("ble: Handle is required")
	}
	log := opts.Log
	if log == nil {
		log = noopLogger{}
	}
	return &Central{opts: opts, log: log}, nil
}

// Connected reports whether a peripheral link is currently up, for the
// runtime glue's status context.
func (c *Central) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Run drives SCAN -> CONNECT -> SUBSCRIBE -> PROVISION -> SERVE -> WAIT
// until ctx is cancelled. Every error inside one cycle is caught and
// logged; the loop always returns to SCAN rather than exiting.
func (c *Central) Run(ctx context.Context) error {
	device, err := linux.NewDevice()
	if err != nil {
		return fmt.Errorf("initializing BLE device: %w", err)
	}
	ble.SetDefaultDevice(device)
	defer device.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		addr, err := c.scan(ctx)
		if err != nil || addr == "" {
			if err != nil {
				c.log.Warn("ble scan error", "error", err)
			}
			if !sleepOrDone(ctx, reconnectWait) {
				return nil
			}
			continue
		}

		if err := c.connectAndServe(ctx, addr); err != nil {
			c.log.Warn("ble connection ended", "error", err)
		}

		c.setDisconnected()
		if c.opts.OnDisconnect != nil {
			c.opts.OnDisconnect()
		}
		if !sleepOrDone(ctx, reconnectWait) {
			return nil
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// scan looks for a cached address first, falling back to a name-substring
// scan; returns "" if nothing is found within scanTimeout.
func (c *Central) scan(ctx context.Context) (string, error) {
	if c.opts.PairingCachePath != "" {
		cache := LoadPairingCache(c.opts.PairingCachePath)
		if cache.Address != "" {
			return cache.Address, nil
		}
	}

	scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	found := make(chan string, 1)
	advFilter := func(a ble.Advertisement) bool {
		return strings.Contains(a.LocalName(), c.opts.DeviceNameSubstring)
	}

	err := ble.Scan(scanCtx, false, func(a ble.Advertisement) {
		select {
		case found <- a.Addr().String():
		default:
		}
	}, advFilter)

	select {
	case addr := <-found:
		return addr, nil
	default:
	}
	if err != nil && err != context.DeadlineExceeded {
		return "", err
	}
	return "", nil
}

func (c *Central) connectAndServe(ctx context.Context, addr string) error {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := ble.Dial(dialCtx, ble.NewAddr(addr))
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer client.CancelConnection()

	txUUID, err := ble.Parse(c.opts.TXCharUUID)
	if err != nil {
		return fmt.Errorf("parsing tx characteristic uuid: %w", err)
	}
	rxUUID, err := ble.Parse(c.opts.RXCharUUID)
	if err != nil {
		return fmt.Errorf("parsing rx characteristic uuid: %w", err)
	}

	profile, err := client.DiscoverProfile(true)
	if err != nil {
		return fmt.Errorf("discovering gatt profile: %w", err)
	}
	txChar := profile.FindCharacteristic(ble.NewCharacteristic(txUUID))
	if txChar == nil {
		return fmt.Errorf("tx characteristic %s not found on peripheral", c.opts.TXCharUUID)
	}
	rxChar := profile.FindCharacteristic(ble.NewCharacteristic(rxUUID))
	if rxChar == nil {
		return fmt.Errorf("rx characteristic %s not found on peripheral", c.opts.RXCharUUID)
	}

	lb := newLineBuffer(maxMessageLength)
	// One chunk assembler per connection — never shared across
	// transports or reused across reconnects, per the per-connection
	// scoping this implementation chose over a single dispatcher-wide
	// assembler (see the "assembler scoping" design note in release
	// notes).
	assembler := protocol.NewAssembler()
	outbound := make(chan string, 64)

	err = client.Subscribe(txChar, false, func(data []byte) {
		for _, line := range lb.feed(data) {
			if protocol.IsChunk(line) {
				reassembled, ok := assembler.Feed(line)
				if !ok {
					continue
				}
				line = reassembled
			}
			resp := c.opts.Handle(line)
			if resp == "" {
				continue
			}
			if len(resp) > outboundCeiling {
				resp = resp[:outboundCeiling]
			}
			select {
			case outbound <- resp:
			default:
				c.log.Warn("ble outbound queue full, dropping response")
			}
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to tx characteristic: %w", err)
	}

	mtu := defaultMTU
	if negotiated, err := client.ExchangeMTU(defaultMTU); err == nil && negotiated > 0 {
		mtu = negotiated
	}
	c.setConnected(addr, mtu)
	c.log.Info("ble connected", "addr", addr, "mtu", mtu)
	if c.opts.OnConnect != nil {
		c.opts.OnConnect(addr)
	}

	if c.opts.PairingCachePath != "" {
		_ = SavePairingCache(c.opts.PairingCachePath, PairingCache{Address: addr, Name: c.opts.DeviceNameSubstring, MTU: mtu})
	}

	if msg, err := buildDiscoverMessage(c.opts.HTTPPort, c.opts.TokenFilePath); err == nil {
		if werr := c.write(client, rxChar, msg, mtu); werr != nil {
			c.log.Warn("sending discover payload failed", "error", werr)
		}
	} else {
		c.log.Warn("building discover payload failed", "error", err)
	}

	ticker := time.NewTicker(servePollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for drained := false; !drained; {
				select {
				case msg := <-outbound:
					if err := c.write(client, rxChar, msg, mtu); err != nil {
						return fmt.Errorf("writing to rx characteristic: %w", err)
					}
				default:
					drained = true
				}
			}
		}
	}
}

func (c *Central) write(client ble.Client, char *ble.Characteristic, msg string, mtu int) error {
	data := []byte(msg + "\n")
	payload := mtu - 3
	if payload < minMTUPayload {
		payload = minMTUPayload
	}
	for i := 0; i < len(data); i += payload {
		end := i + payload
		if end > len(data) {
			end = len(data)
		}
		if err := client.WriteCharacteristic(char, data[i:end], true); err != nil {
			return err
		}
	}
	return nil
}

func (c *Central) setConnected(addr string, mtu int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	c.address = addr
	c.mtu = mtu
}

func (c *Central) setDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.address = ""
	c.mtu = 0
}

// lineBuffer reassembles newline-delimited messages out of a stream of
// notification fragments, mirroring the original client's byte-buffer
// split-on-newline approach. Bounded so a peer that never sends \n can't
// grow it unboundedly.
type lineBuffer struct {
	buf     []byte
	maxSize int
}

func newLineBuffer(maxSize int) *lineBuffer {
	return &lineBuffer{maxSize: maxSize}
}

func (l *lineBuffer) feed(data []byte) []string {
	l.buf = append(l.buf, data...)
	var lines []string
	for {
		idx := indexByte(l.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(string(l.buf[:idx]))
		l.buf = l.buf[idx+1:]
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(l.buf) > l.maxSize {
		if overflow := strings.TrimSpace(string(l.buf)); overflow != "" {
			lines = append(lines, overflow)
		}
		l.buf = nil
	}
	return lines
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
