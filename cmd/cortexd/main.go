// Command cortexd is the on-device recorder daemon: it owns the
// knowledge store, runs the BLE central worker and the HTTP API side by
// side against the same dispatcher, and watches the recording/upload
// directories for files the external recorder or an HTTP upload drops in.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cortexwear/cortexd/internal/activitylog"
	"github.com/cortexwear/cortexd/internal/applog"
	"github.com/cortexwear/cortexd/internal/config"
	"github.com/cortexwear/cortexd/internal/daemonlock"
	"github.com/cortexwear/cortexd/internal/protocol"
	"github.com/cortexwear/cortexd/internal/runtime"
	"github.com/cortexwear/cortexd/internal/store"
	"github.com/cortexwear/cortexd/internal/transport/ble"
	"github.com/cortexwear/cortexd/internal/transport/httpapi"
	"github.com/cortexwear/cortexd/internal/watch"
)

// Version is stamped at build time via -ldflags; left as a default for
// `go run`/ad-hoc builds.
var Version = "v0.0.0-dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cortexd: "+err.Error())
		os.Exit(1)
	}
}

func run() error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := applog.New(applog.Options{
		FilePath:   config.GetString("log.file"),
		Level:      parseLevel(config.GetString("log.level")),
		MaxSizeMB:  config.GetInt("log.max-size-mb"),
		MaxBackups: config.GetInt("log.max-backups"),
		AlsoStderr: true,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	lock, err := daemonlock.Acquire(config.GetString("lock-path"), Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Error("releasing daemon lock", "error", err)
		}
	}()

	recordingsDir, notesDir, logsDir, uploadsDir, err := config.DataDirs()
	if err != nil {
		return err
	}

	actLog, err := activitylog.New(logsDir, time.Duration(config.GetInt("activity-log.rotate-minutes"))*time.Minute)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer actLog.Close()

	db, err := store.Open(config.GetString("db-path"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	dispatcher := protocol.NewDispatcher(db)
	machine := runtime.NewMachine(runtime.NoopRecorder{}, func(event string, data map[string]any) {
		actLog.Log(event, data)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var central *ble.Central
	var glue *runtime.Glue

	diskFree := func() float64 { return freeDiskGB(config.GetString("data-dir")) }

	// handle closes over glue, which is only assigned below — safe because
	// Handle is never invoked until central.Run starts, well after glue is set.
	handle := func(line string) string { return glue.HandleIncoming(line) }

	if config.GetBool("ble.enabled") {
		central, err = ble.New(ble.Options{
			DeviceNameSubstring: config.GetString("ble.device-name"),
			ServiceUUID:         config.GetString("ble.service-uuid"),
			RXCharUUID:          config.GetString("ble.rx-char-uuid"),
			TXCharUUID:          config.GetString("ble.tx-char-uuid"),
			HTTPPort:            config.GetInt("http.port"),
			TokenFilePath:       config.GetString("http.token-file"),
			PairingCachePath:    config.GetString("ble.pairing-cache"),
			Handle:              handle,
			OnConnect:           func(addr string) { log.Info("ble peer connected", "addr", addr) },
			OnDisconnect:        func() { log.Info("ble peer disconnected") },
			Log:                 bleLogAdapter{log},
		})
		if err != nil {
			return fmt.Errorf("preparing ble central: %w", err)
		}
	}

	var bleChecker runtime.BLEConnChecker
	if central != nil {
		bleChecker = central
	}
	glue = runtime.NewGlue(machine, dispatcher, db, bleChecker, diskFree)

	fileDirs := map[string]string{
		"recordings": recordingsDir,
		"notes":      notesDir,
		"logs":       logsDir,
		"uploads":    uploadsDir,
	}

	var httpServer *httpapi.Server
	if config.GetBool("http.enabled") {
		httpServer, err = httpapi.New(httpapi.Options{
			Addr:             config.GetString("http.addr"),
			TokenFilePath:    config.GetString("http.token-file"),
			DBPath:           config.GetString("db-path"),
			Version:          Version,
			MinClientVersion: config.GetString("http.min-client-version"),
			FileDirs:         fileDirs,
			HandleCommand:    func(raw string) string { return glue.HandleIncoming(raw) },
			Log:              httpLogAdapter{log},
		})
		if err != nil {
			return fmt.Errorf("starting http api: %w", err)
		}
	}

	watcher, err := watch.New(db, map[string]string{
		"recordings": recordingsDir,
		"uploads":    uploadsDir,
	}, watchLogAdapter{log})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	group, gctx := errgroup.WithContext(ctx)

	if central != nil {
		group.Go(func() error {
			return central.Run(gctx)
		})
	}

	if httpServer != nil {
		group.Go(func() error {
			return httpServer.ListenAndServe()
		})
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	watchStop := make(chan struct{})
	group.Go(func() error {
		watcher.Run(watchStop)
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		close(watchStop)
		return nil
	})

	log.Info("cortexd started", "version", Version, "pid", os.Getpid())
	actLog.Log("daemon_started", map[string]any{"version": Version})

	err = group.Wait()
	log.Info("cortexd stopped")
	actLog.Log("daemon_stopped", nil)
	return err
}

func freeDiskGB(path string) float64 {
	var stat diskStatter
	free, err := stat.freeBytes(path)
	if err != nil {
		return 0
	}
	return float64(free) / (1 << 30)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type bleLogAdapter struct{ l *applog.Logger }

func (a bleLogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a bleLogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a bleLogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

type httpLogAdapter struct{ l *applog.Logger }

func (a httpLogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a httpLogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

type watchLogAdapter struct{ l *applog.Logger }

func (a watchLogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a watchLogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
