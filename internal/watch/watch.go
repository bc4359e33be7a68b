// Package watch mirrors new files dropped into the recordings/uploads
// directories into the files table, so audio segments written by the
// external recorder process and uploads written by cortexctl both show
// up in query/get_context without an explicit register command.
package watch

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cortexwear/cortexd/internal/store"
)

// Logger is the narrow logging surface watch needs, satisfied by
// *applog.Logger without importing it directly.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Watcher wraps an fsnotify watcher over a fixed set of category
// directories, debouncing rapid-fire writes so a file being actively
// written (common for in-progress audio segments) is registered once it
// settles rather than once per fsync.
type Watcher struct {
	fsw   *fsnotify.Watcher
	store *store.Store
	log   Logger

	dirs    map[string]string // dir path -> category
	settle  time.Duration
	pending map[string]time.Time
	done    chan struct{}
}

// New creates a Watcher over the given category directories. dirs maps
// category name ("recordings", "uploads", ...) to its filesystem path.
func New(s *store.Store, dirs map[string]string, log Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if log == nil {
		log = noopLogger{}
	}

	byPath := make(map[string]string, len(dirs))
	for category, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		byPath[dir] = category
	}

	return &Watcher{
		fsw:     fsw,
		store:   s,
		log:     log,
		dirs:    byPath,
		settle:  500 * time.Millisecond,
		pending: make(map[string]time.Time),
		done:    make(chan struct{}),
	}, nil
}

// Run processes filesystem events until stop is closed or the underlying
// watcher errors out unrecoverably.
func (w *Watcher) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(w.settle)
	defer ticker.Stop()
	defer close(w.done)

	for {
		select {
		case <-stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.pending[ev.Name] = time.Now()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", "error", err)
		case <-ticker.C:
			w.flushSettled()
		}
	}
}

// Close releases the underlying OS watch handles.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) flushSettled() {
	now := time.Now()
	for path, seen := range w.pending {
		if now.Sub(seen) < w.settle {
			continue
		}
		delete(w.pending, path)
		w.register(path)
	}
}

func (w *Watcher) register(path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	category := w.dirs[filepath.Dir(path)]
	if category == "" {
		return
	}

	filename := filepath.Base(path)
	source := "watch"
	if category == "recordings" {
		source = "recorder"
	}

	_, err = w.store.InsertFile(store.File{
		Filename:  filename,
		Category:  category,
		MimeType:  mimeFor(filename),
		SizeBytes: info.Size(),
		Source:    source,
	})
	if err != nil {
		w.log.Error("registering watched file", "path", path, "error", err)
		return
	}
	w.log.Info("registered file", "path", path, "category", category)
}

func mimeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "application/octet-stream"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
