// Package httpapi exposes the wire protocol over HTTP/1.1 for direct
// Wi-Fi access from a companion computer: the same CMD:/RSP:/ACK:/ERR:
// strings the BLE transport produces, plus file listing/download/upload/
// delete and a consistent database snapshot.
package httpapi

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"
)

const (
	streamChunkBytes   = 64 * 1024
	maxUploadBytes     = 100 * 1024 * 1024
	maxCmdBodyBytes    = 1024 * 1024
	defaultReadTimeout = 5 * time.Second
)

// Logger is the narrow logging surface httpapi needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CommandHandler executes a wire-protocol message ("CMD:..."), the same
// entry point BLE frames funnel through.
type CommandHandler func(raw string) string

// Server is the HTTP/1.1 API surface. It holds no transport-specific
// state beyond its auth token and file-category directory map.
type Server struct {
	addr          string
	token         string
	dbPath        string
	version       string
	minClientVer  string
	fileDirs      map[string]string // category -> dir
	handleCommand CommandHandler
	uptimeStart   time.Time
	log           Logger

	mu     sync.Mutex
	server *http.Server
}

// Options configures a Server.
type Options struct {
	Addr             string
	TokenFilePath    string
	DBPath           string
	Version          string
	MinClientVersion string
	FileDirs         map[string]string // "recordings", "notes", "logs", "uploads"
	HandleCommand    CommandHandler
	Log              Logger
}

// New loads or creates the bearer token and returns a ready-to-serve
// Server. It does not start listening — call ListenAndServe.
func New(opts Options) (*Server, error) {
	token, err := loadOrCreateToken(opts.TokenFilePath)
	if err != nil {
		return nil, fmt.Errorf("loading API token: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = noopLogger{}
	}
	if opts.Version == "" {
		opts.Version = "v0.0.0"
	}

	return &Server{
		addr:          opts.Addr,
		token:         token,
		dbPath:        opts.DBPath,
		version:       opts.Version,
		minClientVer:  opts.MinClientVersion,
		fileDirs:      opts.FileDirs,
		handleCommand: opts.HandleCommand,
		uptimeStart:   time.Now(),
		log:           log,
	}, nil
}

// Token returns the bearer token the server checks requests against.
func (s *Server) Token() string { return s.token }

func loadOrCreateToken(path string) (string, error) {
	if body, err := os.ReadFile(path); err == nil {
		if token := strings.TrimSpace(string(body)); token != "" {
			return token, nil
		}
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	token := hex.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(token+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing token file: %w", err)
	}
	return token, nil
}

// Handler builds the http.Handler for this server. Split out from
// ListenAndServe so tests can exercise routing with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleAuthenticated)
	return mux
}

// ListenAndServe starts serving HTTP/1.1 on Addr. It blocks until the
// listener errors, or Shutdown is called, in which case it returns nil.
func (s *Server) ListenAndServe() error {
	server := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: defaultReadTimeout,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.log.Info("http api listening", "addr", s.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, if it has been started. Safe
// to call even if ListenAndServe hasn't run yet.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	clientVer := r.URL.Query().Get("client_version")
	compat := true
	if clientVer != "" && s.minClientVer != "" {
		compat = versionCompatible(s.minClientVer, clientVer)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                true,
		"uptime_s":          time.Since(s.uptimeStart).Seconds(),
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
		"server_version":    s.version,
		"client_compatible": compat,
	})
}

func versionCompatible(minVersion, clientVersion string) bool {
	min := normalizeSemver(minVersion)
	client := normalizeSemver(clientVersion)
	if !semver.IsValid(min) || !semver.IsValid(client) {
		return true
	}
	return semver.Compare(client, min) >= 0
}

func normalizeSemver(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

func (s *Server) handleAuthenticated(w http.ResponseWriter, r *http.Request) {
	if !s.checkAuth(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodPost && path == "/api/cmd":
		s.handleCmd(w, r)
	case r.Method == http.MethodGet && path == "/files/db":
		s.serveDB(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/files/"):
		s.routeFilesGet(w, path)
	case r.Method == http.MethodPost && path == "/files/uploads":
		s.handleUpload(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/files/"):
		s.handleDelete(w, path)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) checkAuth(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return false
	}
	presented := strings.TrimPrefix(auth, prefix)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) == 1
}

func (s *Server) handleCmd(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCmdBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "error reading body")
		return
	}
	if len(body) > maxCmdBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	var req struct {
		Command string          `json:"command"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "Missing 'command' field")
		return
	}

	var msg string
	if len(req.Payload) > 0 && string(req.Payload) != "null" {
		msg = fmt.Sprintf("CMD:%s:%s", req.Command, string(req.Payload))
	} else {
		msg = fmt.Sprintf("CMD:%s", req.Command)
	}

	response := s.handleCommand(msg)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "response": response})
}

func (s *Server) routeFilesGet(w http.ResponseWriter, path string) {
	parts := strings.Split(path, "/")
	switch len(parts) {
	case 3:
		s.listFiles(w, parts[2])
	case 4:
		s.downloadFile(w, parts[2], parts[3])
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) listFiles(w http.ResponseWriter, category string) {
	dir, ok := s.fileDirs[category]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown category: "+category)
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "category": category, "files": []any{}})
		return
	}

	type fileEntry struct {
		Name  string `json:"name"`
		Size  int64  `json:"size"`
		MTime string `json:"mtime"`
	}
	var files []fileEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileEntry{Name: e.Name(), Size: info.Size(), MTime: info.ModTime().Format(time.RFC3339)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "category": category, "files": files})
}

func (s *Server) downloadFile(w http.ResponseWriter, category, filename string) {
	dir, ok := s.fileDirs[category]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown category")
		return
	}
	safeName, ok := safeFilename(filename)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	path := filepath.Join(dir, safeName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error opening file")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mimeType(safeName))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", safeName))
	w.WriteHeader(http.StatusOK)
	streamCopy(w, f)
}

// serveDB streams a consistent cortex.db snapshot by copying the file
// (and its WAL sidecar, if present) to a temp path first, since WAL mode
// may have uncommitted pages in the live file.
func (s *Server) serveDB(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.dbPath); err != nil {
		writeError(w, http.StatusNotFound, "Database not found")
		return
	}

	tmpPath := s.dbPath + ".download"
	defer func() {
		for _, p := range []string{tmpPath, tmpPath + "-wal", tmpPath + "-shm"} {
			_ = os.Remove(p)
		}
	}()

	if err := copyFile(s.dbPath, tmpPath); err != nil {
		writeError(w, http.StatusInternalServerError, "error snapshotting database")
		return
	}
	if _, err := os.Stat(s.dbPath + "-wal"); err == nil {
		_ = copyFile(s.dbPath+"-wal", tmpPath+"-wal")
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error opening snapshot")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error stating snapshot")
		return
	}

	w.Header().Set("Content-Type", "application/x-sqlite3")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition", `attachment; filename="cortex.db"`)
	w.WriteHeader(http.StatusOK)
	streamCopy(w, f)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename := r.Header.Get("X-Filename")
	if filename == "" {
		writeError(w, http.StatusBadRequest, "Missing X-Filename header")
		return
	}
	safeName, ok := safeFilename(filename)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	if r.ContentLength > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large (max 100MB)")
		return
	}
	if r.ContentLength == 0 {
		writeError(w, http.StatusBadRequest, "Empty body")
		return
	}

	dir, ok := s.fileDirs["uploads"]
	if !ok {
		writeError(w, http.StatusInternalServerError, "uploads directory not configured")
		return
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		writeError(w, http.StatusInternalServerError, "error preparing uploads directory")
		return
	}

	dest := filepath.Join(dir, safeName)
	f, err := os.Create(dest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error creating file")
		return
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error writing upload")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"filename": safeName,
		"size":     n,
		"path":     dest,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, path string) {
	parts := strings.Split(path, "/")
	if len(parts) != 4 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	category, filename := parts[2], parts[3]

	if category != "recordings" && category != "uploads" {
		writeError(w, http.StatusForbidden, "Deletion not allowed for category: "+category)
		return
	}
	dir, ok := s.fileDirs[category]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown category")
		return
	}
	safeName, ok := safeFilename(filename)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	target := filepath.Join(dir, safeName)
	if info, err := os.Stat(target); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if err := os.Remove(target); err != nil {
		writeError(w, http.StatusInternalServerError, "error deleting file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": safeName})
}

func safeFilename(name string) (string, bool) {
	base := filepath.Base(name)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", false
	}
	if strings.HasPrefix(base, ".") || strings.Contains(base, "..") {
		return "", false
	}
	return base, true
}

func mimeType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(filename, ".txt"):
		return "text/plain; charset=utf-8"
	case strings.HasSuffix(filename, ".jsonl"), strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".db"):
		return "application/x-sqlite3"
	default:
		return "application/octet-stream"
	}
}

func streamCopy(w io.Writer, r io.Reader) {
	buf := make([]byte, streamChunkBytes)
	_, _ = io.CopyBuffer(w, r, buf)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func writeJSON(w http.ResponseWriter, status int, data map[string]any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
