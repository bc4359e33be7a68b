package httpapi

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	recordings := filepath.Join(dir, "recordings")
	uploads := filepath.Join(dir, "uploads")
	for _, d := range []string{recordings, uploads} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	s, err := New(Options{
		Addr:          ":0",
		TokenFilePath: filepath.Join(dir, "token"),
		DBPath:        filepath.Join(dir, "cortex.db"),
		Version:       "v1.0.0",
		FileDirs:      map[string]string{"recordings": recordings, "uploads": uploads},
		HandleCommand: func(raw string) string {
			if raw == "CMD:ping" {
				return "RSP:pong"
			}
			return "ERR:unknown:" + raw
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, dir
}

func TestHealthRequiresNoAuth(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("got body %q", rec.Body.String())
	}
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/cmd", strings.NewReader(`{"command":"ping"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestCmdRoundTripWithAuth(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/cmd", strings.NewReader(`{"command":"ping"}`))
	req.Header.Set("Authorization", "Bearer "+s.Token())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "RSP:pong") {
		t.Fatalf("got body %q", rec.Body.String())
	}
}

func TestUploadThenListThenDownloadThenDelete(t *testing.T) {
	s, _ := newTestServer(t)
	auth := "Bearer " + s.Token()

	uploadReq := httptest.NewRequest(http.MethodPost, "/files/uploads", strings.NewReader("hello"))
	uploadReq.Header.Set("Authorization", auth)
	uploadReq.Header.Set("X-Filename", "t.txt")
	uploadReq.ContentLength = 5
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: got status %d body %s", rec.Code, rec.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/files/uploads", nil)
	listReq.Header.Set("Authorization", auth)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, listReq)
	if !strings.Contains(rec.Body.String(), `"t.txt"`) {
		t.Fatalf("list: got body %q", rec.Body.String())
	}

	dlReq := httptest.NewRequest(http.MethodGet, "/files/uploads/t.txt", nil)
	dlReq.Header.Set("Authorization", auth)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, dlReq)
	if rec.Code != http.StatusOK || rec.Body.String() != "hello" {
		t.Fatalf("download: got status %d body %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Length") != "5" {
		t.Fatalf("got content-length %q", rec.Header().Get("Content-Length"))
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/files/uploads/t.txt", nil)
	delReq.Header.Set("Authorization", auth)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, delReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got status %d", rec.Code)
	}
}

func TestDeleteForbiddenForLogsCategory(t *testing.T) {
	s, dir := newTestServer(t)
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	s.fileDirs["logs"] = logsDir
	if err := os.WriteFile(filepath.Join(logsDir, "a.jsonl"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/files/logs/a.jsonl", nil)
	req.Header.Set("Authorization", "Bearer "+s.Token())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got status %d", rec.Code)
	}
}

func TestDownloadRejectsPathTraversal(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/files/uploads/..%2F..%2Fetc%2Fpasswd", nil)
	req.Header.Set("Authorization", "Bearer "+s.Token())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatal("expected traversal attempt to be rejected")
	}
}
