package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTokenFile(t *testing.T, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}
	return path
}

func TestRunCommandSendsBearerTokenAndParsesResponse(t *testing.T) {
	var gotAuth, gotCommand string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Command string `json:"command"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotCommand = req.Command
		json.NewEncoder(w).Encode(cmdResponse{OK: true, Response: "RSP:pong"})
	}))
	defer srv.Close()

	c, err := newAPIClient(srv.URL, writeTokenFile(t, "secret-token"))
	if err != nil {
		t.Fatalf("newAPIClient: %v", err)
	}
	resp, err := c.RunCommand("ping", nil)
	if err != nil {
		t.Fatalf("RunCommand: %v", err)
	}
	if resp != "RSP:pong" {
		t.Errorf("response = %q, want RSP:pong", resp)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotCommand != "ping" {
		t.Errorf("command = %q, want ping", gotCommand)
	}
}

func TestRunCommandSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(cmdResponse{OK: false, Error: "missing content field"})
	}))
	defer srv.Close()

	c, err := newAPIClient(srv.URL, writeTokenFile(t, "tok"))
	if err != nil {
		t.Fatalf("newAPIClient: %v", err)
	}
	if _, err := c.RunCommand("note", nil); err == nil {
		t.Fatal("expected an error for a failed command")
	}
}

func TestNewAPIClientRequiresTokenFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	if _, err := newAPIClient("http://127.0.0.1:8080", missing); err == nil {
		t.Fatal("expected an error when the token file is missing")
	}
}

func TestListFilesAndDownloadFile(t *testing.T) {
	const fileBody = "hello from the wearable"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/recordings":
			json.NewEncoder(w).Encode(listFilesResponse{
				OK:       true,
				Category: "recordings",
				Files:    []fileEntry{{Name: "clip1.wav", Size: 42, MTime: "2026-07-31T00:00:00Z"}},
			})
		case "/files/recordings/clip1.wav":
			w.Write([]byte(fileBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := newAPIClient(srv.URL, writeTokenFile(t, "tok"))
	if err != nil {
		t.Fatalf("newAPIClient: %v", err)
	}

	entries, err := c.ListFiles("recordings")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "clip1.wav" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	dest := filepath.Join(t.TempDir(), "out.wav")
	n, err := c.DownloadFile("recordings", "clip1.wav", dest)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if n != int64(len(fileBody)) {
		t.Errorf("downloaded %d bytes, want %d", n, len(fileBody))
	}
	body, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(body) != fileBody {
		t.Errorf("downloaded content = %q, want %q", body, fileBody)
	}
}
