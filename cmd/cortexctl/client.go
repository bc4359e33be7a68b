package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// apiClient talks to cortexd's HTTP API over the same loopback/LAN address
// a companion phone would use, sharing the bearer token the daemon wrote to
// disk on first start.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, tokenFilePath string) (*apiClient, error) {
	body, err := os.ReadFile(tokenFilePath)
	if err != nil {
		return nil, fmt.Errorf("reading api token (is cortexd running?): %w", err)
	}
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   strings.TrimSpace(string(body)),
		http:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// cmdResponse mirrors httpapi's /api/cmd envelope.
type cmdResponse struct {
	OK       bool   `json:"ok"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// RunCommand sends a CMD-shaped request and returns the raw RSP:/ACK:/ERR:
// wire string, same as a BLE round trip would produce.
func (c *apiClient) RunCommand(command string, payload any) (string, error) {
	var rawPayload json.RawMessage
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("encoding payload: %w", err)
		}
		rawPayload = body
	}

	reqBody, err := json.Marshal(struct {
		Command string          `json:"command"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}{Command: command, Payload: rawPayload})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/cmd", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("contacting cortexd: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var cr cmdResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if !cr.OK {
		return "", fmt.Errorf("cortexd: %s", cr.Error)
	}
	return cr.Response, nil
}

// healthResponse mirrors httpapi's /health payload.
type healthResponse struct {
	OK               bool    `json:"ok"`
	UptimeS          float64 `json:"uptime_s"`
	Timestamp        string  `json:"timestamp"`
	ServerVersion    string  `json:"server_version"`
	ClientCompatible bool    `json:"client_compatible"`
}

func (c *apiClient) Health(clientVersion string) (healthResponse, error) {
	var hr healthResponse
	url := c.baseURL + "/health"
	if clientVersion != "" {
		url += "?client_version=" + clientVersion
	}
	resp, err := c.http.Get(url)
	if err != nil {
		return hr, fmt.Errorf("contacting cortexd: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return hr, err
	}
	if err := json.Unmarshal(body, &hr); err != nil {
		return hr, fmt.Errorf("decoding health response: %w", err)
	}
	return hr, nil
}

// fileEntry mirrors one row of httpapi's /files/<category> listing.
type fileEntry struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	MTime string `json:"mtime"`
}

type listFilesResponse struct {
	OK       bool        `json:"ok"`
	Category string      `json:"category"`
	Files    []fileEntry `json:"files"`
}

func (c *apiClient) ListFiles(category string) ([]fileEntry, error) {
	resp, err := c.authedGet("/files/" + category)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var lr listFilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decoding file list: %w", err)
	}
	return lr.Files, nil
}

func (c *apiClient) DownloadFile(category, filename, destPath string) (int64, error) {
	resp, err := c.authedGet("/files/" + category + "/" + filename)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed: %s", resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	return io.Copy(out, resp.Body)
}

func (c *apiClient) UploadFile(localPath, remoteFilename string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/files/uploads", f)
	if err != nil {
		return err
	}
	req.ContentLength = info.Size()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Filename", remoteFilename)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("uploading file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload rejected: %s: %s", resp.Status, string(body))
	}
	return nil
}

func (c *apiClient) DeleteFile(category, filename string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/files/"+category+"/"+filename, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete rejected: %s: %s", resp.Status, string(body))
	}
	return nil
}

func (c *apiClient) authedGet(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting cortexd: %w", err)
	}
	return resp, nil
}
