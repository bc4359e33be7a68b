package ble

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
)

type discoverPayload struct {
	IP    string `json:"ip"`
	Port  int    `json:"port"`
	Token string `json:"token,omitempty"`
}

// localIP finds the host's outbound IP by opening a UDP "connection" to a
// routable address and reading the bound local endpoint — no packets are
// actually sent, this just forces the OS to pick a source address.
func localIP() (string, error) {
	conn, err := net.Dial("udp", "10.255.255.255:1")
	if err != nil {
		return "", fmt.Errorf("determining local IP: %w", err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}

// buildDiscoverMessage constructs the DISCOVER:<json> frame sent once,
// immediately after subscription, so the peer can configure its Wi-Fi
// side-channel without user input.
func buildDiscoverMessage(httpPort int, tokenFilePath string) (string, error) {
	ip, err := localIP()
	if err != nil {
		return "", err
	}

	payload := discoverPayload{IP: ip, Port: httpPort}
	if body, err := os.ReadFile(tokenFilePath); err == nil {
		if token := strings.TrimSpace(string(body)); token != "" {
			payload.Token = token
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding discover payload: %w", err)
	}
	return "DISCOVER:" + string(encoded), nil
}
