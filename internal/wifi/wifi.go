// Package wifi provisions the device's WiFi connection headlessly over
// BLE or HTTP, shelling out to whichever of nmcli, iwlist, or wpa_cli is
// present on the host — the same fallback chain the Python prototype
// used, since the device's OS image varies across Raspberry Pi OS
// releases.
package wifi

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Network is one scan result.
type Network struct {
	SSID     string `json:"ssid"`
	Signal   int    `json:"signal,omitempty"`
	Security string `json:"security,omitempty"`
}

// ConnStatus is the current connection snapshot.
type ConnStatus struct {
	IP       string `json:"ip,omitempty"`
	SSID     string `json:"ssid,omitempty"`
	Signal   int    `json:"signal,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}

// ConfigResult is returned after a connect attempt succeeds.
type ConfigResult struct {
	OK   bool   `json:"ok"`
	SSID string `json:"ssid"`
	IP   string `json:"ip,omitempty"`
}

const cmdTimeout = 15 * time.Second

func run(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := exec.CommandContext(cctx, name, args...).CombinedOutput()
	return string(out), err
}

// LocalIP returns the machine's outbound-facing IP, same trick as the
// Python prototype: dial a non-routed address and read back the local
// endpoint without ever sending a packet.
func LocalIP() string {
	conn, err := net.Dial("udp", "10.255.255.255:1")
	if err != nil {
		return ""
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}

// Status reports the current WiFi connection, preferring nmcli and
// falling back to iwgetid when nmcli isn't installed.
func Status(ctx context.Context, hostname string) ConnStatus {
	st := ConnStatus{IP: LocalIP(), Hostname: hostname}

	if out, err := run(ctx, cmdTimeout, "nmcli", "-t", "-f", "ACTIVE,SSID,SIGNAL,FREQ", "dev", "wifi"); err == nil {
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			parts := strings.Split(line, ":")
			if len(parts) >= 2 && parts[0] == "yes" {
				st.SSID = parts[1]
				if len(parts) >= 3 {
					if sig, err := strconv.Atoi(parts[2]); err == nil {
						st.Signal = sig
					}
				}
				break
			}
		}
		return st
	}

	if out, err := run(ctx, cmdTimeout, "iwgetid", "-r"); err == nil {
		if ssid := strings.TrimSpace(out); ssid != "" {
			st.SSID = ssid
		}
	}
	return st
}

// Scan lists nearby networks via nmcli, falling back to iwlist.
func Scan(ctx context.Context) ([]Network, error) {
	if _, err := exec.LookPath("nmcli"); err == nil {
		_, _ = run(ctx, 10*time.Second, "nmcli", "dev", "wifi", "rescan")
		time.Sleep(2 * time.Second)
		out, err := run(ctx, 10*time.Second, "nmcli", "-t", "-f", "SSID,SIGNAL,SECURITY", "dev", "wifi", "list")
		if err != nil {
			return nil, fmt.Errorf("nmcli scan: %w", err)
		}
		return parseNmcliScan(out), nil
	}

	out, err := run(ctx, 15*time.Second, "sudo", "iwlist", "wlan0", "scan")
	if err != nil {
		return nil, fmt.Errorf("iwlist scan: %w", err)
	}
	return parseIwlistScan(out), nil
}

func parseNmcliScan(out string) []Network {
	seen := map[string]bool{}
	var networks []Network
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, ":")
		if len(parts) < 2 || parts[0] == "" || seen[parts[0]] {
			continue
		}
		seen[parts[0]] = true
		n := Network{SSID: parts[0]}
		if sig, err := strconv.Atoi(parts[1]); err == nil {
			n.Signal = sig
		}
		if len(parts) >= 3 {
			n.Security = parts[2]
		}
		networks = append(networks, n)
	}
	return networks
}

var essidPattern = regexp.MustCompile(`ESSID:"([^"]*)"`)

func parseIwlistScan(out string) []Network {
	seen := map[string]bool{}
	var networks []Network
	for _, m := range essidPattern.FindAllStringSubmatch(out, -1) {
		ssid := m[1]
		if ssid == "" || seen[ssid] {
			continue
		}
		seen[ssid] = true
		networks = append(networks, Network{SSID: ssid})
	}
	return networks
}

// Configure connects to ssid/password, preferring nmcli and falling back
// to a manual wpa_cli provisioning sequence.
func Configure(ctx context.Context, ssid, password string) (ConfigResult, error) {
	if _, err := exec.LookPath("nmcli"); err == nil {
		args := []string{"dev", "wifi", "connect", ssid}
		if password != "" {
			args = append(args, "password", password)
		}
		out, err := run(ctx, 30*time.Second, "nmcli", args...)
		if err != nil {
			return ConfigResult{}, fmt.Errorf("nmcli connect: %s", strings.TrimSpace(out))
		}
		time.Sleep(2 * time.Second)
		return ConfigResult{OK: true, SSID: ssid, IP: LocalIP()}, nil
	}

	if _, err := exec.LookPath("wpa_cli"); err == nil {
		if err := configureViaWpaCli(ctx, ssid, password); err != nil {
			return ConfigResult{}, fmt.Errorf("wpa_cli: %w", err)
		}
		time.Sleep(3 * time.Second)
		return ConfigResult{OK: true, SSID: ssid, IP: LocalIP()}, nil
	}

	return ConfigResult{}, fmt.Errorf("no WiFi provisioning tool available (nmcli or wpa_cli)")
}

func configureViaWpaCli(ctx context.Context, ssid, password string) error {
	wpa := func(args ...string) (string, error) {
		return run(ctx, 10*time.Second, "wpa_cli", append([]string{"-i", "wlan0"}, args...)...)
	}

	out, err := wpa("add_network")
	if err != nil {
		return err
	}
	netID := strings.TrimSpace(firstLine(out))

	if _, err := wpa("set_network", netID, "ssid", strconv.Quote(ssid)); err != nil {
		return err
	}
	if password != "" {
		if _, err := wpa("set_network", netID, "psk", strconv.Quote(password)); err != nil {
			return err
		}
	} else {
		if _, err := wpa("set_network", netID, "key_mgmt", "NONE"); err != nil {
			return err
		}
	}
	if _, err := wpa("enable_network", netID); err != nil {
		return err
	}
	_, err = wpa("save_config")
	return err
}

func firstLine(s string) string {
	sc := bufio.NewScanner(strings.NewReader(s))
	if sc.Scan() {
		return sc.Text()
	}
	return ""
}
