package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			Margin(1, 0)

	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent)

	statusSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), true, false, false, false).
				BorderForeground(ColorMuted)

	statusGoodStyle = lipgloss.NewStyle().
			Foreground(ColorPass).
			Bold(true)

	statusBadStyle = lipgloss.NewStyle().
			Foreground(ColorWarn).
			Bold(true)
)

// StatusViewModel holds the fields rendered by `cortexctl status`.
type StatusViewModel struct {
	AppState     string
	UptimeS      float64
	DiskFreeGB   float64
	BLEConnected bool
	ServerVer    string
	ClientOK     bool
	NoteCount    int
	FileCount    int
}

// RenderStatusBox renders the daemon state report cortexctl prints after a
// successful /health + status command round trip.
func RenderStatusBox(vm StatusViewModel) string {
	var sections []string

	header := fmt.Sprintf("cortexd: %s", vm.AppState)
	sections = append(sections, statusTitleStyle.Render(header))

	var lines []string
	lines = append(lines, fmt.Sprintf("uptime: %s", fmtDuration(vm.UptimeS)))
	lines = append(lines, fmt.Sprintf("disk free: %.1f GB", vm.DiskFreeGB))

	ble := statusBadStyle.Render("disconnected")
	if vm.BLEConnected {
		ble = statusGoodStyle.Render("connected")
	}
	lines = append(lines, "ble peer: "+ble)

	if vm.ServerVer != "" {
		compat := statusGoodStyle.Render("compatible")
		if !vm.ClientOK {
			compat = statusBadStyle.Render("incompatible")
		}
		lines = append(lines, fmt.Sprintf("server %s, client %s", vm.ServerVer, compat))
	}

	lines = append(lines, fmt.Sprintf("%d notes, %d files", vm.NoteCount, vm.FileCount))

	sections = append(sections, statusSectionStyle.Render(strings.Join(lines, "\n")))

	return statusBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func fmtDuration(seconds float64) string {
	d := int(seconds)
	h := d / 3600
	m := (d % 3600) / 60
	s := d % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
