package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/charmbracelet/lipgloss/table"
)

// PairResult aggregates what cortexctl learned while provisioning a BLE
// peripheral, for the one-shot report printed by `cortexctl pair`.
type PairResult struct {
	DeviceAddress string
	ServiceUUID   string
	HTTPAddr      string

	Subscribed    bool
	DiscoverSent  bool
	TokenSaved    bool
	CachePath     string

	Warnings []string

	QuickstartCommands []string
}

func checkmark(ok bool) string {
	if ok {
		return statusGoodStyle.Render("v")
	}
	return statusBadStyle.Render("x")
}

// RenderPairReport renders the pairing flow's end-of-run summary: what was
// negotiated with the peripheral, whether the token reached it, and what to
// run next.
func RenderPairReport(res PairResult, width int) string {
	var sections []string

	header := lipgloss.NewStyle().Bold(true).Foreground(ColorPass).Render("Paired with wearable")
	sections = append(sections, header, "")

	detailsRows := [][]string{
		{"Device address", res.DeviceAddress},
		{"Service UUID", res.ServiceUUID},
		{"HTTP address advertised", res.HTTPAddr},
		{"Pairing cache", res.CachePath},
	}
	summaryTable := table.New().
		Headers("Field", "Value").
		Rows(detailsRows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			style := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
			if col == 0 {
				style = style.Bold(true).Foreground(ColorAccent)
			}
			return style
		})
	sections = append(sections, summaryTable.String(), "")

	steps := list.New().
		Enumerator(func(_ list.Items, _ int) string { return "" }).
		EnumeratorStyle(lipgloss.NewStyle().MarginRight(1))
	steps.Item(checkmark(res.Subscribed) + " subscribed to notify characteristic")
	steps.Item(checkmark(res.DiscoverSent) + " sent DISCOVER payload")
	steps.Item(checkmark(res.TokenSaved) + " cached bearer token")
	sections = append(sections, steps.String(), "")

	if len(res.Warnings) > 0 {
		warnRows := make([][]string, 0, len(res.Warnings))
		for _, w := range res.Warnings {
			warnRows = append(warnRows, []string{"!", w})
		}
		diagTable := table.New().
			Headers("!", "Warnings").
			Rows(warnRows...).
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(ColorWarn)).
			Width(width).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return TableHeaderStyle.Foreground(ColorWarn)
				}
				style := lipgloss.NewStyle().Padding(0, 1)
				if col == 0 {
					style = style.Foreground(ColorWarn).Bold(true)
				}
				return style
			})
		sections = append(sections, diagTable.String(), "")
	}

	if len(res.QuickstartCommands) > 0 {
		sections = append(sections, lipgloss.NewStyle().Bold(true).Render("Try next:"))
		for _, c := range res.QuickstartCommands {
			sections = append(sections, "  "+lipgloss.NewStyle().Foreground(ColorAccent).Render(c))
		}
	}

	return strings.Join(sections, "\n")
}
