package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Record is one row of a note/file/activity/search listing, reduced to the
// two columns every category can render without per-table layout logic.
type Record struct {
	ID      string
	Summary string
}

// RenderRecordsTable renders a category's query results with a header row
// and optional related-entity hints above the results.
func RenderRecordsTable(label, query string, records []Record, hints []string, width int) string {
	rows := [][]string{}

	for _, h := range hints {
		rows = append(rows, []string{"related:", h})
	}
	rows = append(rows, []string{fmt.Sprintf("found %d %s:", len(records), label), ""})

	maxSummaryWidth := width - 20
	if maxSummaryWidth < 10 {
		maxSummaryWidth = 10
	}
	for i, r := range records {
		summary := r.Summary
		if len(summary) > maxSummaryWidth {
			summary = summary[:maxSummaryWidth-3] + "..."
		}
		rows = append(rows, []string{fmt.Sprintf("%d. [%s]", i+1, r.ID), summary})
	}

	return NewResultTable(width).
		Headers(strings.ToUpper(label[:1])+label[1:], fmt.Sprintf("%q", query)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row < len(hints):
				return TableHintStyle
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		}).
		String()
}

// RenderNoResults renders the empty-result table with follow-up suggestions.
func RenderNoResults(label, query string, suggestions []string, width int) string {
	rows := [][]string{
		{fmt.Sprintf("no %s found.", label), ""},
		{"try these:", ""},
	}
	for _, s := range suggestions {
		rows = append(rows, []string{"  -", s})
	}

	return NewResultTable(width).
		Headers(strings.ToUpper(label[:1])+label[1:], fmt.Sprintf("%q", query)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case row == 0:
				return TableWarningStyle
			case row == 1:
				return TableHintStyle.Bold(true)
			default:
				return TableHintStyle
			}
		}).
		String()
}
