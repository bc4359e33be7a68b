package ui

import (
	"strings"
	"testing"
)

func TestRenderRecordsTableTruncatesLongSummaries(t *testing.T) {
	long := "this line is deliberately much longer than the table width allows so it must be truncated with an ellipsis"
	out := RenderRecordsTable("notes", "test query", []Record{{ID: "1", Summary: long}}, nil, 40)
	if out == "" {
		t.Fatal("expected non-empty table output")
	}
	if strings.Contains(out, "truncated with an ellipsis") {
		t.Fatalf("expected the long summary to be truncated, got %q", out)
	}
}

func TestRenderNoResultsListsSuggestions(t *testing.T) {
	out := RenderNoResults("files", "missing", []string{"check the category name"}, 80)
	if out == "" {
		t.Fatal("expected non-empty output")
	}
	if !strings.Contains(out, "check the category name") {
		t.Fatalf("expected the suggestion in the output, got %q", out)
	}
}
