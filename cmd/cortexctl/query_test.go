package main

import (
	"strings"
	"testing"
)

func TestSummarizeRowRendersEveryColumn(t *testing.T) {
	row := map[string]any{"id": float64(1), "content": "buy groceries"}
	summary := summarizeRow(row)
	for _, want := range []string{"id=1", "content=buy groceries"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summarizeRow(%v) = %q, missing %q", row, summary, want)
		}
	}
}

func TestSummarizeRowEmptyMap(t *testing.T) {
	if got := summarizeRow(map[string]any{}); got != "" {
		t.Errorf("summarizeRow({}) = %q, want empty string", got)
	}
}
