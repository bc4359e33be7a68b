package main

import (
	"strings"
	"testing"

	"github.com/cortexwear/cortexd/internal/store"
)

func TestRenderContextMarkdownIncludesPopulatedSections(t *testing.T) {
	ctx := store.Context{
		ActiveProjects: []store.Project{{Tag: "cortexd", Status: "active", Priority: 1, Description: "the daemon"}},
		OpenBugs:       []store.Note{{Content: "BLE reconnect loop spins on bad MTU", CreatedAt: "2026-07-30T10:00:00Z"}},
		Stats:          store.Stats{NotesTotal: 5, FilesTotal: 2},
	}

	md := renderContextMarkdown(ctx)

	for _, want := range []string{"# cortex context", "cortexd", "Open bugs", "BLE reconnect loop"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Recent decisions") {
		t.Errorf("markdown should omit empty sections:\n%s", md)
	}
}

func TestRenderContextMarkdownHandlesEmptyContext(t *testing.T) {
	md := renderContextMarkdown(store.Context{})
	if !strings.Contains(md, "0 notes") {
		t.Errorf("expected zero-valued stats line, got:\n%s", md)
	}
}
