package store

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "cortex.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Stats(); err != nil {
		t.Fatalf("stats on fresh db: %v", err)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Fatalf("expected db file on disk: %v", err)
	}
}

func TestInsertAndRecentNotes(t *testing.T) {
	s := newTestStore(t)

	id, err := s.InsertNote(Note{Content: "remember the WAL pragma", NoteType: "decision"})
	if err != nil {
		t.Fatalf("insert note: %v", err)
	}
	if id == 0 {
		t.Fatal("expected nonzero note id")
	}

	notes, err := s.RecentNotes(10, "", "decision")
	if err != nil {
		t.Fatalf("recent notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "remember the WAL pragma" {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.StartSession("claude", "wearable-pi", "linux")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if id == "" {
		t.Fatal("expected session id")
	}

	ok, err := s.EndSession(id, "wrapped up", "cortexd")
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if !ok {
		t.Fatal("expected session to end")
	}

	ok, err = s.EndSession(id, "", "")
	if err != nil {
		t.Fatalf("end session again: %v", err)
	}
	if ok {
		t.Fatal("expected second end to be a no-op")
	}
}

func TestProjectUpsert(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.UpsertProject(Project{Tag: "cortex", Name: "Cortex Core"}); err != nil {
		t.Fatalf("upsert project: %v", err)
	}
	if _, err := s.UpsertProject(Project{Tag: "cortex", Name: "Cortex Core v2", Status: "active"}); err != nil {
		t.Fatalf("upsert project again: %v", err)
	}

	projects, err := s.ActiveProjects()
	if err != nil {
		t.Fatalf("active projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Cortex Core v2" {
		t.Fatalf("expected single updated project, got %+v", projects)
	}
}

func TestQueryWhitelist(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.InsertNote(Note{Content: "hi", Project: "cortex"}); err != nil {
		t.Fatalf("insert note: %v", err)
	}

	if _, err := s.Query("users", nil, "", 10); err == nil {
		t.Fatal("expected error for non-whitelisted table")
	}

	rows, err := s.Query("notes", map[string]any{"project": "cortex"}, "created_at DESC", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	// A malicious column name is silently dropped, not injected.
	rows, err = s.Query("notes", map[string]any{"project = 1; --": "x"}, "", 10)
	if err != nil {
		t.Fatalf("query with bad column: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected filter to be ignored, got %d rows", len(rows))
	}
}

func TestGetContext(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.InsertNote(Note{Content: "ship it", NoteType: "bug"}); err != nil {
		t.Fatalf("insert note: %v", err)
	}
	if _, err := s.UpsertProject(Project{Tag: "cortex"}); err != nil {
		t.Fatalf("upsert project: %v", err)
	}

	ctx, err := s.GetContext()
	if err != nil {
		t.Fatalf("get context: %v", err)
	}
	if len(ctx.OpenBugs) != 1 {
		t.Fatalf("expected 1 open bug, got %d", len(ctx.OpenBugs))
	}
	if len(ctx.ActiveProjects) != 1 {
		t.Fatalf("expected 1 active project, got %d", len(ctx.ActiveProjects))
	}
}
