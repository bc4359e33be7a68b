package store

import "testing"

func TestFileLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.InsertFile(File{Filename: "20260731_120000.wav", Category: "recordings", SizeBytes: 4096})
	if err != nil {
		t.Fatalf("insert file: %v", err)
	}

	files, err := s.ListFiles("recordings", "", 10)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "20260731_120000.wav" {
		t.Fatalf("unexpected files: %+v", files)
	}

	found, err := s.SearchFiles("120000", 10)
	if err != nil {
		t.Fatalf("search files: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 match, got %d", len(found))
	}

	ok, err := s.DeleteFile(id)
	if err != nil {
		t.Fatalf("delete file: %v", err)
	}
	if !ok {
		t.Fatal("expected delete to report success")
	}

	files, err = s.ListFiles("recordings", "", 10)
	if err != nil {
		t.Fatalf("list files after delete: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files after delete, got %d", len(files))
	}
}

func TestFileCategory(t *testing.T) {
	s := newTestStore(t)

	id, err := s.InsertFile(File{Filename: "notes.log", Category: "logs", SizeBytes: 128})
	if err != nil {
		t.Fatalf("insert file: %v", err)
	}

	category, found, err := s.FileCategory(id)
	if err != nil {
		t.Fatalf("file category: %v", err)
	}
	if !found || category != "logs" {
		t.Fatalf("expected logs category, got %q found=%v", category, found)
	}

	_, found, err = s.FileCategory(id + 999)
	if err != nil {
		t.Fatalf("file category for missing id: %v", err)
	}
	if found {
		t.Fatal("expected found=false for a nonexistent id")
	}
}
