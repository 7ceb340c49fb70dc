package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReadFile(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	if s.HasFile(path) {
		t.Fatal("HasFile() = true before save")
	}
	if err := s.SaveFile(path, []byte("whale\t3\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Fatal("HasFile() = false after save")
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "whale\t3\n" {
		t.Errorf("ReadFile() = %q", data)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", stats.SizeBytes, len(data))
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the saved file", len(entries))
	}
}

func TestAtomicWriterAbortKeepsOldContent(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()
	path := filepath.Join(dir, "result.txt")
	if err := s.SaveFile(path, []byte("old\n")); err != nil {
		t.Fatal(err)
	}

	w, err := s.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := w.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	w.Abort()
	w.Abort()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old\n" {
		t.Errorf("aborted write changed the destination: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("abort left %d entries behind", len(entries))
	}
}

func TestAtomicWriterCommit(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "result.txt")

	w, err := s.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("new\n")); err != nil {
		t.Fatal(err)
	}
	if s.HasFile(path) {
		t.Error("destination exists before Commit()")
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	w.Abort()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new\n" {
		t.Errorf("committed content = %q", data)
	}
	if w.Path() != path {
		t.Errorf("Path() = %q", w.Path())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := (&Storage{}).ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ReadFile() on missing file returned nil error")
	}
}
