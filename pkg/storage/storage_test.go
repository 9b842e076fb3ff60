package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFile_ReplacesContent(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	if err := s.SaveFile(path, []byte("first")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if err := s.SaveFile(path, []byte("second")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("ReadFile() = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the target (temp files leaked)", len(entries))
	}
}

func TestReadFile_Missing(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "absent.txt")

	if s.HasFile(path) {
		t.Error("HasFile() = true for a missing file")
	}
	if _, err := s.ReadFile(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want fs.ErrNotExist", err)
	}
}

func TestGetFileStats(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "members.txt")
	if err := s.SaveFile(path, []byte("Rin\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != 4 {
		t.Errorf("SizeBytes = %d, want 4", stats.SizeBytes)
	}
}
