package fs_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/avoro/tvc/internal/fs"
)

func TestMemoryFS_WriteReadFile(t *testing.T) {
	m := fs.NewMemoryFS()

	// Create dirs first
	if err := m.MkdirAll("dir/sub", 0o755); err != nil {
		t.Fatal(err)
	}

	content := []byte("hello world")
	if err := m.WriteFile("dir/sub/file.txt", content, 0o644); err != nil {
		t.Fatal(err)
	}

	read, err := m.ReadFile("dir/sub/file.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(read, content) {
		t.Fatalf("expected %q, got %q", content, read)
	}
}

func TestMemoryFS_WriteFileNonExistentDir(t *testing.T) {
	m := fs.NewMemoryFS()
	err := m.WriteFile("nope/file.txt", []byte("x"), 0o644)
	if err == nil {
		t.Fatal("expected error writing to non-existent dir")
	}
}

func TestMemoryFS_OpenAndClose(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/f", []byte("abc"), 0o644)

	f, err := m.Open("d/f")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf := make([]byte, 3)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if n != 3 || string(buf) != "abc" {
		t.Fatalf("unexpected read %q", buf)
	}
}

func TestMemoryFS_Remove(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/f", []byte("x"), 0o644)

	if !m.Exists("d/f") {
		t.Fatal("file should exist")
	}

	if err := m.Remove("d/f"); err != nil {
		t.Fatal(err)
	}
	if m.Exists("d/f") {
		t.Fatal("file should be removed")
	}

	if err := m.Remove("d/f"); err == nil {
		t.Fatal("expected error removing missing file")
	}
}

func TestMemoryFS_CreateTempFileAndRename(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)

	w, tmpPath, err := m.CreateTempFile("d", ".tmp-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if err := m.Rename(tmpPath, "d/final"); err != nil {
		t.Fatal(err)
	}
	data, err := m.ReadFile("d/final")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content %q", data)
	}
	if m.Exists(tmpPath) {
		t.Fatal("temp file should be gone after rename")
	}
}

func TestMemoryFS_ReadDir(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d/sub", 0o755)
	m.WriteFile("d/a.txt", []byte("a"), 0o644)
	m.WriteFile("d/b.txt", []byte("b"), 0o644)
	m.WriteFile("d/sub/c.txt", []byte("c"), 0o644)

	entries, err := m.ReadDir("d")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// entries are sorted: a.txt, b.txt, sub
	if entries[0].Name() != "a.txt" || entries[2].Name() != "sub" {
		t.Fatalf("unexpected entries %v", entries)
	}
	if !entries[2].IsDir() {
		t.Fatal("sub should be a directory")
	}
}
