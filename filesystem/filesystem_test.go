package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystemStoreAndLoad(t *testing.T) {
	base := t.TempDir()
	osfs := &OSFileSystem{BaseDir: base}

	w, err := osfs.Store("sub/dir/test.dat")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := w.Write([]byte("content")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !osfs.Exist("sub/dir/test.dat") {
		t.Error("stored file should exist")
	}

	r, err := osfs.Load("sub/dir/test.dat")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(content) != "content" {
		t.Errorf("loaded %q, want %q", content, "content")
	}
}

func TestOSFileSystemMaxFileSize(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "big.dat"), make([]byte, 32), 0644); err != nil {
		t.Fatal(err)
	}

	osfs := &OSFileSystem{BaseDir: base, MaxFileSize: 16}
	if _, err := osfs.Load("big.dat"); err == nil {
		t.Error("Load should reject a file over MaxFileSize")
	}
}

func TestMemFileSystem(t *testing.T) {
	mem := NewMemFileSystem()
	mem.Put("a/b.txt", []byte("hello"))

	if !mem.Exist("a/b.txt") {
		t.Error("put entry should exist")
	}
	if mem.Exist("missing.txt") {
		t.Error("missing entry should not exist")
	}

	r, err := mem.Load("a/b.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	content, _ := io.ReadAll(r)
	r.Close()
	if string(content) != "hello" {
		t.Errorf("loaded %q, want hello", content)
	}

	w, err := mem.Store("c.txt")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	w.Write([]byte("x"))
	w.Close()

	want := []string{"a/b.txt", "c.txt"}
	got := mem.List()
	if len(got) != len(want) {
		t.Fatalf("List len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
