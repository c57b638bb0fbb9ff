package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	path := "past_paper/9701/2024/test.pdf"
	payload := []byte("pdf bytes")

	if store.Exists(path) {
		t.Fatal("file should not exist before write")
	}
	if err := store.Write(path, payload); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !store.Exists(path) {
		t.Fatal("file should exist after write")
	}

	got, err := store.Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("expected %q, got %q", payload, got)
	}
}

func TestLocalStoreReadMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	if _, err := store.Read("no/such/file.pdf"); err == nil {
		t.Fatal("expected error reading missing file")
	}
}

func TestLocalStoreEnsureDirIdempotent(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	dir := "past_paper/9701/2024"
	if err := store.EnsureDir(dir); err != nil {
		t.Fatalf("first EnsureDir failed: %v", err)
	}
	if err := store.EnsureDir(dir); err != nil {
		t.Fatalf("second EnsureDir failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "past_paper", "9701", "2024"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}
