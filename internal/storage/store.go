package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is the byte-level storage contract the portal core depends on.
// Paths are slash-separated and relative to a fixed storage root.
type FileStore interface {
	Exists(path string) bool
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	EnsureDir(path string) error
}

// LocalStore stores files on the local filesystem under a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root returns the absolute storage root directory.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(s.abs(path))
	return err == nil
}

func (s *LocalStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(s.abs(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write persists data at path, creating parent directories as needed.
func (s *LocalStore) Write(path string, data []byte) error {
	target := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates the directory recursively. It is idempotent: an already
// existing directory is not an error.
func (s *LocalStore) EnsureDir(path string) error {
	if err := os.MkdirAll(s.abs(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
