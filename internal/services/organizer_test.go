package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/storage"
)

// fakeCatalog is an in-memory ResourceCatalog for service tests.
type fakeCatalog struct {
	resources   []models.Resource
	findErr     error
	updateErr   error
	pathUpdates map[uint]string
}

func newFakeCatalog(resources ...models.Resource) *fakeCatalog {
	return &fakeCatalog{resources: resources, pathUpdates: map[uint]string{}}
}

func (f *fakeCatalog) FindMany(ctx context.Context, filter repository.ResourceFilter) ([]models.Resource, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Resource
	for _, r := range f.resources {
		if filter.Category != nil && r.Category != *filter.Category {
			continue
		}
		if filter.IsPublic != nil && r.IsPublic != *filter.IsPublic {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCatalog) FindByID(ctx context.Context, id uint) (*models.Resource, error) {
	for i := range f.resources {
		if f.resources[i].ID == id {
			return &f.resources[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCatalog) Create(ctx context.Context, resource *models.Resource) error {
	f.resources = append(f.resources, *resource)
	return nil
}

func (f *fakeCatalog) UpdatePath(ctx context.Context, id uint, relativePath string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.pathUpdates[id] = relativePath
	for i := range f.resources {
		if f.resources[i].ID == id {
			f.resources[i].FilePath = relativePath
		}
	}
	return nil
}

func (f *fakeCatalog) IncrementView(ctx context.Context, id uint) error     { return nil }
func (f *fakeCatalog) IncrementDownload(ctx context.Context, id uint) error { return nil }

// stubLocker always grants or always denies the lock.
type stubLocker struct {
	denied   bool
	acquired int
	released int
}

func (s *stubLocker) Acquire(ctx context.Context) (bool, error) {
	if s.denied {
		return false, nil
	}
	s.acquired++
	return true, nil
}

func (s *stubLocker) Release(ctx context.Context) error {
	s.released++
	return nil
}

func pastPaper(id uint, code string, year *int, filename, filePath string) models.Resource {
	return models.Resource{
		ID:           id,
		Title:        fmt.Sprintf("Paper %d", id),
		Filename:     filename,
		OriginalName: filename,
		FilePath:     filePath,
		FileSize:     1000,
		Category:     models.CategoryPastPaper,
		Year:         year,
		IsPublic:     true,
		SubjectID:    1,
		Subject:      models.Subject{ID: 1, Code: code, Name: "Chemistry", Level: models.LevelALevel},
	}
}

func intPtr(v int) *int { return &v }

func TestOrganizeMovesFilesToCanonicalLayout(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	if err := store.Write("old/a.pdf", []byte("aaa")); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("old/b.pdf", []byte("bbb")); err != nil {
		t.Fatal(err)
	}

	catalog := newFakeCatalog(
		pastPaper(1, "9701", intPtr(2024), "a.pdf", "old/a.pdf"),
		pastPaper(2, "9701", nil, "b.pdf", "old/b.pdf"),
	)
	lock := &stubLocker{}
	organizer := NewFileOrganizer(catalog, store, lock)

	result := organizer.OrganizeExistingFiles(context.Background())

	if !result.Success {
		t.Fatalf("expected success, got errors %v", result.Errors)
	}
	if result.MovedFiles != 2 {
		t.Errorf("expected 2 moved files, got %d", result.MovedFiles)
	}
	if result.Message != "Organized 2 files successfully" {
		t.Errorf("unexpected message %q", result.Message)
	}

	if got := catalog.pathUpdates[1]; got != "past_paper/9701/2024/a.pdf" {
		t.Errorf("unexpected new path for resource 1: %q", got)
	}
	if got := catalog.pathUpdates[2]; got != "past_paper/9701/unknown/b.pdf" {
		t.Errorf("unexpected new path for resource 2: %q", got)
	}

	// Copies, not renames: sources stay in place.
	if !store.Exists("old/a.pdf") {
		t.Error("source file should remain after relocation")
	}
	data, err := store.Read("past_paper/9701/2024/a.pdf")
	if err != nil || string(data) != "aaa" {
		t.Errorf("relocated file content mismatch: %q, %v", data, err)
	}

	if lock.released != 1 {
		t.Errorf("expected lock released once, got %d", lock.released)
	}
}

func TestOrganizeMissingFileIsPerEntryError(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	if err := store.Write("old/a.pdf", []byte("aaa")); err != nil {
		t.Fatal(err)
	}

	catalog := newFakeCatalog(
		pastPaper(1, "9701", intPtr(2024), "a.pdf", "old/a.pdf"),
		pastPaper(2, "9701", intPtr(2024), "gone.pdf", "old/gone.pdf"),
	)
	organizer := NewFileOrganizer(catalog, store, &stubLocker{})

	result := organizer.OrganizeExistingFiles(context.Background())

	if result.Success {
		t.Error("expected success=false when an entry fails")
	}
	if result.MovedFiles != 1 {
		t.Errorf("expected 1 moved file, got %d", result.MovedFiles)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if result.Errors[0] != "File not found: old/gone.pdf" {
		t.Errorf("unexpected error message %q", result.Errors[0])
	}
}

func TestOrganizeCanonicalPathMissingFile(t *testing.T) {
	// Entry already at its canonical path, but the backing file is gone.
	catalog := newFakeCatalog(pastPaper(1, "9701", intPtr(2024), "a.pdf", "past_paper/9701/2024/a.pdf"))
	organizer := NewFileOrganizer(catalog, storage.NewLocalStore(t.TempDir()), &stubLocker{})

	result := organizer.OrganizeExistingFiles(context.Background())

	if result.Success {
		t.Error("expected success=false for a missing backing file")
	}
	if result.MovedFiles != 0 {
		t.Errorf("expected 0 moved files, got %d", result.MovedFiles)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "File not found: past_paper/9701/2024/a.pdf" {
		t.Errorf("unexpected errors %v", result.Errors)
	}
}

func TestOrganizeSecondRunIsIdempotent(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	if err := store.Write("old/a.pdf", []byte("aaa")); err != nil {
		t.Fatal(err)
	}

	catalog := newFakeCatalog(pastPaper(1, "9701", intPtr(2024), "a.pdf", "old/a.pdf"))
	organizer := NewFileOrganizer(catalog, store, &stubLocker{})

	first := organizer.OrganizeExistingFiles(context.Background())
	if !first.Success || first.MovedFiles != 1 {
		t.Fatalf("first run failed: %+v", first)
	}

	second := organizer.OrganizeExistingFiles(context.Background())
	if !second.Success {
		t.Fatalf("second run failed: %+v", second)
	}
	if second.MovedFiles != 1 {
		t.Errorf("expected already-canonical entry counted as moved, got %d", second.MovedFiles)
	}
	if len(second.Errors) != 0 {
		t.Errorf("expected no errors on second run, got %v", second.Errors)
	}
}

func TestOrganizeCatalogListFailureAborts(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.findErr = errors.New("connection refused")
	organizer := NewFileOrganizer(catalog, storage.NewLocalStore(t.TempDir()), &stubLocker{})

	result := organizer.OrganizeExistingFiles(context.Background())

	if result.Success {
		t.Error("expected failure")
	}
	if !strings.HasPrefix(result.Message, "Failed to organize files:") {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestOrganizeCatalogUpdateFailureAborts(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	if err := store.Write("old/a.pdf", []byte("aaa")); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("old/b.pdf", []byte("bbb")); err != nil {
		t.Fatal(err)
	}

	catalog := newFakeCatalog(
		pastPaper(1, "9701", intPtr(2024), "a.pdf", "old/a.pdf"),
		pastPaper(2, "9701", intPtr(2024), "b.pdf", "old/b.pdf"),
	)
	catalog.updateErr = errors.New("write timeout")
	organizer := NewFileOrganizer(catalog, store, &stubLocker{})

	result := organizer.OrganizeExistingFiles(context.Background())

	if result.Success {
		t.Error("expected failure")
	}
	if result.MovedFiles != 0 {
		t.Errorf("expected no files counted as moved, got %d", result.MovedFiles)
	}
	if !strings.HasPrefix(result.Message, "Aborted after") {
		t.Errorf("expected abort message, got %q", result.Message)
	}
	// Only the first entry is attempted before the abort.
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", result.Errors)
	}
}

func TestOrganizeLockContention(t *testing.T) {
	organizer := NewFileOrganizer(newFakeCatalog(), storage.NewLocalStore(t.TempDir()), &stubLocker{denied: true})

	result := organizer.OrganizeExistingFiles(context.Background())

	if result.Success {
		t.Error("expected failure when lock is held")
	}
	if result.Message != "Another reorganization run is already in progress" {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestOrganizeHonorsCancellation(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	if err := store.Write("old/a.pdf", []byte("aaa")); err != nil {
		t.Fatal(err)
	}

	catalog := newFakeCatalog(pastPaper(1, "9701", intPtr(2024), "a.pdf", "old/a.pdf"))
	organizer := NewFileOrganizer(catalog, store, &stubLocker{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := organizer.OrganizeExistingFiles(ctx)

	if result.Success {
		t.Error("expected failure on cancelled context")
	}
	if result.MovedFiles != 0 {
		t.Errorf("expected no moved files, got %d", result.MovedFiles)
	}
	if !strings.HasPrefix(result.Message, "Reorganization cancelled") {
		t.Errorf("unexpected message %q", result.Message)
	}
}
