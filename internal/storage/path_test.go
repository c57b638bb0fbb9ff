package storage

import (
	"regexp"
	"testing"

	"github.com/studyhub/backend/internal/models"
)

var storedNamePattern = regexp.MustCompile(`^\d+-[a-z0-9]{9}\.pdf$`)

func TestNewStoredFilenameFormat(t *testing.T) {
	name := NewStoredFilename("9701_s24_qp_11.pdf")
	if !storedNamePattern.MatchString(name) {
		t.Errorf("stored filename %q does not match expected format", name)
	}
}

func TestNewStoredFilenamePreservesExtension(t *testing.T) {
	name := NewStoredFilename("archive.tar.gz")
	if got := name[len(name)-3:]; got != ".gz" {
		t.Errorf("expected .gz extension, got %q", got)
	}
}

func TestNewStoredFilenameUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		name := NewStoredFilename("paper.pdf")
		if seen[name] {
			t.Fatalf("duplicate stored filename after %d iterations: %s", i, name)
		}
		seen[name] = true
	}
}

func TestCanonicalPath(t *testing.T) {
	year := 2024
	got := CanonicalPath(models.CategoryPastPaper, "9701", &year, "file.pdf")
	if got != "past_paper/9701/2024/file.pdf" {
		t.Errorf("unexpected canonical path %q", got)
	}
}

func TestCanonicalPathUnknownYear(t *testing.T) {
	got := CanonicalPath(models.CategoryBook, "0620", nil, "file.pdf")
	if got != "book/0620/unknown/file.pdf" {
		t.Errorf("unexpected canonical path %q", got)
	}
}

func TestCanonicalDir(t *testing.T) {
	year := 2023
	got := CanonicalDir(models.CategoryMarkScheme, "9702", &year)
	if got != "mark_scheme/9702/2023" {
		t.Errorf("unexpected canonical dir %q", got)
	}
}

func TestBuildStoragePath(t *testing.T) {
	year := 2024
	stored := BuildStoragePath(models.CategoryPastPaper, "9701", &year, "9701_s24_qp_11.pdf")

	if !storedNamePattern.MatchString(stored.Filename) {
		t.Errorf("stored filename %q does not match expected format", stored.Filename)
	}
	want := "past_paper/9701/2024/" + stored.Filename
	if stored.RelativePath != want {
		t.Errorf("expected path %q, got %q", want, stored.RelativePath)
	}
}
