package services

import (
	"context"
	"errors"
	"testing"

	"github.com/studyhub/backend/internal/models"
)

func TestStorageStatsEmptyCatalog(t *testing.T) {
	stats, err := NewStatsService(newFakeCatalog()).GetStorageStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalFiles != 0 || stats.TotalSize != 0 {
		t.Errorf("expected zero totals, got %d files / %d bytes", stats.TotalFiles, stats.TotalSize)
	}
	// Groupings serialize as {} rather than null.
	if stats.ByCategory == nil || stats.BySubject == nil || stats.ByYear == nil || stats.ByLevel == nil {
		t.Error("grouping maps must be initialized even when empty")
	}
}

func TestStorageStatsGrouping(t *testing.T) {
	paper := pastPaper(1, "9701", intPtr(2024), "a.pdf", "past_paper/9701/2024/a.pdf")
	paper.FileSize = 1000

	book := models.Resource{
		ID:       2,
		Filename: "b.pdf",
		FilePath: "book/0620/2023/b.pdf",
		FileSize: 2000,
		Category: models.CategoryBook,
		Year:     intPtr(2023),
		IsPublic: true,
		Subject:  models.Subject{ID: 2, Code: "0620", Name: "Chemistry", Level: models.LevelIGCSE},
	}

	unknownYear := pastPaper(3, "9701", nil, "c.pdf", "past_paper/9701/unknown/c.pdf")
	unknownYear.FileSize = 500

	private := pastPaper(4, "9701", intPtr(2024), "d.pdf", "past_paper/9701/2024/d.pdf")
	private.IsPublic = false

	stats, err := NewStatsService(newFakeCatalog(paper, book, unknownYear, private)).
		GetStorageStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalFiles != 3 {
		t.Errorf("expected 3 public files, got %d", stats.TotalFiles)
	}
	if stats.TotalSize != 3500 {
		t.Errorf("expected total size 3500, got %d", stats.TotalSize)
	}

	if g := stats.ByCategory["PAST_PAPER"]; g.Count != 2 || g.Size != 1500 {
		t.Errorf("unexpected PAST_PAPER group %+v", g)
	}
	if g := stats.ByCategory["BOOK"]; g.Count != 1 || g.Size != 2000 {
		t.Errorf("unexpected BOOK group %+v", g)
	}

	if g := stats.BySubject["9701 (A_LEVEL)"]; g.Count != 2 || g.Size != 1500 {
		t.Errorf("unexpected subject group %+v", g)
	}
	if g := stats.BySubject["0620 (IGCSE)"]; g.Count != 1 || g.Size != 2000 {
		t.Errorf("unexpected subject group %+v", g)
	}

	if g := stats.ByYear["2024"]; g.Count != 1 || g.Size != 1000 {
		t.Errorf("unexpected 2024 group %+v", g)
	}
	if g := stats.ByYear["Unknown"]; g.Count != 1 || g.Size != 500 {
		t.Errorf("unexpected Unknown group %+v", g)
	}

	if g := stats.ByLevel["A_LEVEL"]; g.Count != 2 || g.Size != 1500 {
		t.Errorf("unexpected A_LEVEL group %+v", g)
	}
	if g := stats.ByLevel["IGCSE"]; g.Count != 1 || g.Size != 2000 {
		t.Errorf("unexpected IGCSE group %+v", g)
	}
}

func TestStorageStatsCatalogError(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.findErr = errors.New("connection refused")

	stats, err := NewStatsService(catalog).GetStorageStats(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if stats != nil {
		t.Errorf("expected nil stats on error, got %+v", stats)
	}
}
