package storage

import (
	"testing"

	"github.com/studyhub/backend/internal/models"
)

var chemistry = models.Subject{
	Code:  "9701",
	Name:  "Chemistry",
	Level: models.LevelALevel,
}

func TestExtractSeasonAndPaper(t *testing.T) {
	meta := Extract("9701_s24_qp_11.pdf", chemistry)

	if meta.Year != nil {
		t.Errorf("expected no year from two-digit token, got %d", *meta.Year)
	}
	if meta.Season != "Summer" {
		t.Errorf("expected season Summer, got %q", meta.Season)
	}
	if meta.PaperNumber != "11" {
		t.Errorf("expected paper 11, got %q", meta.PaperNumber)
	}
}

func TestExtractFourDigitYear(t *testing.T) {
	meta := Extract("9701_2024_s_qp_11.pdf", chemistry)

	if meta.Year == nil || *meta.Year != 2024 {
		t.Fatalf("expected year 2024, got %v", meta.Year)
	}
	// "_s_" does not match the season pattern, which requires two digits
	// after the letter.
	if meta.Season != "" {
		t.Errorf("expected no season, got %q", meta.Season)
	}
	if meta.PaperNumber != "11" {
		t.Errorf("expected paper 11, got %q", meta.PaperNumber)
	}
}

func TestExtractSeasons(t *testing.T) {
	tests := []struct {
		filename string
		season   string
	}{
		{"9702_s23_qp_12.pdf", "Summer"},
		{"9702_w23_qp_12.pdf", "Winter"},
		{"9702_m23_qp_12.pdf", "March"},
		{"9702_x23_qp_12.pdf", ""},
	}

	for _, tt := range tests {
		meta := Extract(tt.filename, chemistry)
		if meta.Season != tt.season {
			t.Errorf("Extract(%q): expected season %q, got %q", tt.filename, tt.season, meta.Season)
		}
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	meta := Extract("9701_S24_QP_11.PDF", chemistry)

	if meta.Season != "Summer" {
		t.Errorf("expected season Summer, got %q", meta.Season)
	}
	if meta.PaperNumber != "11" {
		t.Errorf("expected paper 11, got %q", meta.PaperNumber)
	}
}

func TestExtractFirstYearWins(t *testing.T) {
	meta := Extract("notes_2019_revised_2023.pdf", chemistry)

	if meta.Year == nil || *meta.Year != 2019 {
		t.Fatalf("expected first year token 2019, got %v", meta.Year)
	}
}

func TestExtractNothingMatches(t *testing.T) {
	meta := Extract("random-file.pdf", chemistry)

	if meta.Year != nil {
		t.Errorf("expected no year, got %d", *meta.Year)
	}
	if meta.Season != "" {
		t.Errorf("expected no season, got %q", meta.Season)
	}
	if meta.PaperNumber != "" {
		t.Errorf("expected no paper number, got %q", meta.PaperNumber)
	}
	if meta.Title != "Chemistry A LEVEL Paper N/A" {
		t.Errorf("unexpected fallback title %q", meta.Title)
	}
}

func TestExtractTitleComposition(t *testing.T) {
	tests := []struct {
		filename string
		title    string
	}{
		{"9701_2024_s24_qp_11.pdf", "Chemistry A LEVEL Paper 11 2024 Summer"},
		{"9701_2024_qp_11.pdf", "Chemistry A LEVEL Paper 11 2024"},
		{"9701_w23_qp_42.pdf", "Chemistry A LEVEL Paper 42 Winter"},
	}

	for _, tt := range tests {
		meta := Extract(tt.filename, chemistry)
		if meta.Title != tt.title {
			t.Errorf("Extract(%q): expected title %q, got %q", tt.filename, tt.title, meta.Title)
		}
	}
}

func TestExtractIGCSELevelDisplay(t *testing.T) {
	igcse := models.Subject{Code: "0620", Name: "Chemistry", Level: models.LevelIGCSE}

	meta := Extract("random.pdf", igcse)
	if meta.Title != "Chemistry IGCSE Paper N/A" {
		t.Errorf("unexpected title %q", meta.Title)
	}
}
