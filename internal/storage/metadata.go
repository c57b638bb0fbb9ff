package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/studyhub/backend/internal/models"
)

// Exam-board filename conventions, e.g. 9701_s24_qp_11.pdf.
var (
	yearPattern   = regexp.MustCompile(`(20\d{2})`)
	paperPattern  = regexp.MustCompile(`_qp_(\d+)`)
	seasonPattern = regexp.MustCompile(`_([swm])(\d{2})_`)
)

// Metadata holds exam metadata extracted from an uploaded filename.
// Unmatched fields stay absent (nil/empty); callers must treat them as
// unknown rather than substituting sentinel values.
type Metadata struct {
	Year        *int   `json:"year,omitempty"`
	Season      string `json:"season,omitempty"`
	PaperNumber string `json:"paper_number,omitempty"`
	Title       string `json:"title"`
}

// Extract parses exam metadata out of an original filename. It performs no
// I/O and cannot fail.
//
// The year rule takes the first 20xx token in the filename. A name carrying
// several such tokens (embedded version numbers and the like) can therefore
// be misattributed; this first-match behavior is a known limitation kept for
// compatibility with existing catalogs.
func Extract(filename string, subject models.Subject) Metadata {
	lower := strings.ToLower(filename)
	var meta Metadata

	if m := yearPattern.FindStringSubmatch(lower); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			meta.Year = &y
		}
	}

	if m := paperPattern.FindStringSubmatch(lower); m != nil {
		meta.PaperNumber = m[1]
	}

	if m := seasonPattern.FindStringSubmatch(lower); m != nil {
		switch m[1] {
		case "s":
			meta.Season = "Summer"
		case "w":
			meta.Season = "Winter"
		case "m":
			meta.Season = "March"
		}
	}

	meta.Title = BuildTitle(subject, meta)
	return meta
}

// BuildTitle composes the fallback display title used when the uploader did
// not supply year/paper metadata.
func BuildTitle(subject models.Subject, meta Metadata) string {
	paper := meta.PaperNumber
	if paper == "" {
		paper = "N/A"
	}

	title := fmt.Sprintf("%s %s Paper %s", subject.Name, subject.Level.Display(), paper)
	if meta.Year != nil {
		title += " " + strconv.Itoa(*meta.Year)
	}
	if meta.Season != "" {
		title += " " + meta.Season
	}
	return title
}
