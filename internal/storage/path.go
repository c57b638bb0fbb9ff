package storage

import (
	"crypto/rand"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/studyhub/backend/internal/models"
)

const (
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength   = 9
)

// StoredFile is the result of building a storage path for a fresh upload.
type StoredFile struct {
	Filename     string `json:"filename"`
	RelativePath string `json:"relative_path"`
}

// randomToken returns a random base36 token. crypto/rand keeps the
// collision probability independent of the timestamp component.
func randomToken() string {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is not recoverable here; fall back to the
		// clock so uploads keep working, at reduced entropy.
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	var b strings.Builder
	for _, c := range buf {
		b.WriteByte(tokenAlphabet[int(c)%len(tokenAlphabet)])
	}
	return b.String()
}

// NewStoredFilename generates a collision-resistant stored filename,
// preserving the original file extension.
func NewStoredFilename(originalFilename string) string {
	ext := path.Ext(originalFilename)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), randomToken(), ext)
}

// CanonicalPath derives the canonical relative storage path for a stored
// filename: lowercased category / subject code / year-or-"unknown" /
// filename. Both fresh uploads and the reorganizer converge on this layout.
func CanonicalPath(category models.Category, subjectCode string, year *int, filename string) string {
	yearDir := "unknown"
	if year != nil {
		yearDir = strconv.Itoa(*year)
	}
	return path.Join(strings.ToLower(string(category)), subjectCode, yearDir, filename)
}

// CanonicalDir returns the directory portion of the canonical layout, for
// callers that must ensure it exists before writing.
func CanonicalDir(category models.Category, subjectCode string, year *int) string {
	return path.Dir(CanonicalPath(category, subjectCode, year, "x"))
}

// BuildStoragePath computes the destination for a fresh upload: a generated
// unique stored filename plus its canonical relative path.
func BuildStoragePath(category models.Category, subjectCode string, year *int, originalFilename string) StoredFile {
	filename := NewStoredFilename(originalFilename)
	return StoredFile{
		Filename:     filename,
		RelativePath: CanonicalPath(category, subjectCode, year, filename),
	}
}
