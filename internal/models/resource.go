package models

import (
	"time"
)

// Category represents the functional type of a resource
type Category string

const (
	CategoryPastPaper      Category = "PAST_PAPER"
	CategoryMarkScheme     Category = "MARK_SCHEME"
	CategoryExaminerReport Category = "EXAMINER_REPORT"
	CategorySyllabus       Category = "SYLLABUS"
	CategoryNotes          Category = "NOTES"
	CategoryBook           Category = "BOOK"
	CategoryExtraMaterials Category = "EXTRA_MATERIALS"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPastPaper, CategoryMarkScheme, CategoryExaminerReport,
		CategorySyllabus, CategoryNotes, CategoryBook, CategoryExtraMaterials:
		return true
	}
	return false
}

// Resource represents one stored file and its exam metadata.
//
// Filename is the generated collision-resistant stored filename; FilePath is
// the relative storage path under the upload root. After reorganization the
// path always follows category/subjectCode/year-or-unknown/filename.
// Counters are mutated only through increment updates.
type Resource struct {
	ID           uint     `gorm:"column:id;primaryKey" json:"id"`
	Title        string   `gorm:"column:title;size:255;not null" json:"title"`
	Filename     string   `gorm:"column:filename;size:255;not null" json:"filename"`
	OriginalName string   `gorm:"column:original_name;size:255;not null" json:"original_name"`
	FilePath     string   `gorm:"column:file_path;size:500;not null" json:"file_path"`
	FileSize     int64    `gorm:"column:file_size;not null" json:"file_size"`
	MimeType     string   `gorm:"column:mime_type;size:100;default:application/pdf" json:"mime_type"`
	Category     Category `gorm:"column:category;size:30;not null;index" json:"category"`
	Description  string   `gorm:"column:description;type:text" json:"description"`

	// Exam metadata. Year is a pointer so "unknown" never collides with a
	// real year; PaperNumber is a string because values like "01" carry
	// leading zeros.
	Year        *int   `gorm:"column:year" json:"year"`
	PaperNumber string `gorm:"column:paper_number;size:10" json:"paper_number"`

	IsPublic  bool    `gorm:"column:is_public;default:true;index" json:"is_public"`
	SubjectID uint    `gorm:"column:subject_id;not null;index" json:"subject_id"`
	Subject   Subject `gorm:"foreignKey:SubjectID" json:"subject"`

	DownloadCount int64 `gorm:"column:download_count;default:0" json:"download_count"`
	ViewCount     int64 `gorm:"column:view_count;default:0" json:"view_count"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// Download represents one recorded download of a resource.
type Download struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	ResourceID uint      `gorm:"column:resource_id;not null;index" json:"resource_id"`
	IPAddress  string    `gorm:"column:ip_address;size:50" json:"ip_address"`
	UserAgent  string    `gorm:"column:user_agent;size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// AnalyticsEvent records a view or download action against a resource.
type AnalyticsEvent struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	ResourceID uint      `gorm:"column:resource_id;not null;index" json:"resource_id"`
	Action     string    `gorm:"column:action;size:20;not null" json:"action"` // view, download
	IPAddress  string    `gorm:"column:ip_address;size:50" json:"ip_address"`
	UserAgent  string    `gorm:"column:user_agent;size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// Bookmark links a user to a saved resource.
type Bookmark struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_resource" json:"user_id"`
	ResourceID uint      `gorm:"column:resource_id;not null;uniqueIndex:idx_user_resource" json:"resource_id"`
	Resource   *Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// Announcement represents a portal-wide announcement shown on the home page.
type Announcement struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Priority  int       `gorm:"column:priority;default:0" json:"priority"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
