package models

import (
	"strings"
	"time"
)

// Level represents the exam level a subject belongs to
type Level string

const (
	LevelIGCSE   Level = "IGCSE"
	LevelASLevel Level = "AS_LEVEL"
	LevelALevel  Level = "A_LEVEL"
)

// Display returns the human-readable level name ("A_LEVEL" -> "A LEVEL").
func (l Level) Display() string {
	return strings.ReplaceAll(string(l), "_", " ")
}

// Subject represents an exam subject (e.g. 9701 Chemistry A_LEVEL) that
// owns zero or more resources.
type Subject struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	Code        string `gorm:"column:code;uniqueIndex;size:20;not null" json:"code"`
	Name        string `gorm:"column:name;size:100;not null" json:"name"`
	Level       Level  `gorm:"column:level;size:20;not null" json:"level"`
	Description string `gorm:"column:description;type:text" json:"description"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
