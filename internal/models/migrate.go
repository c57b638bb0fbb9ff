package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all portal models.
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	return db.AutoMigrate(
		&User{},
		&Subject{},
		&Resource{},
		&Download{},
		&AnalyticsEvent{},
		&Bookmark{},
		&Announcement{},
	)
}
