package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/models"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Stats returns admin dashboard aggregates
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var totalUsers, totalSubjects, totalResources, totalDownloads int64

	h.db.Model(&models.User{}).Count(&totalUsers)
	h.db.Model(&models.Subject{}).Count(&totalSubjects)
	h.db.Model(&models.Resource{}).Count(&totalResources)
	h.db.Model(&models.Download{}).Count(&totalDownloads)

	var downloadsToday int64
	startOfDay := time.Now().Truncate(24 * time.Hour)
	h.db.Model(&models.Download{}).Where("created_at >= ?", startOfDay).Count(&downloadsToday)

	var recentUploads []models.Resource
	h.db.Preload("Subject").Order("created_at DESC").Limit(10).Find(&recentUploads)

	var topResources []models.Resource
	h.db.Preload("Subject").Order("download_count DESC").Limit(10).Find(&topResources)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":     totalUsers,
			"total_subjects":  totalSubjects,
			"total_resources": totalResources,
			"total_downloads": totalDownloads,
			"downloads_today": downloadsToday,
			"recent_uploads":  recentUploads,
			"top_resources":   topResources,
		},
	})
}
