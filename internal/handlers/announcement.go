package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/models"
	"gorm.io/gorm"
)

type AnnouncementHandler struct {
	db *gorm.DB
}

func NewAnnouncementHandler(db *gorm.DB) *AnnouncementHandler {
	return &AnnouncementHandler{db: db}
}

// List returns active announcements, highest priority first
func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := h.db.Where("is_active = ?", true).
		Order("priority DESC").
		Order("created_at DESC").
		Find(&announcements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch announcements",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    announcements,
	})
}

// ListAll returns every announcement including inactive ones (admin only)
func (h *AnnouncementHandler) ListAll(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := h.db.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch announcements",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    announcements,
	})
}

// AnnouncementRequest represents create/update announcement request
type AnnouncementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority int    `json:"priority"`
	IsActive *bool  `json:"is_active"`
}

// Create creates a new announcement (admin only)
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Title and content are required",
		})
	}

	announcement := models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		Priority: req.Priority,
		IsActive: true,
	}
	if req.IsActive != nil {
		announcement.IsActive = *req.IsActive
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create announcement",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    announcement,
	})
}

// Update updates an announcement (admin only)
func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var announcement models.Announcement
	if err := h.db.First(&announcement, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Announcement not found",
		})
	}

	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Title != "" {
		announcement.Title = req.Title
	}
	if req.Content != "" {
		announcement.Content = req.Content
	}
	announcement.Priority = req.Priority
	if req.IsActive != nil {
		announcement.IsActive = *req.IsActive
	}

	if err := h.db.Save(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update announcement",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    announcement,
	})
}

// Delete removes an announcement (admin only)
func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	result := h.db.Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete announcement",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Announcement not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Announcement deleted successfully",
	})
}
