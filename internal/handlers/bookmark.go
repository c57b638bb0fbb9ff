package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/middleware"
	"github.com/studyhub/backend/internal/models"
	"gorm.io/gorm"
)

type BookmarkHandler struct {
	db *gorm.DB
}

func NewBookmarkHandler(db *gorm.DB) *BookmarkHandler {
	return &BookmarkHandler{db: db}
}

// List returns the authenticated user's bookmarks with resources preloaded
func (h *BookmarkHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var bookmarks []models.Bookmark
	if err := h.db.Where("user_id = ?", userID).
		Preload("Resource").Preload("Resource.Subject").
		Order("created_at DESC").
		Find(&bookmarks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch bookmarks",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    bookmarks,
	})
}

// Create bookmarks a resource for the authenticated user
func (h *BookmarkHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var req struct {
		ResourceID uint `json:"resource_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ResourceID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "resource_id is required",
		})
	}

	var resource models.Resource
	if err := h.db.First(&resource, req.ResourceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Resource not found",
		})
	}

	var existing models.Bookmark
	if err := h.db.Where("user_id = ? AND resource_id = ?", userID, req.ResourceID).
		First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    existing,
		})
	}

	bookmark := models.Bookmark{
		UserID:     userID,
		ResourceID: req.ResourceID,
	}
	if err := h.db.Create(&bookmark).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create bookmark",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    bookmark,
	})
}

// Delete removes one of the user's bookmarks
func (h *BookmarkHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid bookmark ID",
		})
	}

	result := h.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Bookmark{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete bookmark",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Bookmark not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Bookmark removed",
	})
}
