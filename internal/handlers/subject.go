package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/models"
	"gorm.io/gorm"
)

type SubjectHandler struct {
	db *gorm.DB
}

func NewSubjectHandler(db *gorm.DB) *SubjectHandler {
	return &SubjectHandler{db: db}
}

// List returns all subjects, optionally filtered by level
func (h *SubjectHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&models.Subject{})

	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", strings.ToUpper(level))
	}

	var subjects []models.Subject
	if err := query.Order("code ASC").Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch subjects",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subjects,
	})
}

// Get returns a single subject by ID
func (h *SubjectHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	var subject models.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Subject not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subject,
	})
}

// SubjectRequest represents create/update subject request
type SubjectRequest struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Level       models.Level `json:"level"`
	Description string       `json:"description"`
}

// Create creates a new subject (admin only)
func (h *SubjectHandler) Create(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Code == "" || req.Name == "" || req.Level == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Code, name and level are required",
		})
	}

	var existing models.Subject
	if err := h.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A subject with this code already exists",
		})
	}

	subject := models.Subject{
		Code:        req.Code,
		Name:        req.Name,
		Level:       req.Level,
		Description: req.Description,
	}

	if err := h.db.Create(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create subject",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    subject,
	})
}

// Update updates an existing subject (admin only)
func (h *SubjectHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var subject models.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Subject not found",
		})
	}

	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Code != "" && req.Code != subject.Code {
		var existing models.Subject
		if err := h.db.Where("code = ? AND id != ?", req.Code, subject.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "A subject with this code already exists",
			})
		}
		subject.Code = req.Code
	}
	if req.Name != "" {
		subject.Name = req.Name
	}
	if req.Level != "" {
		subject.Level = req.Level
	}
	if req.Description != "" {
		subject.Description = req.Description
	}

	if err := h.db.Save(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update subject",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    subject,
	})
}

// Delete removes a subject (admin only)
func (h *SubjectHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	var subject models.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Subject not found",
		})
	}

	var count int64
	h.db.Model(&models.Resource{}).Where("subject_id = ?", subject.ID).Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot delete a subject that still has resources",
		})
	}

	if err := h.db.Delete(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete subject",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Subject deleted successfully",
	})
}
