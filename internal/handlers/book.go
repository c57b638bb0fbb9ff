package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/storage"
	"gorm.io/gorm"
)

// BookHandler serves the private book collection. Routes behind it require
// authentication plus an explicit book-access grant.
type BookHandler struct {
	db      *gorm.DB
	catalog repository.ResourceCatalog
	store   storage.FileStore
}

func NewBookHandler(db *gorm.DB, catalog repository.ResourceCatalog, store storage.FileStore) *BookHandler {
	return &BookHandler{db: db, catalog: catalog, store: store}
}

// List returns all books regardless of public flag
func (h *BookHandler) List(c *fiber.Ctx) error {
	filter := filterFromQuery(c)
	category := models.CategoryBook
	filter.Category = &category

	resources, err := h.catalog.FindMany(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch books",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resources,
	})
}

// Download streams a book as an attachment and records the download
func (h *BookHandler) Download(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid resource ID",
		})
	}

	resource, err := h.catalog.FindByID(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Book not found",
		})
	}
	if resource.Category != models.CategoryBook {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Book not found",
		})
	}

	data, err := h.store.Read(resource.FilePath)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "File not found on storage",
		})
	}

	h.catalog.IncrementDownload(c.Context(), resource.ID)
	h.db.Create(&models.Download{
		ResourceID: resource.ID,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})
	h.db.Create(&models.AnalyticsEvent{
		ResourceID: resource.ID,
		Action:     "download",
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})

	c.Set("Content-Type", resource.MimeType)
	c.Set("Content-Disposition", `attachment; filename="`+resource.OriginalName+`"`)
	return c.Send(data)
}
