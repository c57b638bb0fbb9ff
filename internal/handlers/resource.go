package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/storage"
	"gorm.io/gorm"
)

type ResourceHandler struct {
	db      *gorm.DB
	catalog repository.ResourceCatalog
	store   storage.FileStore
}

func NewResourceHandler(db *gorm.DB, catalog repository.ResourceCatalog, store storage.FileStore) *ResourceHandler {
	return &ResourceHandler{db: db, catalog: catalog, store: store}
}

// filterFromQuery builds a catalog filter from listing query parameters.
func filterFromQuery(c *fiber.Ctx) repository.ResourceFilter {
	filter := repository.ResourceFilter{Search: c.Query("search")}

	if v := c.Query("subject_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			sid := uint(id)
			filter.SubjectID = &sid
		}
	}
	if v := c.Query("level"); v != "" {
		level := models.Level(strings.ToUpper(v))
		filter.Level = &level
	}
	if v := c.Query("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filter.Year = &year
		}
	}
	return filter
}

// List returns public resources of one category, filtered by query params
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	category := models.Category(strings.ToUpper(c.Params("category")))
	if !category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unknown resource category",
		})
	}

	filter := filterFromQuery(c)
	filter.Category = &category
	isPublic := true
	filter.IsPublic = &isPublic

	resources, err := h.catalog.FindMany(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch resources",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resources,
	})
}

// Get returns a single public resource
func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	resource, status, msg := h.publicResource(c)
	if resource == nil {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resource,
	})
}

// View records a view: counter increment plus an analytics row
func (h *ResourceHandler) View(c *fiber.Ctx) error {
	resource, status, msg := h.publicResource(c)
	if resource == nil {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}

	if err := h.catalog.IncrementView(c.Context(), resource.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update view count",
		})
	}
	h.db.Create(&models.AnalyticsEvent{
		ResourceID: resource.ID,
		Action:     "view",
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	})

	return c.JSON(fiber.Map{"success": true})
}

// Download records a download and streams the file as an attachment
func (h *ResourceHandler) Download(c *fiber.Ctx) error {
	resource, status, msg := h.publicResource(c)
	if resource == nil {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}

	return h.serveDownload(c, resource)
}

// serveDownload is shared between public and book downloads.
func (h *ResourceHandler) serveDownload(c *fiber.Ctx, resource *models.Resource) error {
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

// publicResource loads the resource from the path parameter and rejects
// non-public entries. Book content is only reachable through BookHandler.
func (h *ResourceHandler) publicResource(c *fiber.Ctx) (*models.Resource, int, string) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, fiber.StatusBadRequest, "Invalid resource ID"
	}

	resource, err := h.catalog.FindByID(c.Context(), uint(id))
	if err != nil {
		return nil, fiber.StatusNotFound, "Resource not found"
	}
	if !resource.IsPublic {
		return nil, fiber.StatusForbidden, "This resource is not publicly available"
	}
	return resource, 0, ""
}
