package handlers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/config"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/storage"
	"gorm.io/gorm"
)

const allowedMimeType = "application/pdf"

type UploadHandler struct {
	cfg     *config.Config
	db      *gorm.DB
	catalog repository.ResourceCatalog
	store   storage.FileStore
}

func NewUploadHandler(cfg *config.Config, db *gorm.DB, catalog repository.ResourceCatalog, store storage.FileStore) *UploadHandler {
	return &UploadHandler{cfg: cfg, db: db, catalog: catalog, store: store}
}

// Upload accepts a multipart PDF upload, extracts exam metadata from the
// filename when the form does not supply it, stores the file under the
// canonical layout, and creates the catalog entry.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No file provided",
		})
	}

	maxSize := int64(h.cfg.MaxUploadMB) * 1024 * 1024
	if fileHeader.Size > maxSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("File size exceeds %dMB limit", h.cfg.MaxUploadMB),
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType != allowedMimeType {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid file type. Only PDFs are allowed.",
		})
	}

	subjectID := c.FormValue("subject_id")
	if subjectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No subject provided",
		})
	}

	category := models.Category(c.FormValue("category"))
	if !category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unknown resource category",
		})
	}

	var subject models.Subject
	if err := h.db.First(&subject, subjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Subject not found",
		})
	}

	// Form-provided metadata takes precedence over filename extraction.
	var year *int
	if v := c.FormValue("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = &y
		}
	}
	paperNumber := c.FormValue("paper_number")

	title := fileHeader.Filename
	if year == nil || paperNumber == "" {
		meta := storage.Extract(fileHeader.Filename, subject)
		if year == nil {
			year = meta.Year
		}
		if paperNumber == "" {
			paperNumber = meta.PaperNumber
		}
		merged := meta
		merged.Year = year
		merged.PaperNumber = paperNumber
		title = storage.BuildTitle(subject, merged)
	}

	stored := storage.BuildStoragePath(category, subject.Code, year, fileHeader.Filename)

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read uploaded file",
		})
	}

	if err := h.store.EnsureDir(storage.CanonicalDir(category, subject.Code, year)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to prepare storage directory",
		})
	}
	if err := h.store.Write(stored.RelativePath, data); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store file",
		})
	}

	resource := models.Resource{
		Title:        title,
		Filename:     stored.Filename,
		OriginalName: fileHeader.Filename,
		FilePath:     stored.RelativePath,
		FileSize:     fileHeader.Size,
		MimeType:     mimeType,
		Category:     category,
		Year:         year,
		PaperNumber:  paperNumber,
		IsPublic:     category != models.CategoryBook,
		SubjectID:    subject.ID,
	}

	if err := h.catalog.Create(c.Context(), &resource); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create resource record",
		})
	}

	resource.Subject = subject

	return c.JSON(fiber.Map{
		"success":  true,
		"resource": resource,
		"file_url": "/uploads/" + stored.RelativePath,
	})
}
