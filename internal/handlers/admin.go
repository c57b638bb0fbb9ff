package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/services"
)

// AdminHandler exposes storage maintenance operations: the file
// reorganization batch, grouped storage statistics and the offsite mirror.
type AdminHandler struct {
	organizer *services.FileOrganizer
	stats     *services.StatsService
	mirror    *services.MirrorService
}

func NewAdminHandler(organizer *services.FileOrganizer, stats *services.StatsService, mirror *services.MirrorService) *AdminHandler {
	return &AdminHandler{organizer: organizer, stats: stats, mirror: mirror}
}

// OrganizeFiles runs the idempotent reorganization batch over existing
// catalog entries
func (h *AdminHandler) OrganizeFiles(c *fiber.Ctx) error {
	result := h.organizer.OrganizeExistingFiles(c.Context())
	return c.JSON(result)
}

// StorageStats returns grouped statistics over all public resources
func (h *AdminHandler) StorageStats(c *fiber.Ctx) error {
	stats, err := h.stats.GetStorageStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get storage stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// MirrorFiles uploads all public resources to the configured FTP mirror
func (h *AdminHandler) MirrorFiles(c *fiber.Ctx) error {
	if !h.mirror.Enabled() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Mirroring is not enabled",
		})
	}

	result := h.mirror.MirrorAll(c.Context())
	return c.JSON(result)
}
