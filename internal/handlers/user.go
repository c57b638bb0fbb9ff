package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/backend/internal/middleware"
	"github.com/studyhub/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns all users (admin only)
func (h *UserHandler) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// CreateUserRequest represents create user request
type CreateUserRequest struct {
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Password      string          `json:"password"`
	Role          models.UserRole `json:"role"`
	HasBookAccess bool            `json:"has_book_access"`
}

// Create creates a new user (admin only)
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 8 characters",
		})
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A user with this email already exists",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to hash password",
		})
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Email:         req.Email,
		Name:          req.Name,
		Password:      string(hashed),
		Role:          role,
		HasBookAccess: req.HasBookAccess,
		IsActive:      true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// UpdateUserRequest represents update user request
type UpdateUserRequest struct {
	Name          *string          `json:"name"`
	Password      *string          `json:"password"`
	Role          *models.UserRole `json:"role"`
	HasBookAccess *bool            `json:"has_book_access"`
	IsActive      *bool            `json:"is_active"`
}

// Update updates an existing user (admin only)
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Password must be at least 8 characters",
			})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to hash password",
			})
		}
		updates["password"] = string(hashed)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.HasBookAccess != nil {
		updates["has_book_access"] = *req.HasBookAccess
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update user",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// Delete removes a user (admin only)
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	currentUser := middleware.GetCurrentUser(c)

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if currentUser != nil && currentUser.ID == user.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "You cannot delete your own account",
		})
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
