package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/studyhub/backend/internal/config"
	"github.com/studyhub/backend/internal/database"
	"github.com/studyhub/backend/internal/handlers"
	"github.com/studyhub/backend/internal/middleware"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/repository"
	"github.com/studyhub/backend/internal/services"
	"github.com/studyhub/backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database and redis
	db, rdb, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db, rdb)

	// Run migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed admin user, subjects and welcome announcement if missing
	seedDefaults(db)

	// Storage and core services
	store := storage.NewLocalStore(cfg.UploadDir)
	catalog := repository.NewResourceCatalog(db)
	organizeLock := database.NewOrganizeLock(rdb, 30*time.Minute)
	organizer := services.NewFileOrganizer(catalog, store, organizeLock)
	statsService := services.NewStatsService(catalog)
	mirrorService := services.NewMirrorService(catalog, store, cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "StudyHub API v1.0",
		ServerHeader: "StudyHub",
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "studyhub-api",
		})
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, db, rdb)
	twoFAHandler := handlers.NewTwoFAHandler(db)
	subjectHandler := handlers.NewSubjectHandler(db)
	resourceHandler := handlers.NewResourceHandler(db, catalog, store)
	bookHandler := handlers.NewBookHandler(db, catalog, store)
	bookmarkHandler := handlers.NewBookmarkHandler(db)
	uploadHandler := handlers.NewUploadHandler(cfg, db, catalog, store)
	adminHandler := handlers.NewAdminHandler(organizer, statsService, mirrorService)
	dashboardHandler := handlers.NewDashboardHandler(db)
	userHandler := handlers.NewUserHandler(db)
	announcementHandler := handlers.NewAnnouncementHandler(db)

	// API routes
	api := app.Group("/api")

	// Apply rate limiting to API routes (100 requests per minute by default)
	api.Use(middleware.RateLimiter(100, 1*time.Minute))

	// Public routes
	api.Post("/auth/login", authHandler.Login)
	api.Get("/subjects", subjectHandler.List)
	api.Get("/subjects/:id", subjectHandler.Get)
	api.Get("/resources/:category", resourceHandler.List)
	api.Get("/resources/:id/info", resourceHandler.Get)
	api.Post("/resources/:id/view", resourceHandler.View)
	api.Get("/resources/:id/download", resourceHandler.Download)
	api.Get("/announcements", announcementHandler.List)

	// Serve uploaded public files directly
	app.Static("/uploads", cfg.UploadDir)

	// Protected routes (authenticated users)
	protected := api.Group("", middleware.AuthRequired(cfg, db, rdb))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	protected.Get("/2fa/status", twoFAHandler.Status)
	protected.Post("/2fa/setup", twoFAHandler.Setup)
	protected.Post("/2fa/verify", twoFAHandler.Verify)
	protected.Post("/2fa/disable", twoFAHandler.Disable)

	protected.Get("/bookmarks", bookmarkHandler.List)
	protected.Post("/bookmarks", bookmarkHandler.Create)
	protected.Delete("/bookmarks/:id", bookmarkHandler.Delete)

	// Book collection requires an explicit access grant
	books := protected.Group("/books", middleware.BookAccessRequired())
	books.Get("", bookHandler.List)
	books.Get("/:id/download", bookHandler.Download)

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminOnly())
	admin.Get("/dashboard", dashboardHandler.Stats)

	admin.Post("/subjects", subjectHandler.Create)
	admin.Put("/subjects/:id", subjectHandler.Update)
	admin.Delete("/subjects/:id", subjectHandler.Delete)

	admin.Post("/upload", uploadHandler.Upload)
	admin.Post("/organize", adminHandler.OrganizeFiles)
	admin.Get("/storage-stats", adminHandler.StorageStats)
	admin.Post("/mirror", adminHandler.MirrorFiles)

	admin.Get("/users", userHandler.List)
	admin.Post("/users", userHandler.Create)
	admin.Put("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)

	admin.Get("/announcements", announcementHandler.ListAll)
	admin.Post("/announcements", announcementHandler.Create)
	admin.Put("/announcements/:id", announcementHandler.Update)
	admin.Delete("/announcements/:id", announcementHandler.Delete)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		app.Shutdown()
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("Starting StudyHub API server on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		log.Println("Creating default admin user...")

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)

		admin := models.User{
			Email:         "admin@studyhub.local",
			Name:          "Admin User",
			Password:      string(hashedPassword),
			Role:          models.RoleAdmin,
			HasBookAccess: true,
			IsActive:      true,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created successfully (email: admin@studyhub.local, password: admin123)")
		}
	}

	subjects := []models.Subject{
		{Code: "9701", Name: "Chemistry", Level: models.LevelALevel},
		{Code: "9702", Name: "Physics", Level: models.LevelALevel},
		{Code: "9700", Name: "Biology", Level: models.LevelALevel},
		{Code: "9609", Name: "Business", Level: models.LevelALevel},
		{Code: "9618", Name: "IT", Level: models.LevelALevel},
		{Code: "9709", Name: "Mathematics", Level: models.LevelALevel},
		{Code: "0620", Name: "Chemistry", Level: models.LevelIGCSE},
		{Code: "0625", Name: "Physics", Level: models.LevelIGCSE},
		{Code: "0610", Name: "Biology", Level: models.LevelIGCSE},
		{Code: "0450", Name: "Business Studies", Level: models.LevelIGCSE},
	}
	for _, subject := range subjects {
		var existing models.Subject
		if err := db.Where("code = ?", subject.Code).First(&existing).Error; err != nil {
			db.Create(&subject)
		}
	}

	var announcements int64
	db.Model(&models.Announcement{}).Count(&announcements)
	if announcements == 0 {
		db.Create(&models.Announcement{
			Title:    "Welcome to StudyHub!",
			Content:  "This is a platform for accessing exam study resources. Past papers are freely available, while books require login access.",
			Priority: 1,
			IsActive: true,
		})
	}
}
