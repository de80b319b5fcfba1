package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/xamad/smartfridge/internal/config"
	"github.com/xamad/smartfridge/internal/database"
	"github.com/xamad/smartfridge/internal/handlers"
	"github.com/xamad/smartfridge/internal/middleware"
	"github.com/xamad/smartfridge/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    12 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Device-Key",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	limiter := middleware.NewRateLimiter(rate.Limit(5), 10)
	go limiter.CleanupLoop()
	app.Use(limiter.Handler())

	// Initialize S3 storage for receipt images when configured
	var storageService *services.StorageService
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		storageService, err = services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
			storageService = nil
		} else if err := storageService.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
		}
	} else {
		log.Println("S3 storage not configured, receipt image archiving disabled")
	}

	// Initialize OCR and the receipt parsing pipeline
	ocrService := services.NewOCRService(cfg.OCRLanguages)
	receiptParser := services.NewReceiptParser()

	// Create handlers with dependencies
	authHandler := handlers.NewAuthHandler(cfg)
	productHandler := handlers.NewProductHandler(db, receiptParser, storageService)
	receiptHandler := handlers.NewReceiptHandler(cfg, ocrService, receiptParser, db, storageService)
	shoppingHandler := handlers.NewShoppingHandler(db)
	statsHandler := handlers.NewStatsHandler(db, cfg)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	api.Post("/auth/login", authHandler.Login)

	// Device routes (scanner hardware)
	device := middleware.DeviceAuth(cfg)
	api.Post("/product", device, productHandler.HandleScan)
	api.Post("/ocr", device, receiptHandler.RecognizeExpiry)
	api.Post("/receipt", device, receiptHandler.ProcessReceipt)

	// Read routes (public)
	api.Get("/inventory", productHandler.GetInventory)
	api.Get("/expiring", productHandler.GetExpiring)
	api.Get("/shopping", shoppingHandler.GetShoppingList)
	api.Get("/stats", statsHandler.GetStats)
	api.Get("/products/:id/image", productHandler.GetProductImage)

	// Web UI routes (authenticated)
	auth := middleware.AuthRequired(cfg)
	api.Post("/products", auth, productHandler.CreateProduct)
	api.Put("/products/:id", auth, productHandler.UpdateProduct)
	api.Delete("/products/:id", auth, productHandler.DeleteProduct)
	api.Post("/products/:id/image", auth, productHandler.UploadProductImage)
	api.Get("/scans", auth, productHandler.GetScanHistory)
	api.Post("/shopping", auth, shoppingHandler.CreateShoppingItem)
	api.Delete("/shopping/:id", auth, shoppingHandler.DeleteShoppingItem)

	// Daily expiry alert job
	emailService := services.NewEmailService(cfg)
	expiryChecker := services.NewExpiryChecker(db, emailService, cfg.ExpiryAlertDays, cfg.ExpiryCheckHour)
	go expiryChecker.Run(context.Background())

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
