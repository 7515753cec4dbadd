package main

import (
	"context"
	"log"

	"github.com/apptrack/apptrack/internal/auth"
	"github.com/apptrack/apptrack/internal/config"
	"github.com/apptrack/apptrack/internal/database"
	"github.com/apptrack/apptrack/internal/handlers"
	"github.com/apptrack/apptrack/internal/services"
	"github.com/apptrack/apptrack/internal/sheet"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	_ = godotenv.Load()
	cfg := config.Load()

	// 2. Mirror Store (optional)
	var mirror *services.MirrorService
	if cfg.DatabaseDSN != "" {
		db, err := database.Connect(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		mirror = services.NewMirrorService(db)
	} else {
		log.Println("⚠️  DATABASE_DSN not set. Running sheet-only (no mirror, no sync).")
	}

	// 3. Worksheet Backend
	ctx := context.Background()
	var ws sheet.Worksheet
	switch cfg.SheetBackend {
	case "xlsx":
		x, err := sheet.NewXLSXSheet(cfg.XLSXPath, cfg.WorksheetName)
		if err != nil {
			log.Fatal("Failed to open workbook:", err)
		}
		log.Println("✅ Local workbook ready at", cfg.XLSXPath)
		ws = x
	default:
		httpClient, err := auth.SheetsClient(ctx, cfg.CredentialsFile)
		if err != nil {
			log.Fatal("Failed to load Sheets credentials:", err)
		}
		gs, err := sheet.NewGoogleSheet(ctx, httpClient, cfg.SpreadsheetID, cfg.WorksheetName)
		if err != nil {
			log.Fatal("Failed to create Sheets client:", err)
		}
		if err := gs.Ping(ctx); err != nil {
			log.Fatal("Sheets ping failed:", err)
		}
		log.Println("✅ Google Sheets connected successfully.")
		ws = gs
	}

	// 4. Initialize Core Services (Dependencies)
	cache := sheet.NewCache(ws, cfg.CacheTTL)
	llmService := services.NewLLMService(cfg.GeminiAPIKey, cfg.GeminiModel)
	matcherService := services.NewMatcherService()
	trackerService := services.NewTrackerService(llmService, ws, cache, matcherService, mirror)

	// 5. Background Sheet Sync
	syncService := services.NewSyncService(ws, mirror, cfg.SyncInterval)
	syncService.StartWatcher()

	// 6. Initialize Handlers
	trackerHandler := handlers.NewTrackerHandler(trackerService, cache, mirror)

	// 7. Setup Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 8. Define Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/updates", trackerHandler.SubmitUpdate)
		api.GET("/applications", trackerHandler.Dashboard)
		api.GET("/events", trackerHandler.Events)
	}

	log.Println("🚀 Server starting on port " + cfg.Port + "...")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
