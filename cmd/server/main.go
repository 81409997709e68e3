package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brewbot/brewbot-backend/config"
	"github.com/brewbot/brewbot-backend/internal/app/controller"
	"github.com/brewbot/brewbot-backend/internal/app/service"
	"github.com/brewbot/brewbot-backend/internal/app/store"
	"github.com/brewbot/brewbot-backend/internal/router"
	"github.com/brewbot/brewbot-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting BrewBot Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if cfg.Maps.APIKey == "" {
		logger.Warn("GOOGLE_MAPS_API_KEY is not set; nearby search and place lookups will fail")
	}
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set; chat will fail")
	}

	// Initialize process-wide stores
	posStore := store.NewPOSStore()
	competitorStore := store.NewCompetitorStore()

	// Initialize services
	ingestService := service.NewIngestService(posStore)
	placesService := service.NewPlacesService(cfg.Maps.APIKey, cfg.Maps.Timeout, competitorStore)
	findPlacesService := service.NewFindPlacesService(cfg.Maps.APIKey, cfg.Maps.Timeout)
	reportService := service.NewReportService(posStore, competitorStore)
	chatService := service.NewChatService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)

	// Initialize controllers
	ingestController := controller.NewIngestController(ingestService)
	benchmarkController := controller.NewBenchmarkController(placesService, reportService)
	placesController := controller.NewPlacesController(findPlacesService)
	chatController := controller.NewChatController(chatService)

	// Setup router
	r := router.NewRouter(
		ingestController,
		benchmarkController,
		placesController,
		chatController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
