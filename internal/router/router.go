package router

import (
	"github.com/gin-gonic/gin"

	"github.com/brewbot/brewbot-backend/config"
	"github.com/brewbot/brewbot-backend/internal/app/controller"
	"github.com/brewbot/brewbot-backend/internal/middleware"
)

type Router struct {
	ingestController    *controller.IngestController
	benchmarkController *controller.BenchmarkController
	placesController    *controller.PlacesController
	chatController      *controller.ChatController
	config              *config.Config
}

func NewRouter(
	ingestController *controller.IngestController,
	benchmarkController *controller.BenchmarkController,
	placesController *controller.PlacesController,
	chatController *controller.ChatController,
	cfg *config.Config,
) *Router {
	return &Router{
		ingestController:    ingestController,
		benchmarkController: benchmarkController,
		placesController:    placesController,
		chatController:      chatController,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	ingest := router.Group("/ingest")
	{
		ingest.POST("/pos", r.ingestController.UploadPOS)
	}

	benchmark := router.Group("/benchmark")
	{
		benchmark.GET("/nearby", r.benchmarkController.Nearby)
		benchmark.GET("/report", r.benchmarkController.Report)
	}

	findPlaces := router.Group("/find_places")
	{
		findPlaces.GET("/places/autocomplete", r.placesController.Autocomplete)
		findPlaces.GET("/places/details", r.placesController.Details)
	}

	ai := router.Group("/ai")
	{
		ai.POST("/chat", r.chatController.Chat)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
