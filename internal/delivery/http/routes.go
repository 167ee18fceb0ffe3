package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		food := v1.Group("/food")
		{
			food.POST("/search", handler.SearchFoods)
			food.GET("/search/more", handler.ExpandGroup)
			food.GET("/barcode/:code", handler.LookupBarcode)
		}
	}

	return router
}
