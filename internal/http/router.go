package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/era5vis/era5vis/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(analysisUC *usecase.AnalysisUseCase) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(analysisUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	sections := v1.Group("/sections")
	sections.GET("/horizontal", handler.GetHorizontalSection)
	sections.GET("/vertical", handler.GetVerticalSection)

	v1.GET("/soundings", handler.GetSounding)
	v1.GET("/levels", handler.GetLevels)

	// Health check and metrics.
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
