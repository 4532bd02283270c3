package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		pantry := v1.Group("/pantry")
		{
			pantry.POST("/parse", handler.ParsePantryInput)
			pantry.POST("/classify", handler.ClassifyIngredient)
			pantry.POST("/interpret", handler.InterpretPantryInput)
		}

		units := v1.Group("/units")
		{
			units.GET("/normalize", handler.NormalizeUnit)
		}

		keywords := v1.Group("/keywords")
		{
			keywords.GET("/status", handler.KeywordStatus)
			keywords.POST("/reload", handler.ReloadKeywords)
		}
	}

	return router
}
