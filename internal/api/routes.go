package api

import (
	"context"
	"time"

	"github.com/RishiKendai/codeplag/internal/config"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(ctx context.Context, cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()

	// Create handler
	handler := NewHandler(cfg, svc)

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))
	rateLimiter.StartSweeper(ctx, 10*time.Minute, time.Hour)

	// Middleware
	router.Use(gin.Recovery())
	router.Use(MetricsMiddleware())
	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/compare", handler.Compare)
		api.POST("/submissions", handler.Submit)
		api.POST("/compute", handler.Compute)
		api.GET("/sessions/:id/status", handler.SessionStatus)
		api.GET("/sessions/:id/report", handler.SessionReport)
		api.GET("/corpora/:corpusId/normalized", handler.NormalizedCopy)
	}

	return router
}
