package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lunashop/storefront/internal/api/handlers"
	"github.com/lunashop/storefront/internal/api/middleware"
	"github.com/lunashop/storefront/internal/checkout"
	"github.com/lunashop/storefront/internal/config"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, sessions *checkout.Manager, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.CartIDHeader)
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.CartIDMiddleware())
	{
		v1.GET("/cart", handlers.HandleGetCart(sessions, logger))
		v1.POST("/cart/items", handlers.HandleAddItem(sessions, logger))
		v1.PATCH("/cart/items/quantity", handlers.HandleUpdateQuantity(sessions, logger))
		v1.DELETE("/cart/items", handlers.HandleRemoveItem(sessions, logger))
		v1.DELETE("/cart", handlers.HandleClearCart(sessions, logger))

		v1.POST("/checkout/submit", handlers.HandleSubmit(sessions, logger))
		v1.POST("/checkout/payment-result", handlers.HandlePaymentResult(sessions, logger))
		v1.GET("/checkout/status", handlers.HandleCheckoutStatus(sessions, logger))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
