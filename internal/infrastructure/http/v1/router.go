// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"shopledger/internal/domain/auth"
	"shopledger/internal/domain/dashboard"
	"shopledger/internal/domain/product"
	"shopledger/internal/domain/sales"
	"shopledger/internal/infrastructure/http/v1/handlers"
	"shopledger/internal/infrastructure/http/v1/middleware"
	"shopledger/internal/infrastructure/storage/postgres"
	"shopledger/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for the login endpoint
	AuthService *auth.Service

	// ProductService for product CRUD
	ProductService *product.Service

	// SalesRecorder for sale recording and the ledger
	SalesRecorder *sales.Recorder

	// DashboardService for aggregation endpoints
	DashboardService *dashboard.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// API v1
	api := router.Group("/api/v1")
	{
		// Public auth endpoint
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		api.POST("/auth/login", authHandler.Login)

		// Protected endpoints
		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		productHandler := handlers.NewProductHandler(baseHandler, cfg.ProductService)
		productHandler.RegisterRoutes(protected.Group("/products"))

		salesHandler := handlers.NewSalesHandler(baseHandler, cfg.SalesRecorder)
		salesHandler.RegisterRoutes(protected.Group("/sales"))

		dashboardHandler := handlers.NewDashboardHandler(baseHandler, cfg.DashboardService)
		dashboardHandler.RegisterRoutes(protected.Group("/dashboard"))
	}

	return router
}
