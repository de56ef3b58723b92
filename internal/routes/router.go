package routes

import (
	"context"
	"volunteer-match/internal/config"
	"volunteer-match/internal/delivery/http/handler"
	domainOrder "volunteer-match/internal/domain/order"
	domainUser "volunteer-match/internal/domain/user"
	"volunteer-match/internal/logger"
	"volunteer-match/internal/metrics"
	"volunteer-match/internal/middleware"
	"volunteer-match/internal/usecase/order"
	"volunteer-match/internal/usecase/user"

	"github.com/gin-gonic/gin"
)

// Dependencies are the backends the router wires into services.
// SessionCache and CacheHealth may be nil when Redis is not configured.
type Dependencies struct {
	Users        domainUser.Repository
	Sessions     domainUser.SessionRepository
	Orders       domainOrder.Repository
	SessionCache domainUser.SessionCache
	Database     handler.HealthChecker
	CacheHealth  handler.HealthChecker
	Metrics      *metrics.Metrics
}

// SetupRoutes builds the engine. ctx bounds background work started by the
// middleware.
func SetupRoutes(ctx context.Context, cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order: recovery, request ID, logging, metrics, security headers, CORS, request size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	if deps.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(deps.Metrics))
	}
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit))

	userService := user.NewService(deps.Users, deps.Sessions, deps.SessionCache, cfg, deps.Metrics)
	orderService := order.NewService(deps.Orders, cfg, deps.Metrics)

	healthHandler := handler.NewHealthHandler(deps.Database, deps.CacheHealth)
	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group(cfg.Server.BasePath)
	{
		healthHandler.RegisterRoutes(api)
		userHandler.RegisterRoutes(api)
		orderHandler.RegisterRoutes(api)
		authHandler.RegisterRoutes(api)

		session := api.Group("")
		session.Use(middleware.SessionMiddleware(userService))
		{
			authHandler.RegisterSessionRoutes(session)
		}
	}

	logger.Info("All routes initialized")
	return router
}
