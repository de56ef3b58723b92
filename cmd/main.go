package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"volunteer-match/internal/config"
	"volunteer-match/internal/infrastructure/cache"
	"volunteer-match/internal/infrastructure/database/memory"
	"volunteer-match/internal/infrastructure/database/postgres"
	"volunteer-match/internal/logger"
	"volunteer-match/internal/metrics"
	"volunteer-match/internal/routes"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env, cfg.Server.LogLevel); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	deps := routes.Dependencies{Metrics: metrics.New()}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		deps.Users = store.Users()
		deps.Sessions = store.Sessions()
		deps.Orders = store.Orders()
		deps.Database = store
		logger.Warn("Using in-memory store; data is lost on restart")
	default:
		db, err := postgres.NewDB(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}()
		deps.Users = postgres.NewUserRepository(db)
		deps.Sessions = postgres.NewSessionRepository(db)
		deps.Orders = postgres.NewOrderRepository(db)
		deps.Database = db
	}

	if cfg.Redis.Addr != "" {
		sessionCache := cache.NewSessionCache(cache.NewClient(cfg.Redis), cfg.Redis.SessionTTL)
		defer func() {
			if err := sessionCache.Close(); err != nil {
				logger.Error("Failed to close redis connection", zap.Error(err))
			}
		}()
		deps.SessionCache = sessionCache
		deps.CacheHealth = sessionCache
		logger.Info("Session cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	router := routes.SetupRoutes(ctx, cfg, deps)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8000"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}
