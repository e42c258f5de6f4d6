package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-service/internal/cache"
	"user-service/internal/config"
	"user-service/internal/controllers"
	"user-service/internal/database"
	"user-service/internal/logger"
	"user-service/internal/middleware"
	"user-service/internal/models"
	"user-service/internal/repository"
	"user-service/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLog := logger.New()
	if err := appLog.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	zl := appLog.Log
	defer func() { _ = zl.Sync() }()

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}
	defer db.Close()
	zl.Info("connected to database", zap.String("driver", cfg.DatabaseDriver))

	if cfg.RunMigrations {
		if err := database.RunMigrations(db); err != nil {
			zl.Fatal("failed to run migrations", zap.Error(err))
		}
		zl.Info("database migrations completed")
	}

	// A nil backend turns every cache operation into a no-op
	cacheBackend := newCacheBackend(cfg, zl)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	cardRepo := repository.NewCardInfoRepository(db)

	userCache := cache.NewNamespace[models.UserDto](cache.UserNamespace, cacheBackend, cfg.CacheTTL)
	cardCache := cache.NewNamespace[models.CardInfoDto](cache.CardInfoNamespace, cacheBackend, cfg.CacheTTL)

	// Initialize services
	validator := service.NewValidator()
	userService := service.NewUserService(userRepo, userCache, cardCache, validator, zl, cfg.BcryptCost)
	cardService := service.NewCardInfoService(cardRepo, userRepo, cardCache, validator, zl)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := controllers.NewRouter(controllers.RouterConfig{
		Users:       controllers.NewUserController(userService),
		Cards:       controllers.NewCardInfoController(cardService),
		Internal:    controllers.NewInternalUserController(userService),
		QRCode:      controllers.NewQRCodeController(userService, cfg.FrontendURL),
		RateLimiter: rateLimiter,
		GatewayName: cfg.GatewayServiceName,
		Logger:      zl,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.HeaderInternalCall, middleware.HeaderSourceService},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
	zl.Info("server stopped")
}

// newCacheBackend picks the configured backend. If Redis is unreachable the
// service falls back to the in-process cache rather than refusing to start.
func newCacheBackend(cfg *config.Config, zl *zap.Logger) cache.Cache {
	switch cfg.CacheBackend {
	case "none":
		zl.Warn("caching disabled")
		return nil
	case "memory":
		zl.Info("using in-memory cache", zap.Int("capacity", cfg.CacheCapacity))
		return cache.NewMemoryCache(cfg.CacheCapacity, cfg.CacheTTL)
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		zl.Warn("failed to connect to Redis, falling back to in-memory cache", zap.Error(err))
		return cache.NewMemoryCache(cfg.CacheCapacity, cfg.CacheTTL)
	}
	zl.Info("connected to Redis cache")
	return redisCache
}
