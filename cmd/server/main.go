package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"course_insights/internal/cache"
	"course_insights/internal/config"
	"course_insights/internal/handler"
	"course_insights/internal/logger"
	"course_insights/internal/middleware"
	"course_insights/internal/repository"
	"course_insights/internal/service"
	"course_insights/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid server config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool, zlog); err != nil {
		zlog.Fatal("Failed to auto-migrate database", zap.Error(err))
	}

	// --- Catalog cache ---
	var catalogCache cache.Cache = cache.Nop{}
	if cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zlog.Warn("Redis unavailable, serving catalog without cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer redisCache.Close()
			catalogCache = redisCache
			zlog.Info("Catalog cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Catalog.CacheTTL))
		}
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.Expiration)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	scheduleRepo := repository.NewScheduleRepository(dbPool)
	catalogRepo := repository.NewCatalogRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, cfg.App.InitialAdmin, zlog.Named("auth"))
	scheduleService := service.NewScheduleService(userRepo, scheduleRepo, zlog.Named("schedule"))
	catalogService := service.NewCatalogService(catalogRepo, catalogCache, cfg.Catalog.CacheTTL, zlog.Named("catalog"))

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, zlog)
	scheduleHandler := handler.NewScheduleHandler(scheduleService, zlog)
	catalogHandler := handler.NewCatalogHandler(catalogService, zlog)

	// --- Setup Gin Router ---
	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog.Named("http")))
	router.Use(middleware.CORS())

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, authService, zlog.Named("auth"))
	adminRoleMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW, adminRoleMW)
	scheduleHandler.RegisterScheduleRoutes(apiGroup, jwtAuthMW)
	catalogHandler.RegisterCatalogRoutes(apiGroup)

	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	stop()
	zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	zlog.Info("Server exiting")
}
