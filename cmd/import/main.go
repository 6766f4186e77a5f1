package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"course_insights/internal/cache"
	"course_insights/internal/config"
	"course_insights/internal/importer"
	"course_insights/internal/logger"
	"course_insights/internal/repository"
	"course_insights/internal/service"
	"course_insights/internal/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "cleaned_data", "directory containing <table>.csv files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *dir, zlog); err != nil {
		zlog.Error("Import failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, dir string, zlog *zap.Logger) error {
	dbPool, err := config.ConnectDB(ctx, cfg.Database, zlog)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if err := config.AutoMigrate(ctx, dbPool, zlog); err != nil {
		return err
	}

	results, err := importer.New(dbPool, importer.CatalogTables, zlog.Named("importer")).ImportDir(ctx, dir)
	if err != nil {
		return err
	}
	replaced := 0
	for _, r := range results {
		if r.Replaced {
			replaced++
		}
	}
	zlog.Info("Catalog import finished", zap.String("dir", dir), zap.Int("tables_replaced", replaced))

	if cfg.Seed.Enabled() {
		// SeedAdmin never issues tokens, so the JWT settings are not validated here.
		authService := service.NewAuthService(repository.NewUserRepository(dbPool), utils.NewJWTUtil(cfg.JWT.Secret, cfg.JWT.Expiration), "", zlog.Named("auth"))
		admin, created, err := authService.SeedAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			zlog.Info("Seed admin created", zap.String("username", admin.Username))
		} else {
			zlog.Info("Seed admin already exists", zap.String("username", admin.Username), zap.String("role", admin.Role))
		}
	}

	if replaced > 0 && cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zlog.Warn("Could not reach Redis to clear the catalog cache; entries expire on their own", zap.Error(err))
			return nil
		}
		defer redisCache.Close()

		catalogService := service.NewCatalogService(repository.NewCatalogRepository(dbPool), redisCache, cfg.Catalog.CacheTTL, zlog.Named("catalog"))
		if err := catalogService.Invalidate(ctx); err != nil {
			zlog.Warn("Failed to clear catalog cache", zap.Error(err))
		} else {
			zlog.Info("Catalog cache cleared")
		}
	}
	return nil
}
