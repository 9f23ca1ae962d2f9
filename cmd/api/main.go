package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/koaestudio/koa-photos-backend/internal/config"
	"github.com/koaestudio/koa-photos-backend/internal/server"
	"github.com/koaestudio/koa-photos-backend/pkg/database"
	"github.com/koaestudio/koa-photos-backend/pkg/email"
	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"github.com/koaestudio/koa-photos-backend/pkg/logger"
	"github.com/koaestudio/koa-photos-backend/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	// Initialize database
	db, err := database.NewDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		zapLogger.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := database.SeedAdmin(ctx, db, cfg.Admin, zapLogger); err != nil {
		zapLogger.Fatal("failed to seed admin user", zap.Error(err))
	}

	// Visitor state
	var store kv.Store = kv.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client, err := kv.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		store = kv.NewRedisStore(client)
	} else {
		zapLogger.Warn("REDIS_ADDR not set, visitor state is kept in memory")
	}

	// Storage
	var resolver storage.URLResolver = storage.PassthroughResolver{}
	if cfg.S3.Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			zapLogger.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
		resolver = s3Storage
	}

	emailService := email.NewEmailService(cfg.Email, cfg.FrontendURL, zapLogger)
	if !emailService.Enabled() {
		zapLogger.Warn("RESEND_API_KEY not set, emails are disabled")
	}

	app := server.NewFiberApp(cfg, server.Dependencies{
		DB:       db,
		KV:       store,
		Resolver: resolver,
		Email:    emailService,
		Logger:   zapLogger,
	})

	zapLogger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
