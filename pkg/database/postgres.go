package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/koaestudio/koa-photos-backend/internal/config"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/pkg/bcrypt"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens Postgres from DATABASE_URL. A "sqlite:" URL opens a local
// SQLite file instead, for development without a database server.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	if cfg.IsDevelopment() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	if path, ok := strings.CutPrefix(cfg.DatabaseURL, "sqlite:"); ok {
		return OpenSQLite(path, gormCfg)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database. ":memory:" databases are pinned to one
// connection so every query sees the same data.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AdminUser{},
		&models.Event{},
		&models.Photo{},
		&models.Order{},
		&models.DownloadLog{},
	)
}

// SeedAdmin creates the bootstrap administrator if it does not exist yet.
func SeedAdmin(ctx context.Context, db *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.AdminUser{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	user := &models.AdminUser{
		FullName: admin.FullName,
		Email:    admin.Email,
		Password: hash,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	log.Info("seeded admin user", zap.String("email", admin.Email))
	return nil
}
