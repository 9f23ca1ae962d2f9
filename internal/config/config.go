package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PresignTTL      time.Duration
}

// Enabled reports whether full-resolution keys should be presigned against a bucket.
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	SessionTTL    time.Duration
	DownloadTTL   time.Duration
	RevocationTTL time.Duration
}

type EmailConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
}

type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

type Config struct {
	Port          string
	Env           string
	DatabaseURL   string
	FrontendURL   string
	CORSOrigins   string
	RateLimitMax  int
	WatermarkText string
	Redis         RedisConfig
	JWT           JWTConfig
	S3            S3Config
	Email         EmailConfig
	Admin         AdminConfig
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "production"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		RateLimitMax:  getEnvInt("RATE_LIMIT_MAX", 60),
		WatermarkText: getEnv("WATERMARK_TEXT", "©KOA"),
	}

	cfg.Redis = RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.JWT = JWTConfig{
		Secret:      os.Getenv("JWT_SECRET"),
		Issuer:      getEnv("JWT_ISSUER", "koa-photos"),
		SessionTTL:  getEnvDuration("JWT_SESSION_TTL", 7*24*time.Hour),
		DownloadTTL: getEnvDuration("DOWNLOAD_TOKEN_TTL", 4*time.Hour),
	}
	cfg.JWT.RevocationTTL = cfg.JWT.SessionTTL

	cfg.S3 = S3Config{
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		Region:          getEnv("S3_REGION", "auto"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Bucket:          os.Getenv("S3_BUCKET"),
		PresignTTL:      getEnvDuration("S3_PRESIGN_TTL", 15*time.Minute),
	}

	cfg.Email = EmailConfig{
		APIKey:      os.Getenv("RESEND_API_KEY"),
		FromAddress: getEnv("EMAIL_FROM_ADDRESS", "no-reply@koaestudio.com"),
		FromName:    getEnv("EMAIL_FROM_NAME", "KOA Estudio"),
	}

	cfg.Admin = AdminConfig{
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
		FullName: getEnv("ADMIN_NAME", "Administrator"),
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
