package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseFile string
	LogLevel     string

	// Public origin used when building share URLs, e.g. https://mypetid.app
	PublicBaseURL string

	// S3 / MinIO
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Auth
	JWTSecret string

	SignedURLTTL time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseFile:      getEnv("DATABASE_FILE", "data/mypetid.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "pet-documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		JWTSecret:         getEnv("JWT_SECRET", ""),
		SignedURLTTL:      24 * time.Hour,
	}

	if v := os.Getenv("SIGNED_URL_TTL_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SIGNED_URL_TTL_SECONDS: %w", err)
		}
		cfg.SignedURLTTL = time.Duration(secs) * time.Second
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
