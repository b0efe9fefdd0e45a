// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"

	DiskLocal = "local"
	DiskS3    = "s3"
)

type Config struct {
	Backend         string
	PlatformURL     string
	PlatformToken   string
	JWTSecret       string
	JWTIssuer       string
	SessionToken    string
	DatabaseURL     string
	MediaDisk       string
	LocalMediaPath  string
	LocalMediaURL   string
	S3Bucket        string
	S3Region        string
	S3BaseURL       string
	AWSAccessKey    string
	AWSSecretKey    string
	SyncConcurrency int
	MaxImageWidth   int
	LogLevel        string
}

// Load reads the configuration. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Backend:        strings.ToLower(getEnv("ITEMMEDIA_BACKEND", BackendHTTP)),
		PlatformURL:    getEnv("PLATFORM_URL", "http://localhost:8081"),
		PlatformToken:  getEnv("PLATFORM_TOKEN", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTIssuer:      getEnv("JWT_ISSUER", ""),
		SessionToken:   getEnv("ITEMMEDIA_SESSION", ""),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=itemmedia port=5432 sslmode=disable"),
		MediaDisk:      strings.ToLower(getEnv("MEDIA_DISK", DiskLocal)),
		LocalMediaPath: getEnv("LOCAL_MEDIA_PATH", "./media"),
		LocalMediaURL:  getEnv("LOCAL_MEDIA_URL", "http://localhost:8081/media/"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3BaseURL:      getEnv("S3_BASE_URL", ""),
		AWSAccessKey:   getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.SyncConcurrency, err = getEnvInt("SYNC_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.MaxImageWidth, err = getEnvInt("MAX_IMAGE_WIDTH", 1920); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option combinations
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		if c.PlatformURL == "" {
			return fmt.Errorf("PLATFORM_URL is required for the http backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown ITEMMEDIA_BACKEND %q", c.Backend)
	}

	switch c.MediaDisk {
	case DiskLocal:
	case DiskS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when MEDIA_DISK=s3")
		}
	default:
		return fmt.Errorf("unknown MEDIA_DISK %q", c.MediaDisk)
	}

	if c.SyncConcurrency < 1 {
		return fmt.Errorf("SYNC_CONCURRENCY must be at least 1")
	}
	if c.MaxImageWidth < 0 {
		return fmt.Errorf("MAX_IMAGE_WIDTH must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
