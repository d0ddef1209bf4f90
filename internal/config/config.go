// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Remote API
	APIBaseURL string `validate:"required,url"`
	APIToken   string

	// Event under analysis
	EventID int64 `validate:"required,gt=0"`

	// ClickHouse
	ClickHouseAddr string `validate:"required"`
	ClickHouseDB   string `validate:"required"`

	// MinIO report storage
	MinIOEndpoint  string `validate:"required"`
	MinIOAccessKey string `validate:"required"`
	MinIOSecretKey string `validate:"required"`
	MinIOBucket    string `validate:"required"`
	MinIOUseSSL    bool

	// HTTP API
	ListenAddr string `validate:"required"`

	// Refresh scheduling
	NQRPollInterval      time.Duration `validate:"gt=0"`
	ActivityPollInterval time.Duration `validate:"gt=0"`
	CacheTTL             time.Duration
}

// Load reads the environment into a validated Config. A .env file is
// honored when present and ignored otherwise.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: getEnv("ZEENOPAY_API_URL", "https://auth.zeenopay.com"),
		APIToken:   getEnv("ZEENOPAY_API_TOKEN", ""),

		EventID: getEnvInt64("EVENT_ID", 0),

		ClickHouseAddr: getEnv("CLICKHOUSE_ADDR", "127.0.0.1:9000"),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "default"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9001"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "vote-reports"),
		MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		NQRPollInterval:      getEnvDuration("NQR_POLL_INTERVAL", 15*time.Minute),
		ActivityPollInterval: getEnvDuration("ACTIVITY_POLL_INTERVAL", 5*time.Minute),
		CacheTTL:             getEnvDuration("CACHE_TTL", time.Minute),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
