package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Service configuration
	ServiceName   string
	ServicePort   string
	SessionSecret string
	SessionTTL    time.Duration

	// State store backend: "memory" or "redis"
	StoreBackend string

	// Redis configuration (session state backend)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Preview blob backend: "memory" or "minio"
	BlobBackend string

	// MinIO configuration (preview bytes backend)
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOBucketName string
	MinIOUseSSL     bool

	// Preview thumbnail bound (pixels)
	PreviewMaxWidth int

	// Simulated timing. The upload progress animation and the login delay are
	// deliberate simulations; tests shrink these to keep runs fast.
	UploadTick    time.Duration
	UploadStagger time.Duration
	CommitDelay   time.Duration
	ClearDelay    time.Duration
	LoginDelay    time.Duration

	// Jaeger configuration
	JaegerEndpoint string
}

// LoadConfig loads configuration from environment variables with sensible defaults
func LoadConfig() (*Config, error) {
	config := &Config{
		// Service defaults
		ServiceName:   getEnv("SERVICE_NAME", "panigaleclub-service"),
		ServicePort:   getEnv("SERVICE_PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", "panigale-dev-secret"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 12*time.Hour),

		// State store defaults
		StoreBackend: getEnv("STORE_BACKEND", "memory"),

		// Redis defaults
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Blob store defaults
		BlobBackend: getEnv("BLOB_BACKEND", "memory"),

		// MinIO defaults
		MinIOEndpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucketName: getEnv("MINIO_BUCKET_NAME", "panigaleclub-previews"),
		MinIOUseSSL:     getEnvAsBool("MINIO_USE_SSL", false),

		PreviewMaxWidth: getEnvAsInt("PREVIEW_MAX_WIDTH", 640),

		// Simulation defaults: 300ms ticks staggered 50ms per entry, 500ms
		// before commit, 1.5s before the batch clears, 1s login delay.
		UploadTick:    getEnvAsDuration("UPLOAD_TICK", 300*time.Millisecond),
		UploadStagger: getEnvAsDuration("UPLOAD_STAGGER", 50*time.Millisecond),
		CommitDelay:   getEnvAsDuration("UPLOAD_COMMIT_DELAY", 500*time.Millisecond),
		ClearDelay:    getEnvAsDuration("UPLOAD_CLEAR_DELAY", 1500*time.Millisecond),
		LoginDelay:    getEnvAsDuration("LOGIN_DELAY", time.Second),

		// Jaeger defaults; empty disables tracing export
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
	}

	if config.StoreBackend != "memory" && config.StoreBackend != "redis" {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (want memory or redis)", config.StoreBackend)
	}
	if config.BlobBackend != "memory" && config.BlobBackend != "minio" {
		return nil, fmt.Errorf("invalid BLOB_BACKEND %q (want memory or minio)", config.BlobBackend)
	}

	return config, nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
