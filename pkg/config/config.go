package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	// Server
	ServerPort    string
	Environment   string
	PublicBaseURL string
	CORSOrigins   []string

	// Database
	DBDriver   string // postgres or mongo
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// JWT
	JWTSecret string
	JWTTTL    time.Duration

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3BucketName       string
	S3UseSSL           string
	MediaMirrorS3      bool

	// Uploads
	UploadsDir     string
	MaxUploadBytes int64

	// Watermark
	WatermarkText         string
	WatermarkPosition     string
	WatermarkFontPath     string
	WatermarkOpacity      float64
	FFmpegPath            string
	WatermarkVideoTimeout time.Duration
	WatermarkQueue        string // memory or rabbitmq
	WatermarkWorkers      int
	WatermarkQueueSize    int

	// Accounts
	AdminEmail string

	// Observability
	SentryDSN string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8001"),
		Environment:   getEnv("APP_ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8001"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "classifieds"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MongoURI:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "classifieds"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:    getEnvDuration("JWT_TTL", 30*24*time.Hour),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "classifieds-media"),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		MediaMirrorS3:      getEnvBool("MEDIA_MIRROR_S3", false),

		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 512<<20)),

		WatermarkText:         getEnv("WATERMARK_TEXT", "classifieds"),
		WatermarkPosition:     getEnv("WATERMARK_POSITION", "center"),
		WatermarkFontPath:     getEnv("WATERMARK_FONT_PATH", ""),
		WatermarkOpacity:      getEnvFloat("WATERMARK_OPACITY", 0.55),
		FFmpegPath:            getEnv("FFMPEG_PATH", "ffmpeg"),
		WatermarkVideoTimeout: getEnvDuration("WATERMARK_VIDEO_TIMEOUT", 10*time.Minute),
		WatermarkQueue:        getEnv("WATERMARK_QUEUE", "memory"),
		WatermarkWorkers:      getEnvInt("WATERMARK_WORKERS", 2),
		WatermarkQueueSize:    getEnvInt("WATERMARK_QUEUE_SIZE", 256),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	return config, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
