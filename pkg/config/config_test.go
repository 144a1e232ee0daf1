package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("DB_HOST", "db")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("WATERMARK_POSITION", "bottom-right")
	t.Setenv("WATERMARK_WORKERS", "5")
	t.Setenv("MEDIA_MIRROR_S3", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "cache", cfg.RedisHost)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "bottom-right", cfg.WatermarkPosition)
	assert.Equal(t, 5, cfg.WatermarkWorkers)
	assert.True(t, cfg.MediaMirrorS3)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("WATERMARK_WORKERS", "not-a-number")
	t.Setenv("WATERMARK_VIDEO_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "8001", cfg.ServerPort)
	assert.Equal(t, 2, cfg.WatermarkWorkers)
	assert.Equal(t, 10*time.Minute, cfg.WatermarkVideoTimeout)
	assert.Equal(t, "memory", cfg.WatermarkQueue)
	assert.Equal(t, int64(512<<20), cfg.MaxUploadBytes)
}
