package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBlogConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadBlogConfigFrom(context.Background(), map[string]string{
		"POSTGRES_DSN": "postgres://blog@localhost/blog",
		"SECRET_KEY":   "s3cr3t",
		"BASE_URL":     "https://blog.example.com/",
	})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "s3cr3t", cfg.TokenSecretKey)
	assert.Equal(t, "https://blog.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "local", cfg.Picture.Store)
	assert.Equal(t, "static/profile_pics", cfg.Picture.Dir)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoadBlogConfigFrom_Overrides(t *testing.T) {
	cfg, err := LoadBlogConfigFrom(context.Background(), map[string]string{
		"POSTGRES_DSN":     "postgres://blog@localhost/blog",
		"SECRET_KEY":       "s3cr3t",
		"TOKEN_SECRET_KEY": "other",
		"REDIS_ADDR":       "localhost:6379",
		"MAIL_SERVER":      "smtp.example.com",
		"PICTURE_STORE":    "S3",
		"RESET_TOKEN_TTL":  "5m",
	})
	require.NoError(t, err)

	assert.Equal(t, "other", cfg.TokenSecretKey)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, "s3", cfg.Picture.Store)
	assert.Equal(t, 5*time.Minute, cfg.ResetTokenTTL)
}

func TestLoadBlogConfigFrom_MissingSecret(t *testing.T) {
	_, err := LoadBlogConfigFrom(context.Background(), map[string]string{
		"POSTGRES_DSN": "postgres://blog@localhost/blog",
	})
	require.Error(t, err)
}
