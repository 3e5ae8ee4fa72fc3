package config

import (
	"context"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"seungpyo.lee/PersonalBlog/pkg/config"
)

type BlogConfig struct {
	config.GlobalConfig

	PostgresDSN    string `env:"POSTGRES_DSN, required"`
	SecretKey      string `env:"SECRET_KEY, required"`
	TokenSecretKey string `env:"TOKEN_SECRET_KEY"`
	BaseURL        string `env:"BASE_URL, default=http://localhost:8080"`

	SessionTTL    time.Duration `env:"SESSION_TTL, default=24h"`
	RememberTTL   time.Duration `env:"REMEMBER_TTL, default=720h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=30m"`
	CookieSecure  bool          `env:"COOKIE_SECURE, default=false"`

	Redis   RedisConfig
	Mail    MailConfig
	Picture PictureConfig
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type MailConfig struct {
	Server   string `env:"MAIL_SERVER"`
	Port     int    `env:"MAIL_PORT, default=587"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	Sender   string `env:"MAIL_SENDER, default=noreply@localhost"`
}

func (c MailConfig) Enabled() bool { return c.Server != "" }

type PictureConfig struct {
	Store string `env:"PICTURE_STORE, default=local"`
	Dir   string `env:"PICTURE_DIR, default=static/profile_pics"`

	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// LoadBlogConfig reads .env (when present) and the process environment.
func LoadBlogConfig(ctx context.Context) (*BlogConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment variables")
	}
	var cfg BlogConfig
	if err := config.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

// LoadBlogConfigFrom decodes from a fixed map instead of the environment.
func LoadBlogConfigFrom(ctx context.Context, env map[string]string) (*BlogConfig, error) {
	var cfg BlogConfig
	if err := config.ProcessFrom(ctx, &cfg, env); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *BlogConfig) normalize() {
	if c.TokenSecretKey == "" {
		c.TokenSecretKey = c.SecretKey
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	c.Picture.Store = strings.ToLower(c.Picture.Store)
}
