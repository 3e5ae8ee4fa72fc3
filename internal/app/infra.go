package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/internal/repository"
)

type Infra struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// OpenInfra connects to Postgres and, when configured, Redis. The schema is
// migrated when migrate is set.
func OpenInfra(ctx context.Context, cfg *config.BlogConfig, log zerolog.Logger, migrate bool) (*Infra, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if migrate {
		if err := repository.Migrate(db.WithContext(ctx)); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	log.Info().Bool("migrated", migrate).Msg("database ready")

	infra := &Infra{DB: db}
	if cfg.Redis.Enabled() {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = client
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis ready")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, sessions are kept in memory")
	}
	return infra, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if sqlDB, err := i.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
