package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"seungpyo.lee/PersonalBlog/internal/app"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.LoadBlogConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	lg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	application, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize app")
	}

	go func() {
		if err := application.Run(); err != nil {
			lg.Fatal().Err(err).Msg("http server failed")
		}
	}()

	lg.Info().Str("port", cfg.ServerPort).Str("env", cfg.Env).Msg("blog started")

	<-ctx.Done()

	lg.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		lg.Fatal().Err(err).Msg("graceful shutdown failed")
	}

	lg.Info().Msg("blog stopped cleanly")
}
