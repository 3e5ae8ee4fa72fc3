// Package app builds the blog server from configuration.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/internal/handler"
)

type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func New(ctx context.Context, cfg *config.BlogConfig, log zerolog.Logger) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	infra, err := OpenInfra(ctx, cfg, log, true)
	if err != nil {
		return nil, err
	}
	svc, err := NewServices(ctx, infra, cfg, log)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	router, err := handler.NewRouter(handler.Deps{
		Auth:       svc.Auth,
		Accounts:   svc.Accounts,
		Posts:      svc.Posts,
		Sessions:   svc.Sessions,
		Log:        log,
		PictureDir: cfg.Picture.Dir,
	})
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	return &App{
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		cleanup: infra.Close,
	}, nil
}

// Run blocks until the server stops. A graceful shutdown is not an error.
func (a *App) Run() error {
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
