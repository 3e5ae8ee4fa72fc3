package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// GlobalConfig holds the settings every binary in the repository shares.
type GlobalConfig struct {
	ServerPort string `env:"SERVER_PORT, default=8080"`
	Env        string `env:"APP_ENV, default=development"`
	LogLevel   string `env:"LOG_LEVEL, default=info"`
}

func (c GlobalConfig) IsProduction() bool {
	return c.Env == "production"
}

// Process decodes environment variables into any envconfig-tagged struct.
func Process(ctx context.Context, target any) error {
	if err := envconfig.Process(ctx, target); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// ProcessFrom decodes from an explicit lookuper, used by tests.
func ProcessFrom(ctx context.Context, target any, env map[string]string) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   target,
		Lookuper: envconfig.MapLookuper(env),
	}); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}
