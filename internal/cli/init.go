// Package cli provides common CLI initialization and rendering utilities.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"spese/internal/backend"
	"spese/internal/config"
	applog "spese/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger at the configured level and
// sets it as the default slog logger.
func SetupLogger(level string) (*applog.Logger, error) {
	lvl, err := applog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := applog.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = applog.ComponentCLI

	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger, nil
}

// InitBackend wires the store, notifier and service described by cfg.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.Result, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize backend",
			applog.FieldError, err,
			applog.FieldBackend, cfg.DataBackend)
		return nil, fmt.Errorf("initialize backend: %w", err)
	}
	return result, nil
}
