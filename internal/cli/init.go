// Package cli consolidates the initialization shared by cmd/contas and
// cmd/contas-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"contas/internal/config"
	"contas/internal/log"
)

// Setup loads the .env file, configures logging and loads validated
// configuration. It exits the process when the configuration is broken.
func Setup(component string) (*log.Logger, *config.Config) {
	// .env is for local development; production sets real env vars.
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: component})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return logger, cfg
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
