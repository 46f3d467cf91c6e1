package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"revpulse/internal/app"
	"revpulse/internal/config"
	"revpulse/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, logger).Run(ctx); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
