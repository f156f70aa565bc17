package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/firstclassrl/pixel-pdf-service/app"
	"github.com/firstclassrl/pixel-pdf-service/config"
	"github.com/firstclassrl/pixel-pdf-service/logger"
)

func main() {
	// In production the environment is set directly; .env is for local runs.
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Info(".env file not found, using system environment")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	l := logger.New("pdf-service", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, l)
	if err != nil {
		l.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		l.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
