package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/container"
	"github.com/gdugdh24/yuelao-backend/internal/infrastructure/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg)
	slog.SetDefault(log)

	// Initialize dependency injection container
	app, err := container.NewContainer(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.Any("error", err))
		os.Exit(1)
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := app.Server.Start(); err != nil {
			log.Error("server error", slog.Any("error", err))
			quit <- syscall.SIGTERM
		}
	}()

	log.Info("server started", slog.String("addr", app.Server.Addr()), slog.String("archive", cfg.Archive.Driver))

	// Wait for interrupt signal
	<-quit

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	exitCode := 0
	if err := app.Server.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", slog.Any("error", err))
		exitCode = 1
	}

	if err := app.Close(); err != nil {
		log.Error("error closing application", slog.Any("error", err))
		exitCode = 1
	}

	log.Info("server exited")
	os.Exit(exitCode)
}
