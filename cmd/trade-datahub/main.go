package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/djibygass/trade-datahub/internal/bootstrap"
	"github.com/djibygass/trade-datahub/pkg/config"
	"github.com/djibygass/trade-datahub/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.Level(cfg.App.LogLevel))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	b := (&bootstrap.Bootstrap{}).Init(bootstrap.BootstrapConfig{
		Config: cfg,
		Logger: appLogger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := b.Engine.Start(ctx); err != nil {
		appLogger.Error(err, logger.Field{Key: "action", Value: "engine_start"})
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- b.Server.Start(ctx)
	}()

	appLogger.Info("trade-datahub started",
		logger.Field{Key: "app", Value: cfg.App.Name},
		logger.Field{Key: "environment", Value: cfg.App.Environment},
		logger.Field{Key: "port", Value: cfg.App.Port},
		logger.Field{Key: "topic", Value: cfg.Kafka.Topic},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("shutting down", logger.Field{Key: "signal", Value: sig.String()})
	case err := <-serverErr:
		if err != nil {
			appLogger.Error(err, logger.Field{Key: "action", Value: "http_serve"})
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := b.Engine.Stop(shutdownCtx); err != nil {
		appLogger.Error(err, logger.Field{Key: "action", Value: "engine_stop"})
	}

	appLogger.Info("trade-datahub stopped")
}
