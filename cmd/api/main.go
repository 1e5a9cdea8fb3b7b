package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	api "itemtracker/internal/adapter/http"
	"itemtracker/internal/adapter/telemetry"
	"itemtracker/pkg/config"
	"itemtracker/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $ITEMS_CONFIG_PATH)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)

	if err != nil {
		return err
	}

	appLogger, err := logger.New(logger.Options{
		ServiceName: cfg.ServiceName,
		Level:       cfg.Telemetry.LogLevel,
		LokiURL:     cfg.Telemetry.LokiURL,
		Development: !cfg.IsProduction(),
	})

	if err != nil {
		return err
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = appLogger.Close(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	}, appLogger.Zap())

	if err != nil {
		return err
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := tel.Shutdown(ctx); err != nil {
			appLogger.Zap().Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	if err := tel.Start(); err != nil {
		return err
	}

	probe := tel.NewTelemetryProbe()

	store, closeStore, err := api.OpenStore(ctx, cfg.Database, probe)

	if err != nil {
		return err
	}

	defer closeStore()

	container, err := api.NewContainer(ctx, cfg, store, probe, appLogger, tel.AppMetrics)

	if err != nil {
		return err
	}

	defer container.Close()

	server := api.NewServer(container, tel.AppMetrics, appLogger, cfg)

	if err := server.Run(ctx); err != nil {
		return err
	}

	appLogger.Zap().Info("Shutting down gracefully")

	return nil
}
