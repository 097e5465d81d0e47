// Command httpd runs the breakdown HTTP service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/script-breakdown/internal/api"
	"github.com/jonesrussell/script-breakdown/internal/bootstrap"
	"github.com/jonesrussell/script-breakdown/internal/config"
	"github.com/jonesrussell/script-breakdown/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("BREAKDOWN_CONFIG"))
	if err != nil {
		logging.Must(logging.Config{}).Error("failed to load config", logging.Error(err))
		os.Exit(1)
	}

	logger := logging.Must(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	defer func() { _ = logger.Sync() }()

	comps, err := bootstrap.NewComponents(cfg, logger, bootstrap.Options{WithDatabase: true})
	if err != nil {
		logger.Error("startup failed", logging.Error(err))
		os.Exit(1)
	}
	defer func() { _ = comps.Close() }()

	server := api.NewServer(comps.Handler, comps.Telemetry.Handler(), api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("graceful shutdown failed", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
