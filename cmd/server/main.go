package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prescripto/health-recommender/internal/api"
	"github.com/prescripto/health-recommender/internal/config"
	"github.com/prescripto/health-recommender/internal/setup"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()

	app, err := setup.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	app.Logger.Infof("Starting Prescripto health recommender on %s:%d", cfg.Server.Host, cfg.Server.Port)

	server := api.NewServer(configManager, app.Logger, app.Predictor, app.Store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.Logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	app.Logger.Info("Server stopped")
}
