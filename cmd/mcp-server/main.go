// Package main provides the MCP entry point for the health recommender, for
// agent clients that call prediction and lookup as tools over stdio.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prescripto/health-recommender/internal/config"
	"github.com/prescripto/health-recommender/internal/mcpserver"
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

	app, err := setup.Build(configManager.GetConfig())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	server := mcpserver.NewServer(app.Predictor, app.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.Logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("MCP server failed: %v", err)
	}

	app.Logger.Info("MCP server stopped")
}
