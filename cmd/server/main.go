package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/garnizeh/quartermaster/api"
	dbfs "github.com/garnizeh/quartermaster/db"
	"github.com/garnizeh/quartermaster/internal/catalog"
	"github.com/garnizeh/quartermaster/internal/config"
	"github.com/garnizeh/quartermaster/internal/db"
	"github.com/garnizeh/quartermaster/internal/platform/telegram"
	"github.com/garnizeh/quartermaster/internal/queue"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	log.Printf("Starting quartermaster server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply pending migrations
	database, err := db.New(ctx, cfg.DSN(), logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// Catalog comes from the embedded data unless a file override is set
	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		cat, err = catalog.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Telegram is optional. Without a token the server still serves the full
	// API; there is just no announcement or queue display surface.
	var board queue.Board
	var announcer api.Announcer
	if cfg.Telegram.Token != "" {
		tg, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.Debug, logger)
		if err != nil {
			log.Fatalf("Failed to connect telegram bot: %v", err)
		}
		board = tg
		announcer = tg
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, database, cat, board, announcer)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
