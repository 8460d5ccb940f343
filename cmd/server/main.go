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

	"github.com/qalamdan/porsesh/api"
	forumdb "github.com/qalamdan/porsesh/db"
	"github.com/qalamdan/porsesh/internal/config"
	"github.com/qalamdan/porsesh/internal/db"
	"github.com/qalamdan/porsesh/internal/jobs"
	"github.com/qalamdan/porsesh/internal/notify"
	"github.com/qalamdan/porsesh/internal/repository/sqlite"
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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting porsesh server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply migrations + seeds
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, forumdb.Migrations, forumdb.SeedFiles); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// Notification delivery runs on the background job queue
	repo := sqlite.New(database)
	jobRepo := jobs.NewRepository(database)
	handlers := map[string]jobs.Handler{
		notify.JobType: notify.Handler(repo),
	}
	pool := jobs.NewWorkerPool(jobRepo, handlers, logger, cfg.WorkerCount)
	pool.Start(ctx)
	notifier := notify.NewEnqueuer(pool, logger)

	handler := api.SetupRoutes(cfg, version, buildTime, database, notifier)

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

	pool.Stop()

	// Close database connection
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
