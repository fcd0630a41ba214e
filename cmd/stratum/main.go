// cmd/stratum/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stratum-labs/stratum/internal/api/routes"
	"github.com/stratum-labs/stratum/internal/config"
	"github.com/stratum-labs/stratum/internal/engine"
	"github.com/stratum-labs/stratum/internal/history"
	"github.com/stratum-labs/stratum/internal/queue"
	"github.com/stratum-labs/stratum/internal/runner"
	"github.com/stratum-labs/stratum/internal/storage/leveldb"
	"github.com/stratum-labs/stratum/internal/storage/postgres"
	"github.com/stratum-labs/stratum/internal/worker"
)

func main() {
	configPath := os.Getenv("STRATUM_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Decomposition history: durable when Postgres is configured,
	// bounded in-memory ring otherwise
	var hist history.Store
	if cfg.Postgres.URL != "" {
		pg, err := postgres.NewStore(cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pg.Close()
		hist = pg
		log.Println("Using PostgreSQL decomposition history")
	} else {
		hist = history.NewMemoryStore(cfg.Scheduler.HistorySize)
		log.Printf("Using in-memory decomposition history (last %d runs)", cfg.Scheduler.HistorySize)
	}

	// Initialize LevelDB plan cache
	cache, err := leveldb.NewClient(cfg.LevelDB, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to initialize plan cache: %v", err)
	}
	defer cache.Close()

	// Status events are optional
	var publisher runner.StatusPublisher
	if cfg.RabbitMQ.URL != "" {
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()
		publisher = rmq
	} else {
		log.Println("No RabbitMQ URL configured; status events disabled")
	}

	// Task function registry with the built-in functions
	registry := worker.NewRegistry()
	if err := worker.RegisterBuiltins(registry); err != nil {
		log.Fatalf("Failed to register task functions: %v", err)
	}

	decomposer := engine.NewDecomposer(cfg.Scheduler.MaxParallel, cfg.Scheduler.MaxDepth, hist)
	planRunner := runner.NewRunner(registry, publisher)

	router := routes.SetupRouter(decomposer, cache, hist, planRunner)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Stratum listening on :%s (maxParallel=%d, maxDepth=%d)",
			cfg.Server.Port, cfg.Scheduler.MaxParallel, cfg.Scheduler.MaxDepth)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Printf("Received shutdown signal: %v", sig)

	shutdownTimeout := time.Duration(cfg.Worker.ShutdownTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Stratum shutdown complete")
}
