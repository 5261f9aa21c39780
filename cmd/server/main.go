package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mpetrov/taskhub/internal/api"
	"github.com/mpetrov/taskhub/internal/api/middleware"
	"github.com/mpetrov/taskhub/internal/config"
	"github.com/mpetrov/taskhub/internal/metrics"
	"github.com/mpetrov/taskhub/internal/repository/postgres"
	"github.com/mpetrov/taskhub/internal/service"
)

func main() {
	// Load .env if present; real environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize services
	services := service.NewServices(repos, cfg)

	// Initialize router
	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)
	defer authLimiter.Stop()
	router := api.NewRouter(services, cfg, collector, registry, authLimiter)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
