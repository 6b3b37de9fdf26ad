package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell/orchestrator/internal/adapter/llm"
	"github.com/inkwell/orchestrator/internal/cache"
	"github.com/inkwell/orchestrator/internal/config"
	"github.com/inkwell/orchestrator/internal/eventbus"
	store "github.com/inkwell/orchestrator/internal/repository"
	"github.com/inkwell/orchestrator/internal/retry"
	"github.com/inkwell/orchestrator/internal/service"
	handler "github.com/inkwell/orchestrator/internal/transport/http"
	"github.com/inkwell/orchestrator/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting orchestrator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Quality threshold: %.1f", cfg.QualityThreshold)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize generation backend
	backend, err := llm.NewBackend(cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMTimeout)
	if err != nil {
		log.Fatalf("Failed to initialize LLM backend: %v", err)
	}

	// Initialize pipeline components
	bus := eventbus.New()
	resultCache := cache.New(db, policyEngine, cfg.CacheTTL, cfg.QualityThreshold)
	executor := &retry.Executor{
		MaxAttempts:      cfg.RetryMaxAttempts,
		InitialDelay:     cfg.RetryInitialDelay,
		MaxDelay:         cfg.RetryMaxDelay,
		Multiplier:       cfg.RetryMultiplier,
		QualityThreshold: cfg.QualityThreshold,
	}

	// Initialize service
	svc := service.New(db, bus, resultCache, backend, executor, cfg)

	// Periodic cache cleanup; correctness never depends on it.
	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				resultCache.CleanupExpired(cleanupCtx)
			}
		}
	}()

	// Create HTTP server
	server := handler.NewServer(svc, cfg)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
