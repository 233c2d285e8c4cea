package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mypetid/document-service/internal/config"
	"github.com/mypetid/document-service/internal/db"
	"github.com/mypetid/document-service/internal/repository"
	"github.com/mypetid/document-service/internal/router"
	"github.com/mypetid/document-service/internal/services"
	"github.com/mypetid/document-service/internal/storage"
	"github.com/mypetid/document-service/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseFile)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabaseFile); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Initialize object storage
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", "error", err)
	}

	// Repositories and services
	docRepo := repository.NewDocumentRepository(database)
	petRepo := repository.NewPetRepository(database)
	userRepo := repository.NewUserRepository(database)

	svc := router.Services{
		Documents:  services.NewDocumentService(docRepo, petRepo, store, cfg, logger),
		Pets:       services.NewPetService(petRepo, store, cfg, logger),
		Onboarding: services.NewOnboardingService(userRepo, petRepo, store, cfg, logger),
	}

	// Setup HTTP router
	handler := router.NewRouter(svc, cfg, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
