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

	"github.com/rs/cors"

	"github.com/pulsehq/demosnap/internal/config"
	"github.com/pulsehq/demosnap/internal/db"
	"github.com/pulsehq/demosnap/internal/export"
	"github.com/pulsehq/demosnap/internal/middleware"
	"github.com/pulsehq/demosnap/internal/repository"
	"github.com/pulsehq/demosnap/internal/versioning"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, cfg.Server.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	snapshotRepo := repository.NewSnapshotRepository(conn.Pool)
	userDirectory := repository.NewUserDirectory(conn.Pool)
	surveyRepo := repository.NewSurveyRepository(conn.Pool)
	auditRepo := repository.NewAuditRepository(conn.Pool)

	// Services
	versioningService := versioning.NewService(snapshotRepo, userDirectory, surveyRepo, auditRepo,
		versioning.WithReanalysisTrigger(versioning.NewLogTrigger()))
	exportService := export.NewService()

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	snapshotHandler := middleware.LoggingMiddleware(versioning.NewHTTPHandler(versioningService))
	mux.Handle("/api/snapshots", corsHandler.Handler(snapshotHandler))
	mux.Handle("/api/snapshots/", corsHandler.Handler(snapshotHandler))
	mux.Handle("/api/export/snapshots/", corsHandler.Handler(
		middleware.LoggingMiddleware(export.NewHTTPHandler(exportService, snapshotRepo))))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting demographic versioning server on :%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
