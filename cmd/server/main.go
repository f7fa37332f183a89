package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/VR3Dcz/FileCatalog/internal/catalog"
	"github.com/VR3Dcz/FileCatalog/internal/config"
	"github.com/VR3Dcz/FileCatalog/internal/constants"
	httpapp "github.com/VR3Dcz/FileCatalog/internal/http"
	"github.com/VR3Dcz/FileCatalog/internal/logger"
	"github.com/VR3Dcz/FileCatalog/internal/settings"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Load settings
	sm := settings.NewManager(cfg.SettingsPath, appLogger)

	// Initialize Catalog (auto-opens the last file when enabled)
	session := catalog.NewSession(catalog.Options{
		WorkingPath: cfg.WorkingDBPath,
		ScanWorkers: cfg.ScanWorkers,
		HashFiles:   cfg.HashFiles,
	}, sm, appLogger)
	if err := session.Start(context.Background()); err != nil {
		appLogger.Error("Failed to init catalog", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Routes
	h := httpapp.NewHandler(session, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "working", cfg.WorkingDBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
