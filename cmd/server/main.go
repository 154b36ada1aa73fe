package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/analyzer"
	"github.com/Ductam7415vn/SumUp-sub002/internal/cleanup"
	"github.com/Ductam7415vn/SumUp-sub002/internal/config"
	"github.com/Ductam7415vn/SumUp-sub002/internal/db"
	"github.com/Ductam7415vn/SumUp-sub002/internal/exporter"
	"github.com/Ductam7415vn/SumUp-sub002/internal/middleware"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/render"
	"github.com/Ductam7415vn/SumUp-sub002/internal/repository"
	"github.com/Ductam7415vn/SumUp-sub002/internal/router"
	"github.com/Ductam7415vn/SumUp-sub002/internal/services"
	"github.com/Ductam7415vn/SumUp-sub002/internal/storage"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	style, err := render.LoadStyle(cfg.StylePath)
	if err != nil {
		logger.Fatal("Failed to load export style", "error", err, "path", cfg.StylePath)
	}
	if cfg.TextColumns > 0 {
		style.TextColumns = cfg.TextColumns
	}

	exp := exporter.New(render.NewRegistry(style), exporter.Options{
		BaseDir:     cfg.ExportDir,
		ValidatePDF: cfg.ValidatePDF,
	}, logger)

	sharer, err := storage.NewSharer(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize share backend", "error", err, "backend", cfg.ShareBackend)
	}
	if closer, ok := sharer.(io.Closer); ok {
		defer closer.Close()
	}

	var summarizer analyzer.Summarizer
	if cfg.SummarizerEnabled() {
		summarizer = analyzer.NewOpenRouterSummarizer(analyzer.Options{
			APIKey:         cfg.OpenRouterAPIKey,
			Model:          cfg.OpenRouterModel,
			BaseURL:        cfg.OpenRouterBaseURL,
			WordsPerMinute: cfg.WordsPerMinute,
		}, logger)
	} else {
		logger.Warn("OPENROUTER_API_KEY not set, summarization disabled; imports and exports still work")
	}

	repo := repository.NewRepository(database)
	service := services.NewService(repo, summarizer, exp, sharer, services.Options{
		ExportTimeout: cfg.ExportTimeout,
		MaxTextLength: cfg.MaxTextLength,
	}, logger)

	// Retention sweep
	sweeper := cleanup.NewSweeper(repo, sharer, []string{
		exp.Dir(models.FormatPDF),
		exp.Dir(models.FormatImage),
	}, cfg.ExportRetention, logger)
	if err := sweeper.Start(ctx, cfg.CleanupSchedule); err != nil {
		logger.Fatal("Failed to schedule export cleanup", "error", err)
	}
	defer sweeper.Stop()

	// Setup HTTP router
	limiter := middleware.NewRateLimiter(cfg.ExportRateLimit, cfg.ExportRateBurst)
	handler := router.NewRouter(service, limiter, cfg.MaxBodySize, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ExportTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "export_dir", cfg.ExportDir, "share_backend", cfg.ShareBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
