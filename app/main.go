package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/byeolnight/skywatch/app/api"
	"github.com/byeolnight/skywatch/app/article"
	"github.com/byeolnight/skywatch/app/backend"
	"github.com/byeolnight/skywatch/app/cfg"
	"github.com/byeolnight/skywatch/app/crawler"
	"github.com/byeolnight/skywatch/app/database"
	"github.com/byeolnight/skywatch/app/dedup"
	"github.com/byeolnight/skywatch/app/pipeline"
	"github.com/byeolnight/skywatch/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting Skywatch server (version %s)...", appCfg.Version)

	// Database connection
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database ready (schema version %d, dirty=%v)", version, dirty)

	// Load source definitions
	loader := crawler.NewLoader(appCfg.SourcesDir)
	sources, err := loader.LoadAll()
	if err != nil {
		log.Fatal("Failed to load source definitions:", err)
	}
	log.Printf("Loaded %d source definitions from %s", len(sources), appCfg.SourcesDir)

	// Repositories and local title cache
	articleRepo := database.NewArticleRepository(db)
	runRepo := database.NewRunRepository(db)
	titleCache := dedup.NewTitleCache(appCfg.CacheFile, time.Duration(appCfg.RetentionDays)*24*time.Hour)

	// Core components
	httpClient := &http.Client{Timeout: 30 * time.Second}
	backendClient := backend.NewClient(appCfg.BackendURL, appCfg.CrawlerAPIKey, appCfg.UserAgent, httpClient)
	scrape := crawler.New(sources, httpClient, appCfg.UserAgent)

	admit := pipeline.New(
		article.NewClassifier(),
		article.NewNormalizer(),
		dedup.NewDetector(),
		backendClient,
		titleCache,
		articleRepo,
		pipeline.Options{
			MaxAttempts:    appCfg.MaxPublishAttempts,
			RecheckOnRetry: appCfg.RecheckOnRetry,
			RetentionDays:  appCfg.RetentionDays,
			RecentWindow:   time.Duration(appCfg.RecentWindowMin) * time.Minute,
			AuthorID:       appCfg.AuthorID,
			EventAuthorID:  appCfg.EventAuthorID,
		})

	runner := tasks.NewRunner(scrape, admit, runRepo)

	// Background scheduler
	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(runner, appCfg.NewsSchedule, appCfg.EventSchedule, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	apiHandler := api.NewHandler(articleRepo, runRepo, titleCache, runner, len(sources))
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if appCfg.APIAccessKey != "" {
			log.Printf("  Crawl news:    http://localhost:%s/api/crawl/news (POST, requires API key)", appCfg.Port)
			log.Printf("  Crawl events:  http://localhost:%s/api/crawl/events (POST, requires API key)", appCfg.Port)
			log.Printf("  Articles:      http://localhost:%s/api/articles (requires API key)", appCfg.Port)
			log.Printf("  Runs:          http://localhost:%s/api/runs (requires API key)", appCfg.Port)
		} else {
			log.Printf("  API endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Skywatch server started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("Skywatch server shutdown complete")
}
