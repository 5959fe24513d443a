package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"marquee/api"
	"marquee/config"
	"marquee/handlers"
	"marquee/services/catalog"
	"marquee/services/metadata"
	"marquee/services/scheduler"
	"marquee/services/search"
	"marquee/services/watchlist"
	"marquee/utils/metrics"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {

	offline := flag.Bool("offline", false, "ignore the catalog key and serve built-in content only")
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🚀 marquee starting...")

	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not read .env: %v", err)
	}

	// Determine config path (env or default)
	configPath := os.Getenv("MARQUEE_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	settings.ApplyEnv(os.Getenv)

	logger := setupLogging(settings.Log)

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}
	if *offline {
		settings.Metadata.TMDBAPIKey = ""
		fmt.Println("🧪 Offline mode: serving built-in content.")
	}

	// Response cache: redis when configured, otherwise files on disk
	ttl := time.Duration(settings.Cache.TTLMinutes) * time.Minute
	var (
		cache      metadata.Cache
		redisCache *metadata.RedisCache
	)
	if ttl > 0 {
		if settings.Cache.RedisURL != "" {
			redisCache = metadata.NewRedisCache(settings.Cache.RedisURL, ttl)
		}
		if redisCache.Enabled() {
			cache = redisCache
		} else {
			fileCache, err := metadata.NewFileCache(afero.NewOsFs(), filepath.Join(settings.Cache.Directory, "tmdb"), ttl)
			if err != nil {
				log.Printf("warning: response cache disabled: %v", err)
			} else {
				cache = fileCache
			}
		}
	}

	httpc := &http.Client{Timeout: time.Duration(settings.HTTP.RequestTimeoutSeconds) * time.Second}
	tmdb := metadata.NewTMDBClient(metadata.ClientConfig{
		APIKey:        settings.Metadata.TMDBAPIKey,
		Language:      settings.Metadata.Language,
		BaseURL:       settings.Metadata.BaseURL,
		ImageBaseURL:  settings.Metadata.ImageBaseURL,
		RetryAttempts: settings.HTTP.RetryAttempts,
		MinInterval:   time.Duration(settings.HTTP.MinIntervalMillis) * time.Millisecond,
	}, httpc, cache)
	if !tmdb.IsConfigured() {
		log.Println("[main] no TMDB key configured; catalog and search serve built-in content")
	}

	genres := metadata.NewGenreTable()
	normalizer := metadata.NewNormalizer(genres, metadata.NormalizerOptions{
		ImageBaseURL:            tmdb.ImageBaseURL(),
		TrendingPopularity:      settings.Catalog.TrendingPopularity,
		FeaturedRatingThreshold: settings.Catalog.FeaturedRatingThreshold,
	})

	watchlistSvc := watchlist.NewService()
	catalogSvc, err := catalog.NewService(tmdb, genres, normalizer, watchlistSvc, catalog.Options{
		CategoryLimit: settings.Catalog.CategoryLimit,
		IndexSize:     settings.Catalog.IndexSize,
	})
	if err != nil {
		log.Fatalf("failed to create catalog service: %v", err)
	}
	searchSvc := search.NewService(tmdb, normalizer, catalogSvc, search.Options{Limit: settings.Search.Limit})

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	liveSearch := search.NewLive(rootCtx, searchSvc, time.Duration(settings.Search.DebounceMillis)*time.Millisecond)

	// Background jobs
	jobs := scheduler.NewService(5 * time.Minute)
	if tmdb.IsConfigured() {
		if err := jobs.AddJob(settings.Scheduler.WarmSpec, scheduler.JobFunc{ID: "warm-catalog", Fn: catalogSvc.Warm}); err != nil {
			log.Printf("warning: catalog warm-up not scheduled: %v", err)
		}
	}
	if cache != nil {
		if err := jobs.AddJob("@daily", scheduler.JobFunc{ID: "clear-response-cache", Fn: cache.Clear}); err != nil {
			log.Printf("warning: cache cleanup not scheduled: %v", err)
		}
	}
	jobs.Start(rootCtx)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(registry); err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	// Cancelled when shutdown begins so event streams end while ordinary
	// requests drain.
	streamsCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	r := mux.NewRouter()
	api.Register(r, api.Handlers{
		Catalog:   handlers.NewCatalogHandler(catalogSvc),
		Search:    handlers.NewSearchHandler(searchSvc, liveSearch),
		Watchlist: handlers.NewWatchlistHandler(watchlistSvc),
		Health:    handlers.NewHealthHandler(tmdb.IsConfigured(), redisCache.Client(), jobs),
		Tasks:     handlers.NewScheduledTasksHandler(jobs),
		Settings:  handlers.NewSettingsHandler(cfgManager),
	}, api.Options{
		CORSOrigins: settings.Server.CORSOrigins,
		Gatherer:    registry,
		Logger:      logger,
		Streams:     streamsCtx,
	})

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  120 * time.Second,
	}
	srv.RegisterOnShutdown(stopStreams)

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Warm the catalog in the background so the first page load is fast
	if tmdb.IsConfigured() {
		go func() {
			if err := jobs.RunNow("warm-catalog"); err != nil {
				log.Printf("[main] startup warm-up skipped: %v", err)
			}
		}()
	}

	// Wait for shutdown signal
	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	rootCancel()

	log.Println("🧹 Stopping scheduled jobs...")
	jobs.Stop(shutdownCtx)
	liveSearch.Close()

	if redisCache.Enabled() {
		log.Println("🧹 Closing redis connection...")
		if err := redisCache.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	log.Println("✅ Shutdown complete")
}

// setupLogging sends the standard logger to stdout and, when a file is
// configured, to a rotated log file. The returned logger writes access logs
// to the same place.
func setupLogging(cfg config.LogConfig) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		logDir := filepath.Dir(cfg.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			out = io.MultiWriter(os.Stdout, fileWriter)
		}
	}

	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if cfg.File != "" {
		log.Printf("Logging to file: %s", cfg.File)
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(cfg.Level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
