// Package main is the entry point for the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wkndwarrior/api/internal/api"
	"github.com/wkndwarrior/api/internal/auth"
	"github.com/wkndwarrior/api/internal/cache"
	"github.com/wkndwarrior/api/internal/concerts"
	"github.com/wkndwarrior/api/internal/config"
	"github.com/wkndwarrior/api/internal/db"
	"github.com/wkndwarrior/api/internal/health"
	"github.com/wkndwarrior/api/internal/match"
	"github.com/wkndwarrior/api/internal/middleware"
	"github.com/wkndwarrior/api/internal/music"
	"github.com/wkndwarrior/api/internal/sports"
	"github.com/wkndwarrior/api/internal/user"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to a YAML config file (env vars take precedence)")
	flag.Parse()

	if *help {
		fmt.Println("WKND Warrior API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "summary", cfg.LogSummary())

	ctx := context.Background()

	// Database. Required in production; development falls back to in-memory
	// repos so the API runs without Postgres.
	var (
		users     user.Repository
		prefs     user.PreferenceRepository
		catalog   user.TeamCatalog
		dbChecker api.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		repo := user.NewPostgresRepository(conn)
		users, prefs, catalog = repo, repo, repo
		dbChecker = health.NewDBChecker(conn)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		repo := user.NewMemoryRepository()
		users, prefs, catalog = repo, repo, repo
	}

	// Redis-backed response cache for provider calls. Optional.
	var (
		eventCache   *cache.EventCache
		cacheChecker api.HealthChecker
	)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		eventCache = cache.NewEventCache(redisClient)
		cacheChecker = health.NewRedisChecker(redisClient)
	}

	tokens := auth.NewJWTServiceWithRotation(cfg.JWTSecret, cfg.JWTPreviousSecret)

	// Provider clients.
	concertClient := concerts.NewClient(cfg.TicketmasterAPIKey, concerts.WithCache(eventCache))
	sportsClient := sports.NewClient(sports.WithCache(eventCache))

	var spotifyClient *music.SpotifyClient
	if cfg.SpotifyClientID != "" {
		spotifyClient = music.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)
	}

	var appleClient *music.AppleMusicClient
	if cfg.AppleKeyID != "" {
		var err error
		appleClient, err = music.NewAppleMusicClient(cfg.AppleKeyID, cfg.AppleTeamID, cfg.AppleMediaID, cfg.ApplePrivateKey,
			music.WithAppleCache(eventCache))
		if err != nil {
			logger.Error("apple music client setup failed", "error", err)
			os.Exit(1)
		}
	}

	// Metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		logger.Error("metrics registration failed", "error", err)
		os.Exit(1)
	}

	// Matching engine.
	matchMetrics := match.NewMetrics()
	if err := matchMetrics.Register(registry); err != nil {
		logger.Error("match metrics registration failed", "error", err)
		os.Exit(1)
	}
	engine := match.NewEngine(api.NewPreferenceStore(users, prefs), concertClient, sportsClient, matchMetrics)

	// Rate limiting. The store is shared so the global and per-group limits
	// count against separate keys in one map.
	limitStore := middleware.NewInMemoryRateLimitStore()
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limitStore.Cleanup()
		}
	}()

	var spotifyService api.SpotifyService
	if spotifyClient != nil {
		spotifyService = spotifyClient
	}
	var appleService api.AppleMusicService
	if appleClient != nil {
		appleService = appleClient
	}

	router := api.NewRouter(api.RouterConfig{
		Auth:       api.NewAuthHandlers(users, prefs, tokens, cfg.DefaultSearchRadius),
		Spotify:    api.NewSpotifyHandlers(spotifyService, prefs),
		AppleMusic: api.NewAppleMusicHandlers(appleService, prefs),
		Sports:     api.NewSportsHandlers(catalog, prefs, sportsClient),
		Concerts:   api.NewConcertHandlers(concertClient, users, cfg.DefaultSearchRadius),
		Weekend:    api.NewWeekendHandlers(engine, users, prefs),
		Health: api.NewHealthHandlers(api.HealthHandlersConfig{
			DBChecker:    dbChecker,
			CacheChecker: cacheChecker,
		}),

		TokenValidator: tokens,
		RateLimitStore: limitStore,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	// Apply middleware: RequestID -> CORS -> HTTPMetrics -> global rate limit -> Logging
	cors := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	globalLimit := middleware.RateLimiter(limitStore, middleware.DefaultGlobalLimit(), middleware.IPKeyFunc())
	handler := middleware.RequestID(
		cors(
			middleware.HTTPMetrics(metrics)(
				globalLimit(
					middleware.Logging(logger)(router)))))

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
