package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/config"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/database"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/rapidapi"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/scheduler"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, nil)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}
	logger.WithFields(logrus.Fields{
		"path":    cfg.Database.Path,
		"version": version.Version,
	}).Info("Connected to database")

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.RefreshKey, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure tokens")
	}

	// Create repositories
	fundRepo := repository.NewFundRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	var blacklist auth.Blacklist = tokenRepo
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		blacklist = auth.NewRedisBlacklist(rdb)
		logger.WithField("addr", cfg.Redis.Addr).Info("Using redis token blacklist")
	}

	provider := rapidapi.NewNAVClient(rapidapi.Config{
		URL:     cfg.Provider.URL,
		APIKey:  cfg.Provider.APIKey,
		APIHost: cfg.Provider.APIHost,
		Timeout: cfg.Provider.Timeout,
	})

	// Create services
	services := api.Services{
		System:    service.NewSystemService(db),
		Fund:      service.NewFundService(fundRepo),
		Ingestion: service.NewIngestionService(db, fundRepo, provider, logger),
		Portfolio: service.NewPortfolioService(db, portfolioRepo, fundRepo, logger),
		Auth:      service.NewAuthService(userRepo, tokens, blacklist, logger),
	}

	jobs := scheduler.New(logger)
	if cfg.Scheduler.FetchFundsEnabled {
		if err := jobs.AddIngestion(cfg.Scheduler.FetchFundsSchedule, services.Ingestion); err != nil {
			logger.WithError(err).Fatal("Failed to schedule fund ingestion")
		}
	}
	if cfg.Redis.Addr == "" {
		if err := jobs.AddTokenCleanup(cfg.Scheduler.TokenCleanupSchedule, tokenRepo); err != nil {
			logger.WithError(err).Fatal("Failed to schedule token cleanup")
		}
	}
	jobs.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Provider.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	services.Ingestion.Close()
	jobs.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
