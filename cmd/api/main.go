// Package main is the entry point for the paste-content-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"paste-content-service/internal/app/service"
	"paste-content-service/internal/config"
	"paste-content-service/internal/infra/hashclient"
	"paste-content-service/internal/infra/postgres"
	"paste-content-service/internal/infra/postgres/migrations"
	rediscache "paste-content-service/internal/infra/redis"
	"paste-content-service/internal/job"
	"paste-content-service/internal/logger"
	"paste-content-service/internal/transport/httpserver"
	"paste-content-service/internal/validator"
	"paste-content-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting paste-content-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Create repositories
	repo := postgres.NewRepository(db)
	likeRepo := postgres.NewLikeRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	ledger := postgres.NewLedger(db)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Redis-backed adapters
	cache := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
	viewLedger := rediscache.NewViewLedger(redisClient, log.Logger, cfg.Cache.KeyPrefix)
	publisher := rediscache.NewPublisher(redisClient, log.Logger, cfg.Channels.Notification, cfg.Channels.Index)

	// Hash service client
	hashClient := hashclient.New(
		hashclient.ClientConfig{
			BaseURL: cfg.Hash.BaseURL,
			Timeout: cfg.Hash.Timeout,
			Retry: hashclient.RetryConfig{
				MaxAttempts: cfg.Hash.Retry.MaxAttempts,
				WaitTime:    cfg.Hash.Retry.WaitTime,
				MaxWaitTime: cfg.Hash.Retry.MaxWaitTime,
			},
			CB: hashclient.CBConfig{
				MaxRequests:  cfg.Hash.CB.MaxRequests,
				Interval:     cfg.Hash.CB.Interval,
				Timeout:      cfg.Hash.CB.Timeout,
				FailureRatio: cfg.Hash.CB.FailureRatio,
			},
		},
		log.Logger,
	)

	// Create services
	postSvc := service.NewPostService(repo, cache, hashClient, publisher, log.Logger, cfg.Cache.PostTTL)
	viewSvc := service.NewViewService(repo, viewLedger, log.Logger, cfg.View.DedupWindow)
	likeSvc := service.NewLikeService(repo, likeRepo, cache, log.Logger)
	reviewSvc := service.NewReviewService(repo, reviewRepo, log.Logger)
	lifecycleSvc := service.NewLifecycleService(repo, ledger, cache, publisher, log.Logger, cfg.Lifecycle.Retention)
	popularitySvc := service.NewPopularityService(repo, ledger, cache, publisher, log.Logger, cfg.Popularity.ViewThreshold, cfg.Cache.PostTTL)
	ratingSvc := service.NewRatingService(repo, likeRepo, reviewRepo, log.Logger)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 2 * 1024 * 1024, // 2MB, pastes can be large
			Debug:     cfg.App.Debug,
		},
		postSvc,
		viewSvc,
		likeSvc,
		reviewSvc,
		db,
		v,
		log.Logger,
	)

	// Background passes with distributed locking
	scheduler := job.NewScheduler(
		[]job.Task{
			{
				Name:      "expire",
				Interval:  cfg.Lifecycle.ExpireInterval,
				Timeout:   cfg.Lifecycle.PassTimeout,
				OnStartup: cfg.Lifecycle.OnStartup,
				Run:       lifecycleSvc.ExpirePass,
			},
			{
				Name:     "purge",
				Interval: cfg.Lifecycle.PurgeInterval,
				Timeout:  cfg.Lifecycle.PassTimeout,
				Run:      lifecycleSvc.PurgePass,
			},
			{
				Name:     "popularity",
				Interval: cfg.Popularity.Interval,
				Timeout:  cfg.Popularity.PassTimeout,
				Run:      popularitySvc.Pass,
			},
			{
				Name:     "rating",
				Interval: cfg.Rating.Interval,
				Timeout:  cfg.Rating.PassTimeout,
				Run:      ratingSvc.Pass,
			},
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Listen(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
