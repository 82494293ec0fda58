package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RishiKendai/codeplag/internal/api"
	"github.com/RishiKendai/codeplag/internal/config"
	"github.com/RishiKendai/codeplag/internal/configs/env"
	"github.com/RishiKendai/codeplag/internal/infra/mongo"
	redisInfra "github.com/RishiKendai/codeplag/internal/infra/redis"
	"github.com/RishiKendai/codeplag/internal/ingest"
	"github.com/RishiKendai/codeplag/internal/logger"
	"github.com/RishiKendai/codeplag/internal/metrics"
	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
	"github.com/RishiKendai/codeplag/internal/repository"
	"github.com/RishiKendai/codeplag/internal/session"
	"github.com/RishiKendai/codeplag/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().Msg("Starting codeplag server")

	// Initialize Prometheus metrics
	metrics.InitPrometheus()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.MetricsPort).Msg("Metrics server started")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed to start")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(context.Background())

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Initialize repositories
	mongoRepo := repository.NewMongoRepository(mongoClient)
	submissionsRepo := repository.NewSubmissionsRepository(mongoRepo)
	normalizedRepo := repository.NewNormalizedRepository(mongoRepo)
	if err := submissionsRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create submission indexes")
	}

	checker := parser.NewSyntaxChecker()
	defer checker.Close()
	ingestSvc := ingest.NewService(submissionsRepo, checker)

	// Invalid and duplicate submissions never succeed on retry
	retryHandler := stream.NewRetryHandler(
		redisClient.Client,
		cfg.RedisDeadLetterKey,
		stream.WithPermanentErrors(models.ErrInvalidSubmission, repository.ErrDuplicateSubmission),
	)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(redisClient.Client, stream.ConsumerOptions{
		Stream:    cfg.RedisStreamKey,
		Group:     cfg.RedisConsumerGroup,
		Name:      consumerName,
		Retention: cfg.StreamRetentionDuration,
	}, ingestSvc, retryHandler)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	workerPool := plagiarism.NewWorkerPool(ctx, cfg.WorkerCount)
	defer workerPool.Close()

	var sinks session.SinkFactory
	if cfg.StoreNormalized {
		sinks = normalizedRepo.Sink
	}
	store := session.NewRedisStore(redisClient.Client, cfg.SessionTTL)
	runner := session.NewRunner(submissionsRepo, store, workerPool, sinks)

	router := api.SetupRoutes(ctx, cfg, api.Services{
		Ingest:     ingestSvc,
		Corpus:     submissionsRepo,
		Store:      store,
		Runner:     runner,
		Normalized: normalizedRepo,
	})

	// Start Redis consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")
	consumerCancel()

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}

	metricsCtx, metricsCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer metricsCancel()
	if err := metricsServer.Shutdown(metricsCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
