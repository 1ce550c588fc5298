package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"complaintdesk/internal/cache"
	"complaintdesk/internal/config"
	"complaintdesk/internal/database"
	"complaintdesk/internal/handlers"
	"complaintdesk/internal/jobs"
	"complaintdesk/internal/log"
	"complaintdesk/internal/notify"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/server"
	"complaintdesk/internal/session"
	"complaintdesk/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Missing session secret lands here: deliberately fatal, a
		// process without it cannot issue or verify sessions.
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure attachment bucket failed")
	}

	codec, err := session.NewCodec(cfg.Security.SessionSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init session codec")
	}
	sessions := session.NewManager(codec, cfg.IsProduction())

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, objectStore, sessions, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	queue := notify.NewQueue(redisClient, logger)
	scheduler := jobs.NewScheduler(queue, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	mailer, err := notify.NewMailer(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init mailer")
	}

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	consumer := notify.NewConsumer(
		redisClient,
		mailer,
		repository.NewComplaintRepository(dbPool),
		hostnameOr("api"),
		logger,
	)
	go func() {
		if err := consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
			logger.Error().Err(err).Msg("notification consumer stopped")
		}
	}()

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, stopConsumer, dbPool, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	stopConsumer context.CancelFunc,
	db *pgxpool.Pool,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()
	stopConsumer()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}

func hostnameOr(fallback string) string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return fallback
	}
	return name
}
