package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medipresence/hospital-system/internal/api"
	"github.com/medipresence/hospital-system/internal/core/service"
	"github.com/medipresence/hospital-system/internal/infrastructure/config"
	mongodb "github.com/medipresence/hospital-system/internal/infrastructure/db/mongo"
	redisdb "github.com/medipresence/hospital-system/internal/infrastructure/db/redis"
	"github.com/medipresence/hospital-system/internal/infrastructure/queue"
	"github.com/medipresence/hospital-system/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	auditWorkers    = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connect failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	// Audit entries flow through a sharded worker pool so request
	// handlers never block on the write.
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(auditWorkers, auditService, log)
	dispatcher.Start(ctx)

	monitor := service.NewPresenceMonitor(
		mongodb.NewPresenceRepository(db),
		mongodb.NewUserRepository(db),
		service.NewAlertService(mongodb.NewAlertRepository(db), log),
		redisdb.NewHeartbeatTracker(rdb),
		log,
	)
	monitor.Start(ctx)

	e := api.NewRouter(api.Deps{
		Config: cfg,
		Mongo:  db,
		Redis:  rdb,
		Audit:  dispatcher,
		Logger: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
