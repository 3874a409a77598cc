package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialpulse/analytics-api/internal/api"
	"github.com/socialpulse/analytics-api/internal/infrastructure/db/mongo"
	"github.com/socialpulse/analytics-api/internal/infrastructure/db/redis"
	"github.com/socialpulse/analytics-api/internal/pkg/config"
	"github.com/socialpulse/analytics-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           SocialPulse Analytics API
// @version         1.0
// @description     Multi-tenant REST API for scraped social-media metrics with per-account regression and clustering models.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage connections ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Indexes ---
	if err := mongo.NewPrincipalRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("principal indexes failed")
	}
	if err := mongo.NewAccountRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account indexes failed")
	}
	if err := mongo.NewMetricRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("metric indexes failed")
	}
	if err := mongo.NewModelRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("model indexes failed")
	}

	// --- HTTP server + ingest workers ---
	e, dispatcher := api.NewRouter(db, rdb, api.RouterConfig{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      time.Duration(cfg.JWTTTLMinutes) * time.Minute,
		IngestWorkers: cfg.IngestWorkers,
	}, log)

	dispatcher.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
