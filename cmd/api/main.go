// @title                      Gym Check-in API
// @version                    1.0
// @description                Members check in at nearby gyms; administrators register gyms and validate check-ins.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
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

	"github.com/gymcheck/checkin-api/internal/api"
	"github.com/gymcheck/checkin-api/internal/api/handler"
	"github.com/gymcheck/checkin-api/internal/core/service"
	"github.com/gymcheck/checkin-api/internal/infrastructure/auth"
	"github.com/gymcheck/checkin-api/internal/infrastructure/config"
	"github.com/gymcheck/checkin-api/internal/infrastructure/crypto"
	"github.com/gymcheck/checkin-api/internal/infrastructure/db/mongo"
	"github.com/gymcheck/checkin-api/internal/infrastructure/db/redis"
	"github.com/gymcheck/checkin-api/pkg/logger"
)

const (
	serviceName         = "checkin-api"
	mongoConnectTimeout = 10 * time.Second
	mongoIndexTimeout   = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  mongoConnectTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect error")
		}
	}()
	log.Info().Str("event", "mongo_connect").Str("db", cfg.Mongo.Database).Msg("connected to mongo")

	users := mongo.NewUserRepository(db)
	gyms := mongo.NewGymRepository(db)
	checkIns := mongo.NewCheckInRepository(db)

	indexCtx, cancelIndexes := context.WithTimeout(ctx, mongoIndexTimeout)
	err = mongo.EnsureIndexes(indexCtx, users, gyms, checkIns)
	cancelIndexes()
	if err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	log.Info().Str("event", "mongo_indexes").Msg("ensured mongo indexes")

	// --- Redis ---
	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("event", "redis_connect").Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Services ---
	hasher := crypto.NewBcryptHasher(crypto.DefaultCost)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	e := api.NewRouter(api.Dependencies{
		Auth:     service.NewAuthService(users, hasher),
		Gyms:     service.NewGymService(gyms),
		CheckIns: service.NewCheckInService(checkIns, gyms, redis.NewDailyGuard(rdb)),
		Metrics:  service.NewMetricsService(checkIns),
		Tokens:   tokens,
		Throttle: redis.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		ReadinessChecks: map[string]handler.CheckFunc{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Logger: log,
	})

	// --- HTTP server ---
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("event", "http_listen").Str("port", cfg.Port).Msg("http server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Str("event", "shutdown_signal").Msg("received termination signal")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	log.Info().Str("event", "shutdown_complete").Msg("shutdown complete")
	return nil
}
