package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, ready, db, err := initStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	redisClient := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer (func() { _ = repository.Close(redisClient) })()
		cache := repository.NewRedisItemCache(redisClient, cfg.Redis.TTL())
		store = repository.NewCachedStore(store, cache, logging.Component(logger, "item-cache"))
	}

	eventBus := initEventBus(logger)
	clock := service.SystemClock{}

	services := api.Services{
		Bookings: service.NewBookingService(store, eventBus, clock, logging.Component(logger, "bookings")),
		Items:    service.NewItemService(store, eventBus, clock, logging.Component(logger, "items")),
		Users:    service.NewUserService(store, logging.Component(logger, "users")),
		Requests: service.NewRequestService(store, clock, logging.Component(logger, "requests")),
	}
	httpServer := api.NewHTTPServer(cfg.API, services, ready, logging.Component(logger, "http"))

	startMetrics(ctx, cfg, logger)

	if db != nil && cfg.Backup.Enabled {
		backup := database.NewBackupService(db, cfg.Backup, logging.Component(logger, "backup"))
		go backup.Start(ctx)
	}

	return startServer(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

// initStore opens the configured store. The sqlite handle is returned separately for backups.
func initStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (domain.Store, api.ReadyFunc, *database.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn().Msg("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil, nil, nil
	}

	var db *database.DB
	err := worker.Do(ctx, worker.DefaultStartupPolicy, logger, "open database", func(context.Context) error {
		var err error
		db, err = database.NewDB(cfg.Database.Path, logging.Component(logger, "database"))
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, nil, nil, err
	}

	return db, db.PingContext, db, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	err := worker.Do(ctx, worker.DefaultStartupPolicy, logger, "redis ping", func(ctx context.Context) error {
		return repository.Ping(ctx, client)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = repository.Close(client)
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

func initEventBus(logger *zerolog.Logger) *events.EventBus {
	bus := events.NewEventBus()
	eventLogger := logging.Component(logger, "events")

	bus.Subscribe(func(e *events.Event) error {
		var payload events.BookingEventPayload
		if err := e.Decode(&payload); err != nil {
			return fmt.Errorf("failed to decode %s: %w", e.Type, err)
		}
		metrics.IncBookingTransition(payload.Status)
		eventLogger.Info().
			Str("event", e.Type).
			Int64("booking_id", payload.BookingID).
			Int64("item_id", payload.ItemID).
			Int64("changed_by", payload.ChangedByID).
			Str("status", payload.Status).
			Msg("Booking event")
		return nil
	}, events.BookingEventTypes...)

	bus.Subscribe(func(e *events.Event) error {
		var payload events.CommentEventPayload
		if err := e.Decode(&payload); err != nil {
			return fmt.Errorf("failed to decode %s: %w", e.Type, err)
		}
		metrics.IncComment()
		eventLogger.Info().
			Str("event", e.Type).
			Int64("comment_id", payload.CommentID).
			Int64("item_id", payload.ItemID).
			Msg("Comment event")
		return nil
	}, events.EventCommentCreated)

	return bus
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Str("driver", cfg.Database.Driver).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
