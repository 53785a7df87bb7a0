package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"bundle-bot/internal/bot"
	"bundle-bot/internal/catalog"
	"bundle-bot/internal/config"
	"bundle-bot/internal/metrics"
	"bundle-bot/internal/order"
	"bundle-bot/internal/server"
	"bundle-bot/internal/storage/postgres"
	redisstore "bundle-bot/internal/storage/redis"
	"bundle-bot/pkg/logger"
	"bundle-bot/pkg/redis"
)

const storeReadyTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	bundles, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store, closeStore, err := newStore(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeStore()

	api, err := bot.NewAPI(cfg.TelegramToken, cfg.LogLevel == "debug", zapLogger)
	if err != nil {
		return err
	}

	if cfg.WebhookURL != "" {
		if err := bot.RegisterWebhook(api, cfg.WebhookURL, zapLogger); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	controller := bot.NewController(api, store, bundles, bot.Recipients{
		WorkerChatID: cfg.WorkerChatID,
		OwnerChatID:  cfg.OwnerChatID,
		MomoNumber:   cfg.MomoNumber,
	}, m, zapLogger)
	router := bot.NewRouter(controller, m, zapLogger)

	srv := server.New(
		cfg.Addr(),
		server.NewHandler(router, registry, zapLogger),
		cfg.ShutdownTimeout,
		zapLogger,
	)
	return srv.Run(ctx)
}

func newStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (order.Store, func(), error) {
	zapLogger.Info("Using order store", zap.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case config.StoreRedis:
		client := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.WaitReady(ctx, storeReadyTimeout, zapLogger); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("init redis store: %w", err)
		}
		return redisstore.New(client, cfg.Redis.TTL), client.Close, nil

	case config.StorePostgres:
		pg, err := postgres.NewStorage(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres store: %w", err)
		}
		return pg, func() { _ = pg.Close() }, nil

	default:
		return order.NewMemoryStore(), func() {}, nil
	}
}
