package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IgureAndrew/vistapro-backend/internal/cron"
	"github.com/IgureAndrew/vistapro-backend/internal/notifications"
	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/internal/withdrawals"
	"github.com/IgureAndrew/vistapro-backend/pkg/config"
	"github.com/IgureAndrew/vistapro-backend/pkg/db"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/metrics"
	"github.com/IgureAndrew/vistapro-backend/pkg/migrate"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/redis"
)

const lockKeyFormat = "vistapro:cron-worker:lock:%s"

// systemActorID is recorded as decided_by on batch-released withheld funds so
// the ledger distinguishes scheduled releases from manual ones.
var systemActorID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)
	outboxRepo := outbox.NewRepository(gormDB)
	outboxService := outbox.NewService(outboxRepo, logg)

	walletService, err := wallet.NewService(wallet.ServiceParams{
		Repo:         wallet.NewRepository(gormDB),
		Users:        userRepo,
		Tx:           dbClient,
		Outbox:       outboxService,
		Metrics:      metrics.NewWalletMetrics(prometheus.DefaultRegisterer),
		AvailablePct: cfg.Wallet.AvailablePct,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	notificationCleanup, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		Repository: notificationRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	outboxRetention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outboxRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	withheldRelease, err := cron.NewWithheldReleaseJob(cron.WithheldReleaseJobParams{
		Logger: logg,
		Wallet: walletService,
		Actor:  systemActorID,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create withheld release job", err)
		os.Exit(1)
	}

	withdrawalReminder, err := cron.NewWithdrawalReminderJob(cron.WithdrawalReminderJobParams{
		Logger:        logg,
		Withdrawals:   withdrawals.NewRepository(gormDB),
		Users:         userRepo,
		Notifications: notificationRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create withdrawal reminder job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry(
		withheldRelease,
		withdrawalReminder,
		notificationCleanup,
		outboxRetention,
	)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
