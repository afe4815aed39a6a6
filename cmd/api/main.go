package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/api/routes"
	"github.com/IgureAndrew/vistapro-backend/internal/auth"
	"github.com/IgureAndrew/vistapro-backend/internal/notifications"
	"github.com/IgureAndrew/vistapro-backend/internal/orders"
	"github.com/IgureAndrew/vistapro-backend/internal/uploads"
	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/internal/verification"
	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/internal/withdrawals"
	"github.com/IgureAndrew/vistapro-backend/pkg/auth/session"
	"github.com/IgureAndrew/vistapro-backend/pkg/config"
	"github.com/IgureAndrew/vistapro-backend/pkg/db"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/metrics"
	"github.com/IgureAndrew/vistapro-backend/pkg/migrate"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/redis"
	"github.com/IgureAndrew/vistapro-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	walletMetrics := metrics.NewWalletMetrics(registry)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner: dbClient,
		UserRepoFactory: func(tx *gorm.DB) auth.RegisterUserRepository {
			return userRepo.WithTx(tx)
		},
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	verificationService, err := verification.NewService(verification.ServiceParams{
		Repo:   verification.NewRepository(gormDB),
		Users:  userRepo,
		Tx:     dbClient,
		Outbox: outboxService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create verification service", err)
		os.Exit(1)
	}

	walletRepo := wallet.NewRepository(gormDB)
	walletService, err := wallet.NewService(wallet.ServiceParams{
		Repo:         walletRepo,
		Users:        userRepo,
		Tx:           dbClient,
		Outbox:       outboxService,
		Metrics:      walletMetrics,
		AvailablePct: cfg.Wallet.AvailablePct,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	withdrawalsService, err := withdrawals.NewService(withdrawals.ServiceParams{
		Repo:    withdrawals.NewRepository(gormDB),
		Wallets: walletRepo,
		Users:   userRepo,
		Tx:      dbClient,
		Outbox:  outboxService,
		Metrics: walletMetrics,
		FeeKobo: cfg.Wallet.WithdrawalFee,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create withdrawals service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(gormDB),
		Users:   userRepo,
		Wallets: walletService,
		Tx:      dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	uploadsService, err := buildUploadsService(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create uploads service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, registry, routes.Services{
			Auth:          authService,
			Register:      registerService,
			Verification:  verificationService,
			Wallet:        walletService,
			Withdrawals:   withdrawalsService,
			Orders:        ordersService,
			Notifications: notificationsService,
			Uploads:       uploadsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildUploadsService wires the GCS presigner when a bucket is configured and
// falls back to placeholder URLs when it is not.
func buildUploadsService(cfg *config.Config, logg *logger.Logger) (uploads.Service, error) {
	if cfg.GCS.BucketName == "" {
		logg.Warn(context.Background(), "gcs bucket not configured, presigned uploads run in placeholder mode")
		return uploads.NewService(nil, "", cfg.GCS.UploadURLExpiry)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		return nil, err
	}
	return uploads.NewService(gcsClient, cfg.GCS.BucketName, cfg.GCS.UploadURLExpiry)
}
