package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IgureAndrew/vistapro-backend/api/controllers"
	"github.com/IgureAndrew/vistapro-backend/api/middleware"
	"github.com/IgureAndrew/vistapro-backend/internal/auth"
	"github.com/IgureAndrew/vistapro-backend/internal/notifications"
	"github.com/IgureAndrew/vistapro-backend/internal/orders"
	"github.com/IgureAndrew/vistapro-backend/internal/uploads"
	"github.com/IgureAndrew/vistapro-backend/internal/verification"
	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/internal/withdrawals"
	"github.com/IgureAndrew/vistapro-backend/pkg/auth/session"
	"github.com/IgureAndrew/vistapro-backend/pkg/config"
	"github.com/IgureAndrew/vistapro-backend/pkg/db"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/redis"
)

type sessionVerifier interface {
	session.AccessSessionChecker
}

// Services bundles everything the router mounts.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	Verification  verification.Service
	Wallet        wallet.Service
	Withdrawals   withdrawals.Service
	Orders        orders.Service
	Notifications notifications.Service
	Uploads       uploads.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	sessions sessionVerifier,
	metricsRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, database, redisClient))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/verification", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleMarketer), logg))
				r.Post("/biodata", controllers.SubmitBiodata(svcs.Verification, logg))
				r.Post("/guarantor", controllers.SubmitGuarantor(svcs.Verification, logg))
				r.Post("/commitment", controllers.SubmitCommitment(svcs.Verification, logg))
				r.Get("/status", controllers.VerificationStatus(svcs.Verification, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
				r.Post("/{submissionId}/evidence", controllers.UploadEvidence(svcs.Verification, logg))
				r.Post("/{submissionId}/send", controllers.VerifyAndSend(svcs.Verification, logg))
			})

			r.With(middleware.RequireRole(string(enums.RoleSuperAdmin), logg)).
				Post("/{submissionId}/superadmin-verify", controllers.SuperAdminVerify(svcs.Verification, logg))
			r.With(middleware.RequireRole(string(enums.RoleMasterAdmin), logg)).
				Post("/{submissionId}/masteradmin-decision", controllers.MasterAdminDecision(svcs.Verification, logg))

			reviewerRoles := middleware.RequireAnyRole(logg,
				string(enums.RoleAdmin), string(enums.RoleSuperAdmin), string(enums.RoleMasterAdmin))
			r.With(reviewerRoles).Post("/{submissionId}/cancel", controllers.CancelSubmission(svcs.Verification, logg))
			r.With(reviewerRoles).Post("/refill/{marketerId}", controllers.AllowRefill(svcs.Verification, logg))
			r.With(reviewerRoles).Get("/{submissionId}/history", controllers.VerificationHistory(svcs.Verification, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", controllers.WalletBalances(svcs.Wallet, logg))
			r.Get("/transactions", controllers.WalletStatement(svcs.Wallet, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleMasterAdmin), logg))
				r.Post("/{userId}/withheld/release", controllers.ReleaseWithheld(svcs.Wallet, logg))
				r.Post("/{userId}/withheld/reject", controllers.RejectWithheld(svcs.Wallet, logg))
			})
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", controllers.CreateWithdrawal(svcs.Withdrawals, logg))
			r.Get("/", controllers.ListWithdrawals(svcs.Withdrawals, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleMasterAdmin), logg))
				r.Get("/pending", controllers.ListPendingWithdrawals(svcs.Withdrawals, logg))
				r.Post("/{withdrawalId}/decision", controllers.DecideWithdrawal(svcs.Withdrawals, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireRole(string(enums.RoleMarketer), logg)).
				Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.RoleMasterAdmin), logg))
				r.Get("/pending-release", controllers.ListPendingReleaseOrders(svcs.Orders, logg))
				r.Post("/{orderId}/confirm-release", controllers.ConfirmOrderRelease(svcs.Orders, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Post("/uploads/presign", controllers.PresignUpload(svcs.Uploads, logg))
	})

	return r
}
