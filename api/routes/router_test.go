package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/auth"
	"github.com/IgureAndrew/vistapro-backend/internal/notifications"
	ordersvc "github.com/IgureAndrew/vistapro-backend/internal/orders"
	"github.com/IgureAndrew/vistapro-backend/internal/uploads"
	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/internal/verification"
	walletsvc "github.com/IgureAndrew/vistapro-backend/internal/wallet"
	withdrawalsvc "github.com/IgureAndrew/vistapro-backend/internal/withdrawals"
	pkgAuth "github.com/IgureAndrew/vistapro-backend/pkg/auth"
	"github.com/IgureAndrew/vistapro-backend/pkg/auth/session"
	"github.com/IgureAndrew/vistapro-backend/pkg/config"
	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubVerificationService struct{}

func (stubVerificationService) SubmitBiodata(ctx context.Context, input verification.SubmitBiodataInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) SubmitGuarantor(ctx context.Context, input verification.SubmitGuarantorInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) SubmitCommitment(ctx context.Context, input verification.SubmitCommitmentInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) UploadEvidence(ctx context.Context, input verification.UploadEvidenceInput) error {
	return nil
}

func (stubVerificationService) VerifyAndSend(ctx context.Context, input verification.VerifyAndSendInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) SuperAdminVerify(ctx context.Context, input verification.SuperAdminVerifyInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) MasterAdminDecision(ctx context.Context, input verification.MasterAdminDecisionInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) Cancel(ctx context.Context, input verification.CancelInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) AllowRefill(ctx context.Context, input verification.AllowRefillInput) (*verification.SubmissionResult, error) {
	return &verification.SubmissionResult{}, nil
}

func (stubVerificationService) Status(ctx context.Context, marketerID uuid.UUID) (*verification.StatusView, error) {
	return &verification.StatusView{}, nil
}

func (stubVerificationService) History(ctx context.Context, submissionID uuid.UUID) ([]verification.HistoryEntry, error) {
	return nil, nil
}

type stubWalletService struct{}

func (stubWalletService) CreditMarketerCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*walletsvc.CommissionCredit, error) {
	return &walletsvc.CommissionCredit{}, nil
}

func (stubWalletService) CreditAdminCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*walletsvc.CommissionCredit, error) {
	return &walletsvc.CommissionCredit{}, nil
}

func (stubWalletService) CreditSuperAdminCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*walletsvc.CommissionCredit, error) {
	return &walletsvc.CommissionCredit{}, nil
}

func (stubWalletService) ReleaseWithheld(ctx context.Context, input walletsvc.WithheldDecisionInput) (*walletsvc.WithheldDecisionResult, error) {
	return &walletsvc.WithheldDecisionResult{}, nil
}

func (stubWalletService) RejectWithheld(ctx context.Context, input walletsvc.WithheldDecisionInput) (*walletsvc.WithheldDecisionResult, error) {
	return &walletsvc.WithheldDecisionResult{}, nil
}

func (stubWalletService) ReleaseAllWithheld(ctx context.Context, decidedBy uuid.UUID) (*walletsvc.BatchReleaseResult, error) {
	return &walletsvc.BatchReleaseResult{}, nil
}

func (stubWalletService) Balances(ctx context.Context, userID uuid.UUID) (*walletsvc.WalletView, error) {
	return &walletsvc.WalletView{}, nil
}

func (stubWalletService) Statement(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	return nil, nil
}

type stubWithdrawalsService struct{}

func (stubWithdrawalsService) Create(ctx context.Context, input withdrawalsvc.CreateInput) (*models.WithdrawalRequest, error) {
	return &models.WithdrawalRequest{}, nil
}

func (stubWithdrawalsService) Approve(ctx context.Context, input withdrawalsvc.DecisionInput) (*models.WithdrawalRequest, error) {
	return &models.WithdrawalRequest{}, nil
}

func (stubWithdrawalsService) Reject(ctx context.Context, input withdrawalsvc.DecisionInput) (*models.WithdrawalRequest, error) {
	return &models.WithdrawalRequest{}, nil
}

func (stubWithdrawalsService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	return nil, nil
}

func (stubWithdrawalsService) ListPending(ctx context.Context) ([]models.WithdrawalRequest, error) {
	return nil, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input ordersvc.CreateOrderInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) ConfirmRelease(ctx context.Context, input ordersvc.ConfirmReleaseInput) (*ordersvc.ConfirmReleaseResult, error) {
	return &ordersvc.ConfirmReleaseResult{}, nil
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) ListForMarketer(ctx context.Context, marketerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (stubOrdersService) ListPendingRelease(ctx context.Context) ([]models.Order, error) {
	return nil, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubUploadsService struct{}

func (stubUploadsService) PresignUpload(ctx context.Context, userID uuid.UUID, role enums.Role, input uploads.PresignInput) (*uploads.PresignOutput, error) {
	return &uploads.PresignOutput{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionManager{},
		nil,
		Services{
			Auth:          stubAuthService{},
			Register:      stubRegisterService{},
			Verification:  stubVerificationService{},
			Wallet:        stubWalletService{},
			Withdrawals:   stubWithdrawalsService{},
			Orders:        stubOrdersService{},
			Notifications: stubNotificationsService{},
			Uploads:       stubUploadsService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		UniqueID: "DSR000001",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMarketer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestVerificationSubmitRequiresMarketerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"address":"12 Allen Ave","id_type":"nin","id_document_url":"u","passport_photo_url":"u","next_of_kin_name":"n","next_of_kin_phone":"p","bank_name":"b","account_number":"1","account_name":"a"}`

	asAdmin := httptest.NewRequest(http.MethodPost, "/api/v1/verification/biodata", strings.NewReader(body))
	asAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin biodata got %d", resp.Code)
	}

	asMarketer := httptest.NewRequest(http.MethodPost, "/api/v1/verification/biodata", strings.NewReader(body))
	asMarketer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMarketer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asMarketer)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for marketer biodata got %d", resp.Code)
	}
}

func TestMasterAdminDecisionRequiresMasterAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	path := "/api/v1/verification/" + uuid.NewString() + "/masteradmin-decision"
	body := `{"approve":true}`

	asSuperAdmin := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	asSuperAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSuperAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asSuperAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for superadmin decision got %d", resp.Code)
	}

	asMasterAdmin := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	asMasterAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMasterAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asMasterAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for masteradmin decision got %d", resp.Code)
	}
}

func TestWithheldDecisionRequiresMasterAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	path := "/api/v1/wallet/" + uuid.NewString() + "/withheld/release"

	asMarketer := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
	asMarketer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMarketer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asMarketer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for marketer withheld release got %d", resp.Code)
	}

	asMasterAdmin := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"reason":"cleared"}`))
	asMasterAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMasterAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asMasterAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for masteradmin withheld release got %d", resp.Code)
	}
}

func TestConfirmReleaseRequiresMasterAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	path := "/api/v1/orders/" + uuid.NewString() + "/confirm-release"

	asMarketer := httptest.NewRequest(http.MethodPost, path, nil)
	asMarketer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMarketer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asMarketer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for marketer confirm-release got %d", resp.Code)
	}

	asMasterAdmin := httptest.NewRequest(http.MethodPost, path, nil)
	asMasterAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleMasterAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, asMasterAdmin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for masteradmin confirm-release got %d", resp.Code)
	}
}

func TestWalletBalancesReachableForAnyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallet/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for wallet balances got %d", resp.Code)
	}
}

func TestHealthReadyReportsChecks(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestLoginRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}
