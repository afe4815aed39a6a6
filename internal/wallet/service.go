package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
	"github.com/IgureAndrew/vistapro-backend/pkg/metrics"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns the commission ledger and balance arithmetic. Commission
// credits run inside the caller's transaction (the order-confirmation flow);
// withheld decisions open their own.
type Service interface {
	CreditMarketerCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*CommissionCredit, error)
	CreditAdminCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*CommissionCredit, error)
	CreditSuperAdminCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*CommissionCredit, error)

	ReleaseWithheld(ctx context.Context, input WithheldDecisionInput) (*WithheldDecisionResult, error)
	RejectWithheld(ctx context.Context, input WithheldDecisionInput) (*WithheldDecisionResult, error)
	ReleaseAllWithheld(ctx context.Context, decidedBy uuid.UUID) (*BatchReleaseResult, error)

	Balances(ctx context.Context, userID uuid.UUID) (*WalletView, error)
	Statement(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error)
}

type service struct {
	repo         Repository
	users        users.Repository
	tx           txRunner
	outbox       outboxPublisher
	metrics      *metrics.WalletMetrics
	availablePct int64
}

// ServiceParams wires the wallet service dependencies.
type ServiceParams struct {
	Repo         Repository
	Users        users.Repository
	Tx           txRunner
	Outbox       outboxPublisher
	Metrics      *metrics.WalletMetrics
	AvailablePct int64
}

// NewService validates dependencies and returns the wallet service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.AvailablePct <= 0 || params.AvailablePct > 100 {
		return nil, fmt.Errorf("available pct must be between 1 and 100")
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewWalletMetrics(nil)
	}
	return &service{
		repo:         params.Repo,
		users:        params.Users,
		tx:           params.Tx,
		outbox:       params.Outbox,
		metrics:      params.Metrics,
		availablePct: params.AvailablePct,
	}, nil
}

// splitCommission applies the integer floor split: the available share is
// floor(total * pct / 100) and the remainder stays withheld, so total=101 at
// 40% yields 40 available and 61 withheld.
func (s *service) splitCommission(total int64) (available, withheld int64) {
	available = total * s.availablePct / 100
	withheld = total - available
	return available, withheld
}

func (s *service) CreditMarketerCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*CommissionCredit, error) {
	if err := validateCreditArgs(tx, order); err != nil {
		return nil, err
	}
	if order.CommissionPaid {
		return &CommissionCredit{UserID: order.MarketerID}, nil
	}

	repo := s.repo.WithTx(tx)
	rate, err := repo.FindRate(ctx, enums.RoleMarketer, order.DeviceType)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no marketer commission rate for %s devices", order.DeviceType))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission rate")
	}

	total := rate.AmountKobo() * int64(order.Qty)
	available, withheld := s.splitCommission(total)

	meta := commissionMeta{OrderID: order.ID, DeviceType: order.DeviceType, Qty: order.Qty}
	rows := []creditRow{
		{txType: enums.TransactionMarketerCommission, amount: total},
		{txType: enums.TransactionMarketerCommissionAvailable, amount: available},
		{txType: enums.TransactionMarketerCommissionWithheld, amount: withheld},
	}
	inserted, err := s.postCommission(ctx, tx, order, order.MarketerID, rows, meta, total, available, withheld)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &CommissionCredit{UserID: order.MarketerID}, nil
	}

	credit := &CommissionCredit{
		UserID:        order.MarketerID,
		TotalKobo:     total,
		AvailableKobo: available,
		WithheldKobo:  withheld,
		Inserted:      true,
	}
	s.metrics.IncCommissionCredit(string(enums.TransactionMarketerCommission), total)
	return credit, s.emitCredit(ctx, tx, order, order.MarketerID, enums.TransactionMarketerCommission, total)
}

func (s *service) CreditAdminCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*CommissionCredit, error) {
	admin, err := s.resolveAdmin(ctx, tx, order)
	if err != nil {
		return nil, err
	}
	return s.creditFlat(ctx, tx, order, admin.ID, enums.RoleAdmin, enums.TransactionAdminCommission, nil)
}

func (s *service) CreditSuperAdminCommission(ctx context.Context, tx *gorm.DB, order *models.Order) (*CommissionCredit, error) {
	admin, err := s.resolveAdmin(ctx, tx, order)
	if err != nil {
		return nil, err
	}
	if admin.SuperAdminID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "admin has no assigned superadmin")
	}
	userRepo := s.users.WithTx(tx)
	super, err := userRepo.FindByID(ctx, *admin.SuperAdminID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "assigned superadmin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load superadmin")
	}
	marketer, err := userRepo.FindByID(ctx, order.MarketerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketer")
	}

	// Reporting convenience only: the superadmin statement row carries the
	// denormalized sale context.
	extra := &superAdminMeta{
		MarketerName: marketer.FirstName + " " + marketer.LastName,
		AdminName:    admin.FirstName + " " + admin.LastName,
		DeviceName:   order.DeviceName,
		SoldAmount:   order.SoldAmount,
	}
	return s.creditFlat(ctx, tx, order, super.ID, enums.RoleSuperAdmin, enums.TransactionSuperAdminCommission, extra)
}

// creditFlat posts a 100%-available commission for an admin or superadmin.
func (s *service) creditFlat(ctx context.Context, tx *gorm.DB, order *models.Order, userID uuid.UUID, role enums.Role, txType enums.TransactionType, extra *superAdminMeta) (*CommissionCredit, error) {
	if err := validateCreditArgs(tx, order); err != nil {
		return nil, err
	}
	if order.CommissionPaid {
		return &CommissionCredit{UserID: userID}, nil
	}

	repo := s.repo.WithTx(tx)
	rate, err := repo.FindRate(ctx, role, order.DeviceType)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no %s commission rate for %s devices", role, order.DeviceType))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission rate")
	}

	total := rate.AmountKobo() * int64(order.Qty)
	meta := commissionMeta{OrderID: order.ID, DeviceType: order.DeviceType, Qty: order.Qty, SuperAdmin: extra}
	rows := []creditRow{{txType: txType, amount: total}}

	inserted, err := s.postCommission(ctx, tx, order, userID, rows, meta, total, total, 0)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &CommissionCredit{UserID: userID}, nil
	}

	credit := &CommissionCredit{
		UserID:        userID,
		TotalKobo:     total,
		AvailableKobo: total,
		Inserted:      true,
	}
	s.metrics.IncCommissionCredit(string(txType), total)
	return credit, s.emitCredit(ctx, tx, order, userID, txType, total)
}

type creditRow struct {
	txType enums.TransactionType
	amount int64
}

type commissionMeta struct {
	OrderID    uuid.UUID        `json:"orderId"`
	DeviceType enums.DeviceType `json:"deviceType"`
	Qty        int              `json:"qty"`
	SuperAdmin *superAdminMeta  `json:"context,omitempty"`
}

type superAdminMeta struct {
	MarketerName string `json:"marketerName"`
	AdminName    string `json:"adminName"`
	DeviceName   string `json:"deviceName"`
	SoldAmount   int64  `json:"soldAmount"`
}

// postCommission inserts the ledger rows idempotently and moves balances only
// when every row was newly written. A duplicate call finds all rows already
// present, inserts nothing, and leaves balances untouched.
func (s *service) postCommission(ctx context.Context, tx *gorm.DB, order *models.Order, userID uuid.UUID, rows []creditRow, meta commissionMeta, totalDelta, availableDelta, withheldDelta int64) (bool, error) {
	repo := s.repo.WithTx(tx)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ledger meta")
	}

	wallet, err := repo.EnsureWallet(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure wallet")
	}
	if _, err := repo.FindWalletByUserForUpdate(ctx, userID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
	}

	orderID := order.ID
	insertedAny := false
	for _, row := range rows {
		inserted, err := repo.InsertTransactionIdempotent(ctx, &models.WalletTransaction{
			UserID:          userID,
			TransactionType: row.txType,
			Amount:          row.amount,
			OrderID:         &orderID,
			Meta:            metaJSON,
		})
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger row")
		}
		if inserted {
			insertedAny = true
		}
	}
	if !insertedAny {
		s.metrics.IncDuplicateCredit()
		return false, nil
	}

	if err := repo.ApplyBalanceDelta(ctx, wallet.ID, totalDelta, availableDelta, withheldDelta); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply balance delta")
	}
	return true, nil
}

func (s *service) emitCredit(ctx context.Context, tx *gorm.DB, order *models.Order, userID uuid.UUID, txType enums.TransactionType, amount int64) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventCommissionCredited,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Data: payloads.CommissionCreditedEvent{
			OrderID:         order.ID,
			UserID:          userID,
			TransactionType: txType,
			AmountKobo:      amount,
			DeviceType:      order.DeviceType,
			Qty:             order.Qty,
		},
	})
}

func (s *service) resolveAdmin(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.User, error) {
	if err := validateCreditArgs(tx, order); err != nil {
		return nil, err
	}
	userRepo := s.users.WithTx(tx)
	marketer, err := userRepo.FindByID(ctx, order.MarketerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketer")
	}
	if marketer.AdminID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "marketer has no assigned admin")
	}
	admin, err := userRepo.FindByID(ctx, *marketer.AdminID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "assigned admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}
	return admin, nil
}

func validateCreditArgs(tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for commission credit")
	}
	if order == nil || order.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if order.Status != enums.OrderStatusReleasedConfirmed {
		return pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, commission requires released_confirmed", order.Status),
		)
	}
	if order.Qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order quantity must be positive")
	}
	return nil
}

func (s *service) ReleaseWithheld(ctx context.Context, input WithheldDecisionInput) (*WithheldDecisionResult, error) {
	return s.decideWithheld(ctx, input, true)
}

func (s *service) RejectWithheld(ctx context.Context, input WithheldDecisionInput) (*WithheldDecisionResult, error) {
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required to reject withheld funds")
	}
	return s.decideWithheld(ctx, input, false)
}

func (s *service) decideWithheld(ctx context.Context, input WithheldDecisionInput, release bool) (*WithheldDecisionResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	var result *WithheldDecisionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.decideWithheldTx(ctx, tx, input, release)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decideWithheldTx is the shared lock-then-update-then-log path used by both
// the manual endpoints and the monthly batch job, so the two can never
// interleave on the same wallet row.
func (s *service) decideWithheldTx(ctx context.Context, tx *gorm.DB, input WithheldDecisionInput, release bool) (*WithheldDecisionResult, error) {
	repo := s.repo.WithTx(tx)

	wallet, err := repo.FindWalletByUserForUpdate(ctx, input.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
	}

	amount := wallet.WithheldBalance
	if amount <= 0 {
		return &WithheldDecisionResult{WalletID: wallet.ID, UserID: input.UserID, Released: release}, nil
	}

	txType := enums.TransactionWithheldRelease
	availableDelta := amount
	totalDelta := int64(0)
	if !release {
		// Rejected withheld funds leave the wallet entirely.
		txType = enums.TransactionWithheldReject
		availableDelta = 0
		totalDelta = -amount
	}

	metaJSON, err := json.Marshal(map[string]any{
		"decidedBy": input.DecidedBy,
		"reason":    input.Reason,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ledger meta")
	}
	if err := repo.InsertTransaction(ctx, &models.WalletTransaction{
		UserID:          input.UserID,
		TransactionType: txType,
		Amount:          amount,
		Meta:            metaJSON,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger row")
	}
	if err := repo.ApplyBalanceDelta(ctx, wallet.ID, totalDelta, availableDelta, -amount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply balance delta")
	}

	eventType := enums.EventWithheldReleased
	outcome := "released"
	if !release {
		eventType = enums.EventWithheldRejected
		outcome = "rejected"
	}
	s.metrics.IncWithheldDecision(outcome)

	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateWallet,
		AggregateID:   wallet.ID,
		Version:       1,
		Data: payloads.WithheldDecisionEvent{
			WalletID:   wallet.ID,
			UserID:     input.UserID,
			AmountKobo: amount,
			Released:   release,
			DecidedBy:  input.DecidedBy,
			Reason:     input.Reason,
		},
	}); err != nil {
		return nil, err
	}

	return &WithheldDecisionResult{
		WalletID:   wallet.ID,
		UserID:     input.UserID,
		AmountKobo: amount,
		Released:   release,
	}, nil
}

// ReleaseAllWithheld walks every wallet holding withheld funds and releases
// each inside its own transaction. Failures are collected so one bad wallet
// does not stall the rest of the batch.
func (s *service) ReleaseAllWithheld(ctx context.Context, decidedBy uuid.UUID) (*BatchReleaseResult, error) {
	wallets, err := s.repo.ListWalletsWithWithheld(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list withheld wallets")
	}

	result := &BatchReleaseResult{}
	for _, wallet := range wallets {
		decision, err := s.decideWithheld(ctx, WithheldDecisionInput{
			UserID:    wallet.UserID,
			DecidedBy: decidedBy,
			Reason:    "monthly release",
		}, true)
		if err != nil {
			result.Failed++
			continue
		}
		if decision.AmountKobo > 0 {
			result.Released++
			result.TotalKobo += decision.AmountKobo
		}
	}
	return result, nil
}

func (s *service) Balances(ctx context.Context, userID uuid.UUID) (*WalletView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	wallet, err := s.repo.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return &WalletView{
		WalletID:         wallet.ID,
		UserID:           wallet.UserID,
		TotalBalance:     wallet.TotalBalance,
		AvailableBalance: wallet.AvailableBalance,
		WithheldBalance:  wallet.WithheldBalance,
	}, nil
}

func (s *service) Statement(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListTransactionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load statement")
	}
	return rows, nil
}
