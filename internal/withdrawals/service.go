package withdrawals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
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

// Service handles the withdrawal subflow. Funds are deducted up front at
// request time under a wallet row lock; approval pays out without touching
// balances and rejection refunds the full deduction.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.WithdrawalRequest, error)
	Approve(ctx context.Context, input DecisionInput) (*models.WithdrawalRequest, error)
	Reject(ctx context.Context, input DecisionInput) (*models.WithdrawalRequest, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error)
	ListPending(ctx context.Context) ([]models.WithdrawalRequest, error)
}

type service struct {
	repo    Repository
	wallets wallet.Repository
	users   users.Repository
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.WalletMetrics
	feeKobo int64
}

// ServiceParams wires the withdrawal service dependencies.
type ServiceParams struct {
	Repo    Repository
	Wallets wallet.Repository
	Users   users.Repository
	Tx      txRunner
	Outbox  outboxPublisher
	Metrics *metrics.WalletMetrics
	FeeKobo int64
}

// CreateInput carries a new cash-out request.
type CreateInput struct {
	UserID        uuid.UUID
	AmountKobo    int64
	AccountName   string
	AccountNumber string
	BankName      string
}

// DecisionInput carries a reviewer's verdict on a pending request.
type DecisionInput struct {
	RequestID  uuid.UUID
	ReviewedBy uuid.UUID
	Reason     string
}

// NewService validates dependencies and returns the withdrawals service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("withdrawals repository required")
	}
	if params.Wallets == nil {
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
	if params.FeeKobo < 0 {
		return nil, fmt.Errorf("withdrawal fee cannot be negative")
	}
	if params.Metrics == nil {
		params.Metrics = metrics.NewWalletMetrics(nil)
	}
	return &service{
		repo:    params.Repo,
		wallets: params.Wallets,
		users:   params.Users,
		tx:      params.Tx,
		outbox:  params.Outbox,
		metrics: params.Metrics,
		feeKobo: params.FeeKobo,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.WithdrawalRequest, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AmountKobo <= s.feeKobo {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must exceed the withdrawal fee")
	}
	if input.AccountName == "" || input.AccountNumber == "" || input.BankName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank account details are required")
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	// Admins and superadmins may cash out once per calendar month.
	if user.Role == enums.RoleAdmin || user.Role == enums.RoleSuperAdmin {
		from, to := monthWindow(time.Now())
		exists, err := s.repo.ExistsInWindow(ctx, input.UserID, from, to)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check monthly limit")
		}
		if exists {
			return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "only one withdrawal request is allowed per month")
		}
	}

	deduction := input.AmountKobo + s.feeKobo
	var request *models.WithdrawalRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		walletRepo := s.wallets.WithTx(tx)

		row, err := walletRepo.FindWalletByUserForUpdate(ctx, input.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "wallet has no available balance")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
		}
		if row.AvailableBalance < deduction {
			return pkgerrors.New(pkgerrors.CodeInsufficientFunds,
				fmt.Sprintf("available balance %d is below the %d required", row.AvailableBalance, deduction))
		}

		// The fee is charged on top of the requested amount, so the payout
		// equals the amount itself.
		request = &models.WithdrawalRequest{
			UserID:        input.UserID,
			Amount:        input.AmountKobo,
			Fee:           s.feeKobo,
			NetAmount:     input.AmountKobo,
			Status:        enums.WithdrawalStatusPending,
			AccountName:   input.AccountName,
			AccountNumber: input.AccountNumber,
			BankName:      input.BankName,
		}
		if err := repo.Create(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create withdrawal request")
		}

		meta, err := json.Marshal(map[string]any{"withdrawalId": request.ID, "feeKobo": s.feeKobo})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ledger meta")
		}
		if err := walletRepo.InsertTransaction(ctx, &models.WalletTransaction{
			UserID:          input.UserID,
			TransactionType: enums.TransactionWithdrawalRequest,
			Amount:          -deduction,
			Meta:            meta,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert ledger row")
		}
		if err := walletRepo.ApplyBalanceDelta(ctx, row.ID, -deduction, -deduction, 0); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply balance delta")
		}

		s.metrics.IncWithdrawalRequest()
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWithdrawalRequested,
			AggregateType: enums.AggregateWithdrawal,
			AggregateID:   request.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.UserID, Role: string(user.Role)},
			Data: payloads.WithdrawalRequestedEvent{
				WithdrawalID:  request.ID,
				UserID:        input.UserID,
				AmountKobo:    request.Amount,
				FeeKobo:       request.Fee,
				NetAmountKobo: request.NetAmount,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Approve marks a pending request approved. The funds were already deducted
// at request time, so no balances move; the fee stays with the platform.
func (s *service) Approve(ctx context.Context, input DecisionInput) (*models.WithdrawalRequest, error) {
	return s.decide(ctx, input, true)
}

// Reject refunds the full deduction (amount plus fee) to available balance.
func (s *service) Reject(ctx context.Context, input DecisionInput) (*models.WithdrawalRequest, error) {
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required to reject")
	}
	return s.decide(ctx, input, false)
}

func (s *service) decide(ctx context.Context, input DecisionInput, approve bool) (*models.WithdrawalRequest, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.ReviewedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var request *models.WithdrawalRequest
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		walletRepo := s.wallets.WithTx(tx)

		row, err := repo.FindByIDForUpdate(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load withdrawal request")
		}
		if row.Status != enums.WithdrawalStatusPending {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("withdrawal request is already %s", row.Status),
			)
		}

		now := time.Now()
		status := enums.WithdrawalStatusApproved
		outcome := "approved"
		updates := map[string]any{
			"status":      status,
			"reviewed_by": input.ReviewedBy,
			"reviewed_at": now,
		}
		if !approve {
			status = enums.WithdrawalStatusRejected
			outcome = "rejected"
			updates["status"] = status
			updates["rejection_reason"] = input.Reason

			refund := row.Amount + row.Fee
			walletRow, err := walletRepo.FindWalletByUserForUpdate(ctx, row.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wallet")
			}
			meta, err := json.Marshal(map[string]any{"withdrawalId": row.ID, "reason": input.Reason})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ledger meta")
			}
			if err := walletRepo.InsertTransaction(ctx, &models.WalletTransaction{
				UserID:          row.UserID,
				TransactionType: enums.TransactionWithdrawalRefund,
				Amount:          refund,
				Meta:            meta,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert refund row")
			}
			if err := walletRepo.ApplyBalanceDelta(ctx, walletRow.ID, refund, refund, 0); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply refund")
			}
		}

		if err := repo.UpdateDecision(ctx, row.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update withdrawal request")
		}

		row.Status = status
		row.ReviewedBy = &input.ReviewedBy
		row.ReviewedAt = &now
		if !approve {
			row.RejectionReason = &input.Reason
		}
		request = row

		s.metrics.IncWithdrawalDecision(outcome)
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWithdrawalDecided,
			AggregateType: enums.AggregateWithdrawal,
			AggregateID:   row.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ReviewedBy},
			Data: payloads.WithdrawalDecidedEvent{
				WithdrawalID: row.ID,
				UserID:       row.UserID,
				Status:       status,
				AmountKobo:   row.Amount,
				DecidedBy:    input.ReviewedBy,
				Reason:       input.Reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.WithdrawalRequest, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	requests, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list withdrawal requests")
	}
	return requests, nil
}

func (s *service) ListPending(ctx context.Context) ([]models.WithdrawalRequest, error) {
	requests, err := s.repo.ListByStatus(ctx, enums.WithdrawalStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}
	return requests, nil
}

func monthWindow(at time.Time) (time.Time, time.Time) {
	from := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	return from, from.AddDate(0, 1, 0)
}
