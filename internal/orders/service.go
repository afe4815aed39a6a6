package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the stock order lifecycle. ConfirmRelease is the single entry
// point that pays commissions: the order row is locked, all three credits run,
// and commission_paid flips, all inside one transaction.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ConfirmRelease(ctx context.Context, input ConfirmReleaseInput) (*ConfirmReleaseResult, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListForMarketer(ctx context.Context, marketerID uuid.UUID) ([]models.Order, error)
	ListPendingRelease(ctx context.Context) ([]models.Order, error)
}

type service struct {
	repo    Repository
	users   users.Repository
	wallets wallet.Service
	tx      txRunner
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo    Repository
	Users   users.Repository
	Wallets wallet.Service
	Tx      txRunner
}

// NewService validates dependencies and returns the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Wallets == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    params.Repo,
		users:   params.Users,
		wallets: params.Wallets,
		tx:      params.Tx,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.MarketerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.DeviceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid device type %q", input.DeviceType))
	}
	if input.DeviceName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device name is required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.SoldAmount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sold amount must be positive")
	}

	marketer, err := s.users.FindByID(ctx, input.MarketerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketer")
	}
	if marketer.Role != enums.RoleMarketer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only marketers can place stock orders")
	}
	if marketer.Locked {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is locked pending verification")
	}
	if marketer.OverallVerificationStatus != enums.OverallStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "marketer is not verified")
	}

	order := &models.Order{
		MarketerID: input.MarketerID,
		DealerID:   input.DealerID,
		DeviceType: input.DeviceType,
		DeviceName: input.DeviceName,
		Qty:        input.Qty,
		SoldAmount: input.SoldAmount,
		Status:     enums.OrderStatusReleasedPending,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

func (s *service) ConfirmRelease(ctx context.Context, input ConfirmReleaseInput) (*ConfirmReleaseResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ConfirmedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	result := &ConfirmReleaseResult{OrderID: input.OrderID}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// The row lock serializes concurrent confirmations so the
		// commission_paid check below cannot race.
		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		switch order.Status {
		case enums.OrderStatusReleasedPending:
			now := time.Now()
			if err := repo.Update(ctx, order.ID, map[string]any{
				"status":       enums.OrderStatusReleasedConfirmed,
				"confirmed_at": now,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
			}
			order.Status = enums.OrderStatusReleasedConfirmed
			order.ConfirmedAt = &now
		case enums.OrderStatusReleasedConfirmed:
			// Re-running a confirmation is allowed; the ledger's
			// idempotent insert makes the credits a no-op.
		default:
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is %s, cannot confirm release", order.Status),
			)
		}

		if order.CommissionPaid {
			result.AlreadyPaid = true
			result.Marketer = &wallet.CommissionCredit{UserID: order.MarketerID}
			result.Admin = &wallet.CommissionCredit{}
			result.SuperAdmin = &wallet.CommissionCredit{}
			return nil
		}

		if result.Marketer, err = s.wallets.CreditMarketerCommission(ctx, tx, order); err != nil {
			return err
		}
		if result.Admin, err = s.wallets.CreditAdminCommission(ctx, tx, order); err != nil {
			return err
		}
		if result.SuperAdmin, err = s.wallets.CreditSuperAdminCommission(ctx, tx, order); err != nil {
			return err
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"commission_paid": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark commission paid")
		}
		order.CommissionPaid = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListForMarketer(ctx context.Context, marketerID uuid.UUID) ([]models.Order, error) {
	if marketerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByMarketer(ctx, marketerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) ListPendingRelease(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListByStatus(ctx, enums.OrderStatusReleasedPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending orders")
	}
	return orders, nil
}
