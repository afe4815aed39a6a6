package wallet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// Repository manages wallets, the transaction ledger and commission rates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindWalletByUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	FindWalletByUserForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	ApplyBalanceDelta(ctx context.Context, walletID uuid.UUID, totalDelta, availableDelta, withheldDelta int64) error
	ListWalletsWithWithheld(ctx context.Context) ([]models.Wallet, error)

	InsertTransactionIdempotent(ctx context.Context, row *models.WalletTransaction) (bool, error)
	InsertTransaction(ctx context.Context, row *models.WalletTransaction) error
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error)

	FindRate(ctx context.Context, role enums.Role, deviceType enums.DeviceType) (*models.CommissionRate, error)
	UpsertRate(ctx context.Context, rate *models.CommissionRate) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wallet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindWalletByUser(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) FindWalletByUserForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var wallet models.Wallet
	if err := query.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// EnsureWallet returns the user's wallet, creating a zero-balance row on
// first use. Callers needing the row locked should re-read with
// FindWalletByUserForUpdate inside their transaction.
func (r *repository) EnsureWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := r.FindWalletByUser(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &models.Wallet{UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(created).Error; err != nil {
		return nil, err
	}
	return r.FindWalletByUser(ctx, userID)
}

func (r *repository) ApplyBalanceDelta(ctx context.Context, walletID uuid.UUID, totalDelta, availableDelta, withheldDelta int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]any{
			"total_balance":     gorm.Expr("total_balance + ?", totalDelta),
			"available_balance": gorm.Expr("available_balance + ?", availableDelta),
			"withheld_balance":  gorm.Expr("withheld_balance + ?", withheldDelta),
		}).Error
}

func (r *repository) ListWalletsWithWithheld(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := r.db.WithContext(ctx).
		Where("withheld_balance > 0").
		Order("created_at ASC").
		Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

// InsertTransactionIdempotent inserts a ledger row, treating a conflict on
// (user_id, transaction_type, order_id) as a no-op. The returned bool reports
// whether the row was newly written; balances must only move when it is true.
func (r *repository) InsertTransactionIdempotent(ctx context.Context, row *models.WalletTransaction) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "transaction_type"},
				{Name: "order_id"},
			},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) InsertTransaction(ctx context.Context, row *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.WalletTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindRate(ctx context.Context, role enums.Role, deviceType enums.DeviceType) (*models.CommissionRate, error) {
	var rate models.CommissionRate
	if err := r.db.WithContext(ctx).
		Where("role = ? AND device_type = ?", role, deviceType).
		First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) UpsertRate(ctx context.Context, rate *models.CommissionRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "role"},
				{Name: "device_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(rate).Error
}
