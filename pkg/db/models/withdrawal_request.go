package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// WithdrawalRequest is a user's request to cash out available balance. The
// requested amount plus the flat fee is deducted up front; a rejection
// refunds the full deduction, an approval leaves it in place. NetAmount is
// the payout itself, since the fee is charged on top of the requested amount.
type WithdrawalRequest struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Amount    int64                  `gorm:"column:amount;not null"`
	Fee       int64                  `gorm:"column:fee;not null"`
	NetAmount int64                  `gorm:"column:net_amount;not null"`
	Status    enums.WithdrawalStatus `gorm:"column:status;type:withdrawal_status;not null;default:'pending'"`

	AccountName   string `gorm:"column:account_name;not null"`
	AccountNumber string `gorm:"column:account_number;not null"`
	BankName      string `gorm:"column:bank_name;not null"`

	ReviewedBy      *uuid.UUID `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
