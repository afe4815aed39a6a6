package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds derived running balances per user, in kobo. It is updated only
// as a side effect of a WalletTransaction insert succeeding, and maintains
// total_balance == available_balance + withheld_balance.
type Wallet struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	TotalBalance     int64     `gorm:"column:total_balance;not null;default:0"`
	AvailableBalance int64     `gorm:"column:available_balance;not null;default:0"`
	WithheldBalance  int64     `gorm:"column:withheld_balance;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
