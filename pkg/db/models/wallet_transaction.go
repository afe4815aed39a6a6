package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// WalletTransaction is an immutable ledger entry. For commission-tagged rows
// OrderID is required and the composite unique index on
// (user_id, transaction_type, order_id) is the idempotency key that makes
// duplicate commission postings a no-op.
type WalletTransaction struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:ux_wallet_tx_user_type_order"`
	TransactionType enums.TransactionType `gorm:"column:transaction_type;type:transaction_type;not null;uniqueIndex:ux_wallet_tx_user_type_order"`
	Amount          int64                 `gorm:"column:amount;not null"`
	OrderID         *uuid.UUID            `gorm:"column:order_id;type:uuid;uniqueIndex:ux_wallet_tx_user_type_order"`
	Meta            json.RawMessage       `gorm:"column:meta;type:jsonb"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
}
