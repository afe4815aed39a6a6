package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// Order is a stock sale recorded against a marketer. Its status and
// commission_paid flag gate whether commission crediting may run; the wallet
// ledger reads but does not own this row.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketerID     uuid.UUID         `gorm:"column:marketer_id;type:uuid;not null;index"`
	DealerID       *uuid.UUID        `gorm:"column:dealer_id;type:uuid"`
	DeviceType     enums.DeviceType  `gorm:"column:device_type;type:device_type;not null"`
	DeviceName     string            `gorm:"column:device_name;not null"`
	Qty            int               `gorm:"column:qty;not null"`
	SoldAmount     int64             `gorm:"column:sold_amount;not null"`
	Status         enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	CommissionPaid bool              `gorm:"column:commission_paid;not null;default:false"`
	ConfirmedAt    *time.Time        `gorm:"column:confirmed_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
