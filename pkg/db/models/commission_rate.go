package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// CommissionRate is the flat naira amount a role earns per unit sold for a
// given device type. Stored as numeric(14,2); converted to kobo at posting.
type CommissionRate struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Role       enums.Role       `gorm:"column:role;type:user_role;not null;uniqueIndex:ux_commission_rates_role_device"`
	DeviceType enums.DeviceType `gorm:"column:device_type;type:device_type;not null;uniqueIndex:ux_commission_rates_role_device"`
	Amount     decimal.Decimal  `gorm:"column:amount;type:numeric(14,2);not null"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// AmountKobo returns the per-unit rate in kobo minor units.
func (c CommissionRate) AmountKobo() int64 {
	return c.Amount.Mul(decimal.NewFromInt(100)).IntPart()
}
