package orders

import (
	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// CreateOrderInput carries a marketer's new stock order.
type CreateOrderInput struct {
	MarketerID uuid.UUID
	DealerID   *uuid.UUID
	DeviceType enums.DeviceType
	DeviceName string
	Qty        int
	SoldAmount int64
}

// ConfirmReleaseInput identifies the order a master admin is confirming.
type ConfirmReleaseInput struct {
	OrderID     uuid.UUID
	ConfirmedBy uuid.UUID
}

// ConfirmReleaseResult reports what the confirmation credited. All three
// credits are zero-amount when the order had already been paid out.
type ConfirmReleaseResult struct {
	OrderID     uuid.UUID                `json:"order_id"`
	Marketer    *wallet.CommissionCredit `json:"marketer"`
	Admin       *wallet.CommissionCredit `json:"admin"`
	SuperAdmin  *wallet.CommissionCredit `json:"super_admin"`
	AlreadyPaid bool                     `json:"already_paid"`
}
