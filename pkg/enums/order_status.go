package enums

import "fmt"

// OrderStatus tracks the release lifecycle of a stock order. Only
// released_confirmed orders qualify for commission crediting.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "pending"
	OrderStatusReleasedPending   OrderStatus = "released_pending"
	OrderStatusReleasedConfirmed OrderStatus = "released_confirmed"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusReleasedPending,
	OrderStatusReleasedConfirmed,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
