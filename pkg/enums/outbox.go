package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateSubmission OutboxAggregateType = "verification_submission"
	AggregateOrder      OutboxAggregateType = "order"
	AggregateWallet     OutboxAggregateType = "wallet"
	AggregateWithdrawal OutboxAggregateType = "withdrawal_request"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateSubmission,
	AggregateOrder,
	AggregateWallet,
	AggregateWithdrawal,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventFormsCompleted      OutboxEventType = "verification.forms_completed"
	EventAdminReviewed       OutboxEventType = "verification.admin_reviewed"
	EventSuperAdminVerified  OutboxEventType = "verification.superadmin_verified"
	EventSubmissionApproved  OutboxEventType = "verification.approved"
	EventSubmissionRejected  OutboxEventType = "verification.rejected"
	EventRefillAllowed       OutboxEventType = "verification.refill_allowed"
	EventCommissionCredited  OutboxEventType = "commission.credited"
	EventWithheldReleased    OutboxEventType = "withheld.released"
	EventWithheldRejected    OutboxEventType = "withheld.rejected"
	EventWithdrawalRequested OutboxEventType = "withdrawal.requested"
	EventWithdrawalDecided   OutboxEventType = "withdrawal.decided"
)

var validOutboxEventTypes = []OutboxEventType{
	EventFormsCompleted,
	EventAdminReviewed,
	EventSuperAdminVerified,
	EventSubmissionApproved,
	EventSubmissionRejected,
	EventRefillAllowed,
	EventCommissionCredited,
	EventWithheldReleased,
	EventWithheldRejected,
	EventWithdrawalRequested,
	EventWithdrawalDecided,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
