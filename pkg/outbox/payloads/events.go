package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// FormsCompletedEvent is emitted when a marketer finishes the third
// verification form and the submission advances to admin review.
type FormsCompletedEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	MarketerID   uuid.UUID `json:"marketer_id"`
	AdminID      uuid.UUID `json:"admin_id"`
	CompletedAt  time.Time `json:"completed_at"`
}

// AdminReviewedEvent is emitted when an admin attaches evidence and sends the
// submission upward.
type AdminReviewedEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	MarketerID   uuid.UUID `json:"marketer_id"`
	AdminID      uuid.UUID `json:"admin_id"`
	SuperAdminID uuid.UUID `json:"superadmin_id"`
}

// SuperAdminVerifiedEvent is emitted when a superadmin passes the submission
// to the master admin.
type SuperAdminVerifiedEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	MarketerID   uuid.UUID `json:"marketer_id"`
	SuperAdminID uuid.UUID `json:"superadmin_id"`
}

// SubmissionApprovedEvent is emitted on the master admin's final approval.
type SubmissionApprovedEvent struct {
	SubmissionID  uuid.UUID `json:"submission_id"`
	MarketerID    uuid.UUID `json:"marketer_id"`
	MasterAdminID uuid.UUID `json:"masteradmin_id"`
	ApprovedAt    time.Time `json:"approved_at"`
}

// SubmissionRejectedEvent is emitted when any reviewer rejects a submission.
// AdminID is the submission's assigned admin so rejections above the admin
// stage can reach them too.
type SubmissionRejectedEvent struct {
	SubmissionID uuid.UUID  `json:"submission_id"`
	MarketerID   uuid.UUID  `json:"marketer_id"`
	AdminID      uuid.UUID  `json:"admin_id,omitempty"`
	RejectedBy   uuid.UUID  `json:"rejected_by"`
	RejectorRole enums.Role `json:"rejector_role"`
	Reason       string     `json:"reason"`
}

// RefillAllowedEvent is emitted when a rejected marketer is allowed to
// resubmit their forms.
type RefillAllowedEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	MarketerID   uuid.UUID `json:"marketer_id"`
	AllowedBy    uuid.UUID `json:"allowed_by"`
}

// CommissionCreditedEvent is emitted once per ledger credit applied during
// order confirmation.
type CommissionCreditedEvent struct {
	OrderID         uuid.UUID             `json:"order_id"`
	UserID          uuid.UUID             `json:"user_id"`
	TransactionType enums.TransactionType `json:"transaction_type"`
	AmountKobo      int64                 `json:"amount_kobo"`
	DeviceType      enums.DeviceType      `json:"device_type"`
	Qty             int                   `json:"qty"`
}

// WithheldDecisionEvent covers both release and rejection of a marketer's
// withheld balance.
type WithheldDecisionEvent struct {
	WalletID   uuid.UUID `json:"wallet_id"`
	UserID     uuid.UUID `json:"user_id"`
	AmountKobo int64     `json:"amount_kobo"`
	Released   bool      `json:"released"`
	DecidedBy  uuid.UUID `json:"decided_by,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// WithdrawalRequestedEvent is emitted when a withdrawal request is accepted
// and the funds are debited.
type WithdrawalRequestedEvent struct {
	WithdrawalID  uuid.UUID `json:"withdrawal_id"`
	UserID        uuid.UUID `json:"user_id"`
	AmountKobo    int64     `json:"amount_kobo"`
	FeeKobo       int64     `json:"fee_kobo"`
	NetAmountKobo int64     `json:"net_amount_kobo"`
}

// WithdrawalDecidedEvent is emitted when a master admin approves or rejects a
// pending withdrawal.
type WithdrawalDecidedEvent struct {
	WithdrawalID uuid.UUID              `json:"withdrawal_id"`
	UserID       uuid.UUID              `json:"user_id"`
	Status       enums.WithdrawalStatus `json:"status"`
	AmountKobo   int64                  `json:"amount_kobo"`
	DecidedBy    uuid.UUID              `json:"decided_by"`
	Reason       string                 `json:"reason,omitempty"`
}
