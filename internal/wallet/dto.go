package wallet

import "github.com/google/uuid"

// CommissionCredit reports what a single credit call posted. A duplicate or
// already-paid call returns zero amounts with Inserted false.
type CommissionCredit struct {
	UserID        uuid.UUID `json:"user_id"`
	TotalKobo     int64     `json:"total_kobo"`
	AvailableKobo int64     `json:"available_kobo"`
	WithheldKobo  int64     `json:"withheld_kobo"`
	Inserted      bool      `json:"inserted"`
}

// WithheldDecisionInput identifies whose withheld balance is being decided.
type WithheldDecisionInput struct {
	UserID    uuid.UUID
	DecidedBy uuid.UUID
	Reason    string
}

// WithheldDecisionResult reports the amount moved (or forfeited) by a
// withheld decision.
type WithheldDecisionResult struct {
	WalletID   uuid.UUID `json:"wallet_id"`
	UserID     uuid.UUID `json:"user_id"`
	AmountKobo int64     `json:"amount_kobo"`
	Released   bool      `json:"released"`
}

// BatchReleaseResult summarizes a monthly bulk release run.
type BatchReleaseResult struct {
	Released  int   `json:"released"`
	Failed    int   `json:"failed"`
	TotalKobo int64 `json:"total_kobo"`
}

// WalletView is the balance snapshot returned to clients.
type WalletView struct {
	WalletID         uuid.UUID `json:"wallet_id"`
	UserID           uuid.UUID `json:"user_id"`
	TotalBalance     int64     `json:"total_balance"`
	AvailableBalance int64     `json:"available_balance"`
	WithheldBalance  int64     `json:"withheld_balance"`
}
