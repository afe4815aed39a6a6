package enums

import "fmt"

// OverallVerificationStatus is the coarse per-user status surfaced on the
// account itself, distinct from the submission pipeline state.
type OverallVerificationStatus string

const (
	OverallStatusPending             OverallVerificationStatus = "pending"
	OverallStatusAwaitingAdminReview OverallVerificationStatus = "awaiting_admin_review"
	OverallStatusUnderReview         OverallVerificationStatus = "under_review"
	OverallStatusApproved            OverallVerificationStatus = "approved"
	OverallStatusRejected            OverallVerificationStatus = "rejected"
)

var validOverallStatuses = []OverallVerificationStatus{
	OverallStatusPending,
	OverallStatusAwaitingAdminReview,
	OverallStatusUnderReview,
	OverallStatusApproved,
	OverallStatusRejected,
}

// IsValid reports whether the value is a known OverallVerificationStatus.
func (o OverallVerificationStatus) IsValid() bool {
	for _, candidate := range validOverallStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOverallVerificationStatus converts raw input into an OverallVerificationStatus.
func ParseOverallVerificationStatus(value string) (OverallVerificationStatus, error) {
	for _, candidate := range validOverallStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid overall verification status %q", value)
}
