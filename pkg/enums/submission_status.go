package enums

import "fmt"

// SubmissionStatus tracks a verification case through the four-stage
// approval pipeline.
type SubmissionStatus string

const (
	SubmissionStatusPendingMarketerForms       SubmissionStatus = "pending_marketer_forms"
	SubmissionStatusPendingAdminReview         SubmissionStatus = "pending_admin_review"
	SubmissionStatusPendingSuperAdminReview    SubmissionStatus = "pending_superadmin_review"
	SubmissionStatusPendingMasterAdminApproval SubmissionStatus = "pending_masteradmin_approval"
	SubmissionStatusApproved                   SubmissionStatus = "approved"
	SubmissionStatusRejected                   SubmissionStatus = "rejected"
	SubmissionStatusCancelled                  SubmissionStatus = "cancelled"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPendingMarketerForms,
	SubmissionStatusPendingAdminReview,
	SubmissionStatusPendingSuperAdminReview,
	SubmissionStatusPendingMasterAdminApproval,
	SubmissionStatusApproved,
	SubmissionStatusRejected,
	SubmissionStatusCancelled,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionStatus.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus converts raw input into a SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
