package verification

import (
	"fmt"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
)

// legalTransitions is the authoritative map of source status to allowed
// destinations. Every status write goes through ValidateTransition; there is
// no bypass path.
var legalTransitions = map[enums.SubmissionStatus][]enums.SubmissionStatus{
	enums.SubmissionStatusPendingMarketerForms: {
		enums.SubmissionStatusPendingAdminReview,
		enums.SubmissionStatusCancelled,
	},
	enums.SubmissionStatusPendingAdminReview: {
		enums.SubmissionStatusPendingSuperAdminReview,
		enums.SubmissionStatusRejected,
		enums.SubmissionStatusCancelled,
	},
	enums.SubmissionStatusPendingSuperAdminReview: {
		enums.SubmissionStatusPendingMasterAdminApproval,
		enums.SubmissionStatusRejected,
		enums.SubmissionStatusCancelled,
	},
	enums.SubmissionStatusPendingMasterAdminApproval: {
		enums.SubmissionStatusApproved,
		enums.SubmissionStatusRejected,
		enums.SubmissionStatusCancelled,
	},
	enums.SubmissionStatusApproved: {
		enums.SubmissionStatusCancelled,
	},
	enums.SubmissionStatusRejected: {
		enums.SubmissionStatusPendingMarketerForms,
	},
	enums.SubmissionStatusCancelled: {
		enums.SubmissionStatusPendingMarketerForms,
	},
}

// CanTransition reports whether moving from one submission status to another
// is allowed.
func CanTransition(from, to enums.SubmissionStatus) bool {
	for _, candidate := range legalTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a state-conflict error naming the actual current
// status when the requested move is not in the transition table.
func ValidateTransition(from, to enums.SubmissionStatus) error {
	if !from.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown submission status %q", from))
	}
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown submission status %q", to))
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("submission is %s, cannot move to %s", from, to),
		)
	}
	return nil
}
