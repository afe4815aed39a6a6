package verification

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
)

func TestTransitionTable(t *testing.T) {
	allStatuses := []enums.SubmissionStatus{
		enums.SubmissionStatusPendingMarketerForms,
		enums.SubmissionStatusPendingAdminReview,
		enums.SubmissionStatusPendingSuperAdminReview,
		enums.SubmissionStatusPendingMasterAdminApproval,
		enums.SubmissionStatusApproved,
		enums.SubmissionStatusRejected,
		enums.SubmissionStatusCancelled,
	}

	allowed := map[enums.SubmissionStatus][]enums.SubmissionStatus{
		enums.SubmissionStatusPendingMarketerForms:       {enums.SubmissionStatusPendingAdminReview, enums.SubmissionStatusCancelled},
		enums.SubmissionStatusPendingAdminReview:         {enums.SubmissionStatusPendingSuperAdminReview, enums.SubmissionStatusRejected, enums.SubmissionStatusCancelled},
		enums.SubmissionStatusPendingSuperAdminReview:    {enums.SubmissionStatusPendingMasterAdminApproval, enums.SubmissionStatusRejected, enums.SubmissionStatusCancelled},
		enums.SubmissionStatusPendingMasterAdminApproval: {enums.SubmissionStatusApproved, enums.SubmissionStatusRejected, enums.SubmissionStatusCancelled},
		enums.SubmissionStatusApproved:                   {enums.SubmissionStatusCancelled},
		enums.SubmissionStatusRejected:                   {enums.SubmissionStatusPendingMarketerForms},
		enums.SubmissionStatusCancelled:                  {enums.SubmissionStatusPendingMarketerForms},
	}

	isAllowed := func(from, to enums.SubmissionStatus) bool {
		for _, candidate := range allowed[from] {
			if candidate == to {
				return true
			}
		}
		return false
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := ValidateTransition(from, to)
			if isAllowed(from, to) {
				require.NoErrorf(t, err, "%s -> %s should be legal", from, to)
				continue
			}
			require.Errorf(t, err, "%s -> %s should be rejected", from, to)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
			require.Contains(t, appErr.Message(), string(from))
		}
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := ValidateTransition("garbage", enums.SubmissionStatusApproved)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = ValidateTransition(enums.SubmissionStatusApproved, "garbage")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
