package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// VerificationSubmission is the per-marketer verification case record. The
// admin and super-admin references are captured from the marketer's
// assignment chain at creation time and are not re-derived afterwards.
type VerificationSubmission struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketerID   uuid.UUID              `gorm:"column:marketer_id;type:uuid;not null;uniqueIndex"`
	AdminID      *uuid.UUID             `gorm:"column:admin_id;type:uuid"`
	SuperAdminID *uuid.UUID             `gorm:"column:super_admin_id;type:uuid"`
	Status       enums.SubmissionStatus `gorm:"column:submission_status;type:submission_status;not null;default:'pending_marketer_forms'"`

	FormsCompletedAt     *time.Time `gorm:"column:forms_completed_at"`
	AdminReviewedAt      *time.Time `gorm:"column:admin_reviewed_at"`
	SuperAdminVerifiedAt *time.Time `gorm:"column:superadmin_verified_at"`
	MasterAdminDecidedAt *time.Time `gorm:"column:masteradmin_decided_at"`

	RejectionReason *string    `gorm:"column:rejection_reason"`
	RejectedBy      *uuid.UUID `gorm:"column:rejected_by;type:uuid"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
