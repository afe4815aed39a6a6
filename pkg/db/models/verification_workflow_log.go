package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// VerificationWorkflowLog is an append-only audit record of a single status
// transition. It is never read back to drive workflow state.
type VerificationWorkflowLog struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubmissionID uuid.UUID              `gorm:"column:submission_id;type:uuid;not null;index"`
	MarketerID   uuid.UUID              `gorm:"column:marketer_id;type:uuid;not null;index"`
	ActorID      uuid.UUID              `gorm:"column:actor_id;type:uuid;not null"`
	ActorRole    enums.Role             `gorm:"column:actor_role;type:user_role;not null"`
	FromStatus   enums.SubmissionStatus `gorm:"column:from_status;type:submission_status;not null"`
	ToStatus     enums.SubmissionStatus `gorm:"column:to_status;type:submission_status;not null"`
	Notes        *string                `gorm:"column:notes"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}
