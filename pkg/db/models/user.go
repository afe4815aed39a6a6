package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// User represents the canonical identity entity. Marketers carry a
// denormalized assignment chain (AdminID) and three form-completion flags
// that drive the verification pipeline; admins carry SuperAdminID.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UniqueID     string     `gorm:"column:unique_id;type:text;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	Phone        *string    `gorm:"column:phone"`
	Role         enums.Role `gorm:"column:role;type:user_role;not null"`

	AdminID      *uuid.UUID `gorm:"column:admin_id;type:uuid"`
	SuperAdminID *uuid.UUID `gorm:"column:super_admin_id;type:uuid"`

	BioSubmitted        bool `gorm:"column:bio_submitted;not null;default:false"`
	GuarantorSubmitted  bool `gorm:"column:guarantor_submitted;not null;default:false"`
	CommitmentSubmitted bool `gorm:"column:commitment_submitted;not null;default:false"`

	OverallVerificationStatus enums.OverallVerificationStatus `gorm:"column:overall_verification_status;type:overall_verification_status;not null;default:'pending'"`
	Locked                    bool                            `gorm:"column:locked;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AllFormsSubmitted reports whether the marketer has completed all three
// onboarding forms.
func (u User) AllFormsSubmitted() bool {
	return u.BioSubmitted && u.GuarantorSubmitted && u.CommitmentSubmitted
}
