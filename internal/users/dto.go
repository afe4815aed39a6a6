package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                        uuid.UUID                       `json:"id"`
	UniqueID                  string                          `json:"unique_id"`
	Email                     string                          `json:"email"`
	FirstName                 string                          `json:"first_name"`
	LastName                  string                          `json:"last_name"`
	Phone                     *string                         `json:"phone,omitempty"`
	Role                      enums.Role                      `json:"role"`
	AdminID                   *uuid.UUID                      `json:"admin_id,omitempty"`
	SuperAdminID              *uuid.UUID                      `json:"super_admin_id,omitempty"`
	BioSubmitted              bool                            `json:"bio_submitted"`
	GuarantorSubmitted        bool                            `json:"guarantor_submitted"`
	CommitmentSubmitted       bool                            `json:"commitment_submitted"`
	OverallVerificationStatus enums.OverallVerificationStatus `json:"overall_verification_status"`
	Locked                    bool                            `json:"locked"`
	CreatedAt                 time.Time                       `json:"created_at"`
	UpdatedAt                 time.Time                       `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	UniqueID     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         enums.Role
	AdminID      *uuid.UUID
	SuperAdminID *uuid.UUID
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                        u.ID,
		UniqueID:                  u.UniqueID,
		Email:                     u.Email,
		FirstName:                 u.FirstName,
		LastName:                  u.LastName,
		Phone:                     u.Phone,
		Role:                      u.Role,
		AdminID:                   u.AdminID,
		SuperAdminID:              u.SuperAdminID,
		BioSubmitted:              u.BioSubmitted,
		GuarantorSubmitted:        u.GuarantorSubmitted,
		CommitmentSubmitted:       u.CommitmentSubmitted,
		OverallVerificationStatus: u.OverallVerificationStatus,
		Locked:                    u.Locked,
		CreatedAt:                 u.CreatedAt,
		UpdatedAt:                 u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		UniqueID:     c.UniqueID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Role:         c.Role,
		AdminID:      c.AdminID,
		SuperAdminID: c.SuperAdminID,
		OverallVerificationStatus: enums.OverallStatusPending,
	}
}
