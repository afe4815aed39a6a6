package auth

import (
	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the session being rotated. The identity fields are
// taken from the presented access token's claims by the controller.
type RefreshRequest struct {
	UserID       uuid.UUID
	UniqueID     string
	Role         enums.Role
	AccessID     string
	RefreshToken string
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterRequest contains the payload a master admin submits to onboard a
// user. AdminID is required for marketers, SuperAdminID for admins.
type RegisterRequest struct {
	FirstName    string     `json:"first_name" validate:"required"`
	LastName     string     `json:"last_name" validate:"required"`
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required"`
	Phone        *string    `json:"phone,omitempty"`
	Role         enums.Role `json:"role" validate:"required"`
	AdminID      *uuid.UUID `json:"admin_id,omitempty"`
	SuperAdminID *uuid.UUID `json:"super_admin_id,omitempty"`
}
