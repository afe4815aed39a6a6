package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/pkg/config"
	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
	"github.com/IgureAndrew/vistapro-backend/pkg/security"
)

// RegisterService handles master-admin-driven user onboarding.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterUserRepository is the slice of the users repository the
// registration flow needs.
type RegisterUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        txRunner
	UserRepoFactory func(tx *gorm.DB) RegisterUserRepository
	PasswordConfig  config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) RegisterUserRepository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository factory required")
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", req.Role))
	}
	if req.Role == enums.RoleMarketer && req.AdminID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marketers must be assigned to an admin")
	}
	if req.Role == enums.RoleAdmin && req.SuperAdminID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admins must be assigned to a superadmin")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	uniqueID, err := newUniqueID(req.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate unique id")
	}

	var dto *users.UserDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.userRepo(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := repo.Create(ctx, users.CreateUserDTO{
			UniqueID:     uniqueID,
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         req.Role,
			AdminID:      req.AdminID,
			SuperAdminID: req.SuperAdminID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		dto = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// uniqueIDPrefixes mirror the display IDs used on printed agent badges.
var uniqueIDPrefixes = map[enums.Role]string{
	enums.RoleMarketer:    "DSR",
	enums.RoleAdmin:       "ASM",
	enums.RoleSuperAdmin:  "SM",
	enums.RoleMasterAdmin: "MA",
	enums.RoleDealer:      "DLR",
}

func newUniqueID(role enums.Role) (string, error) {
	prefix, ok := uniqueIDPrefixes[role]
	if !ok {
		return "", fmt.Errorf("no unique id prefix for role %q", role)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", prefix, n.Int64()), nil
}
