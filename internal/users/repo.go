package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUniqueID(ctx context.Context, uniqueID string) (*models.User, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetFormSubmitted(ctx context.Context, id uuid.UUID, form enums.FormType, submitted bool) error
	ResetFormFlags(ctx context.Context, id uuid.UUID) error
	SetOverallStatus(ctx context.Context, id uuid.UUID, status enums.OverallVerificationStatus) error
	SetLocked(ctx context.Context, id uuid.UUID, locked bool) error
	ListMarketersByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.User, error)
	ListAdminsBySuperAdmin(ctx context.Context, superAdminID uuid.UUID) ([]models.User, error)
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUniqueID loads a user by their human-readable unique id.
func (r *repository) FindByUniqueID(ctx context.Context, uniqueID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("unique_id = ?", uniqueID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate loads a user under a row lock inside the given tx.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user models.User
	if err := query.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetFormSubmitted flips one of the three form-completion flags.
func (r *repository) SetFormSubmitted(ctx context.Context, id uuid.UUID, form enums.FormType, submitted bool) error {
	column, err := formFlagColumn(form)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn(column, submitted).Error
}

// ResetFormFlags clears all three form flags, used when a refill is allowed.
func (r *repository) ResetFormFlags(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"bio_submitted":        false,
			"guarantor_submitted":  false,
			"commitment_submitted": false,
		}).Error
}

// SetOverallStatus writes the coarse verification status surfaced to clients.
func (r *repository) SetOverallStatus(ctx context.Context, id uuid.UUID, status enums.OverallVerificationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("overall_verification_status", status).Error
}

// SetLocked toggles the dashboard lock applied to unverified marketers.
func (r *repository) SetLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("locked", locked).Error
}

// ListMarketersByAdmin returns the marketers assigned to the given admin.
func (r *repository) ListMarketersByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND admin_id = ?", enums.RoleMarketer, adminID).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListAdminsBySuperAdmin returns the admins assigned to the given superadmin.
func (r *repository) ListAdminsBySuperAdmin(ctx context.Context, superAdminID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND super_admin_id = ?", enums.RoleAdmin, superAdminID).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListByRole returns every user carrying the given role.
func (r *repository) ListByRole(ctx context.Context, role enums.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func formFlagColumn(form enums.FormType) (string, error) {
	switch form {
	case enums.FormTypeBiodata:
		return "bio_submitted", nil
	case enums.FormTypeGuarantor:
		return "guarantor_submitted", nil
	case enums.FormTypeCommitment:
		return "commitment_submitted", nil
	default:
		return "", gorm.ErrInvalidField
	}
}
