package verification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// Repository manages persistence for verification submissions, the three
// onboarding forms, admin evidence, and the workflow audit log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSubmission(ctx context.Context, submission *models.VerificationSubmission) error
	FindSubmissionByID(ctx context.Context, id uuid.UUID) (*models.VerificationSubmission, error)
	FindSubmissionByMarketer(ctx context.Context, marketerID uuid.UUID) (*models.VerificationSubmission, error)
	FindSubmissionByMarketerForUpdate(ctx context.Context, marketerID uuid.UUID) (*models.VerificationSubmission, error)
	UpdateSubmission(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListSubmissionsByStatus(ctx context.Context, status enums.SubmissionStatus) ([]models.VerificationSubmission, error)
	ListSubmissionsByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.VerificationSubmission, error)
	ListSubmissionsBySuperAdmin(ctx context.Context, superAdminID uuid.UUID) ([]models.VerificationSubmission, error)

	BiodataExists(ctx context.Context, marketerID uuid.UUID) (bool, error)
	GuarantorExists(ctx context.Context, marketerID uuid.UUID) (bool, error)
	CommitmentExists(ctx context.Context, marketerID uuid.UUID) (bool, error)
	CreateBiodata(ctx context.Context, form *models.MarketerBiodata) error
	CreateGuarantor(ctx context.Context, form *models.GuarantorForm) error
	CreateCommitment(ctx context.Context, form *models.CommitmentForm) error
	DeleteForm(ctx context.Context, marketerID uuid.UUID, form enums.FormType) error

	CreateEvidence(ctx context.Context, evidence *models.VerificationEvidence) error
	EvidenceExists(ctx context.Context, submissionID uuid.UUID) (bool, error)
	ListEvidence(ctx context.Context, submissionID uuid.UUID) ([]models.VerificationEvidence, error)

	AppendWorkflowLog(ctx context.Context, entry *models.VerificationWorkflowLog) error
	ListWorkflowLogs(ctx context.Context, submissionID uuid.UUID) ([]models.VerificationWorkflowLog, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a verification repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSubmission(ctx context.Context, submission *models.VerificationSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *repository) FindSubmissionByID(ctx context.Context, id uuid.UUID) (*models.VerificationSubmission, error) {
	var submission models.VerificationSubmission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *repository) FindSubmissionByMarketer(ctx context.Context, marketerID uuid.UUID) (*models.VerificationSubmission, error) {
	var submission models.VerificationSubmission
	if err := r.db.WithContext(ctx).
		Where("marketer_id = ?", marketerID).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *repository) FindSubmissionByMarketerForUpdate(ctx context.Context, marketerID uuid.UUID) (*models.VerificationSubmission, error) {
	query := r.db.WithContext(ctx)
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var submission models.VerificationSubmission
	if err := query.Where("marketer_id = ?", marketerID).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *repository) UpdateSubmission(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.VerificationSubmission{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListSubmissionsByStatus(ctx context.Context, status enums.SubmissionStatus) ([]models.VerificationSubmission, error) {
	var submissions []models.VerificationSubmission
	if err := r.db.WithContext(ctx).
		Where("submission_status = ?", status).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *repository) ListSubmissionsByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.VerificationSubmission, error) {
	var submissions []models.VerificationSubmission
	if err := r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *repository) ListSubmissionsBySuperAdmin(ctx context.Context, superAdminID uuid.UUID) ([]models.VerificationSubmission, error) {
	var submissions []models.VerificationSubmission
	if err := r.db.WithContext(ctx).
		Where("super_admin_id = ?", superAdminID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *repository) BiodataExists(ctx context.Context, marketerID uuid.UUID) (bool, error) {
	return r.formExists(ctx, &models.MarketerBiodata{}, marketerID)
}

func (r *repository) GuarantorExists(ctx context.Context, marketerID uuid.UUID) (bool, error) {
	return r.formExists(ctx, &models.GuarantorForm{}, marketerID)
}

func (r *repository) CommitmentExists(ctx context.Context, marketerID uuid.UUID) (bool, error) {
	return r.formExists(ctx, &models.CommitmentForm{}, marketerID)
}

func (r *repository) formExists(ctx context.Context, model any, marketerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(model).
		Where("marketer_id = ?", marketerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateBiodata(ctx context.Context, form *models.MarketerBiodata) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *repository) CreateGuarantor(ctx context.Context, form *models.GuarantorForm) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *repository) CreateCommitment(ctx context.Context, form *models.CommitmentForm) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *repository) DeleteForm(ctx context.Context, marketerID uuid.UUID, form enums.FormType) error {
	var model any
	switch form {
	case enums.FormTypeBiodata:
		model = &models.MarketerBiodata{}
	case enums.FormTypeGuarantor:
		model = &models.GuarantorForm{}
	case enums.FormTypeCommitment:
		model = &models.CommitmentForm{}
	default:
		return gorm.ErrInvalidField
	}
	return r.db.WithContext(ctx).
		Where("marketer_id = ?", marketerID).
		Delete(model).Error
}

func (r *repository) CreateEvidence(ctx context.Context, evidence *models.VerificationEvidence) error {
	return r.db.WithContext(ctx).Create(evidence).Error
}

func (r *repository) EvidenceExists(ctx context.Context, submissionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VerificationEvidence{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListEvidence(ctx context.Context, submissionID uuid.UUID) ([]models.VerificationEvidence, error) {
	var rows []models.VerificationEvidence
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AppendWorkflowLog(ctx context.Context, entry *models.VerificationWorkflowLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListWorkflowLogs(ctx context.Context, submissionID uuid.UUID) ([]models.VerificationWorkflowLog, error) {
	var logs []models.VerificationWorkflowLog
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
