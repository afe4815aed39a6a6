package verification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/payloads"
)

type fakeVerificationRepo struct {
	submissions map[uuid.UUID]*models.VerificationSubmission
	biodata     map[uuid.UUID]bool
	guarantor   map[uuid.UUID]bool
	commitment  map[uuid.UUID]bool
	evidence    map[uuid.UUID]int
	logs        []models.VerificationWorkflowLog
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{
		submissions: make(map[uuid.UUID]*models.VerificationSubmission),
		biodata:     make(map[uuid.UUID]bool),
		guarantor:   make(map[uuid.UUID]bool),
		commitment:  make(map[uuid.UUID]bool),
		evidence:    make(map[uuid.UUID]int),
	}
}

func (f *fakeVerificationRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeVerificationRepo) CreateSubmission(ctx context.Context, submission *models.VerificationSubmission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	f.submissions[submission.ID] = submission
	return nil
}

func (f *fakeVerificationRepo) FindSubmissionByID(ctx context.Context, id uuid.UUID) (*models.VerificationSubmission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeVerificationRepo) FindSubmissionByMarketer(ctx context.Context, marketerID uuid.UUID) (*models.VerificationSubmission, error) {
	for _, submission := range f.submissions {
		if submission.MarketerID == marketerID {
			return submission, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVerificationRepo) FindSubmissionByMarketerForUpdate(ctx context.Context, marketerID uuid.UUID) (*models.VerificationSubmission, error) {
	return f.FindSubmissionByMarketer(ctx, marketerID)
}

func (f *fakeVerificationRepo) UpdateSubmission(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	submission, ok := f.submissions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["submission_status"].(enums.SubmissionStatus); ok {
		submission.Status = status
	}
	if reason, ok := updates["rejection_reason"].(string); ok {
		submission.RejectionReason = &reason
	}
	return nil
}

func (f *fakeVerificationRepo) ListSubmissionsByStatus(ctx context.Context, status enums.SubmissionStatus) ([]models.VerificationSubmission, error) {
	var out []models.VerificationSubmission
	for _, submission := range f.submissions {
		if submission.Status == status {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (f *fakeVerificationRepo) ListSubmissionsByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.VerificationSubmission, error) {
	var out []models.VerificationSubmission
	for _, submission := range f.submissions {
		if submission.AdminID != nil && *submission.AdminID == adminID {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (f *fakeVerificationRepo) ListSubmissionsBySuperAdmin(ctx context.Context, superAdminID uuid.UUID) ([]models.VerificationSubmission, error) {
	var out []models.VerificationSubmission
	for _, submission := range f.submissions {
		if submission.SuperAdminID != nil && *submission.SuperAdminID == superAdminID {
			out = append(out, *submission)
		}
	}
	return out, nil
}

func (f *fakeVerificationRepo) BiodataExists(ctx context.Context, marketerID uuid.UUID) (bool, error) {
	return f.biodata[marketerID], nil
}

func (f *fakeVerificationRepo) GuarantorExists(ctx context.Context, marketerID uuid.UUID) (bool, error) {
	return f.guarantor[marketerID], nil
}

func (f *fakeVerificationRepo) CommitmentExists(ctx context.Context, marketerID uuid.UUID) (bool, error) {
	return f.commitment[marketerID], nil
}

func (f *fakeVerificationRepo) CreateBiodata(ctx context.Context, form *models.MarketerBiodata) error {
	f.biodata[form.MarketerID] = true
	return nil
}

func (f *fakeVerificationRepo) CreateGuarantor(ctx context.Context, form *models.GuarantorForm) error {
	f.guarantor[form.MarketerID] = true
	return nil
}

func (f *fakeVerificationRepo) CreateCommitment(ctx context.Context, form *models.CommitmentForm) error {
	f.commitment[form.MarketerID] = true
	return nil
}

func (f *fakeVerificationRepo) DeleteForm(ctx context.Context, marketerID uuid.UUID, form enums.FormType) error {
	switch form {
	case enums.FormTypeBiodata:
		delete(f.biodata, marketerID)
	case enums.FormTypeGuarantor:
		delete(f.guarantor, marketerID)
	case enums.FormTypeCommitment:
		delete(f.commitment, marketerID)
	}
	return nil
}

func (f *fakeVerificationRepo) CreateEvidence(ctx context.Context, evidence *models.VerificationEvidence) error {
	f.evidence[evidence.SubmissionID]++
	return nil
}

func (f *fakeVerificationRepo) EvidenceExists(ctx context.Context, submissionID uuid.UUID) (bool, error) {
	return f.evidence[submissionID] > 0, nil
}

func (f *fakeVerificationRepo) ListEvidence(ctx context.Context, submissionID uuid.UUID) ([]models.VerificationEvidence, error) {
	return nil, nil
}

func (f *fakeVerificationRepo) AppendWorkflowLog(ctx context.Context, entry *models.VerificationWorkflowLog) error {
	entry.CreatedAt = time.Now()
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeVerificationRepo) ListWorkflowLogs(ctx context.Context, submissionID uuid.UUID) ([]models.VerificationWorkflowLog, error) {
	var out []models.VerificationWorkflowLog
	for _, log := range f.logs {
		if log.SubmissionID == submissionID {
			out = append(out, log)
		}
	}
	return out, nil
}

type fakeUsersRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUsersRepo(seed ...*models.User) *fakeUsersRepo {
	repo := &fakeUsersRepo{users: make(map[uuid.UUID]*models.User)}
	for _, user := range seed {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUsersRepo) WithTx(tx *gorm.DB) users.Repository { return f }

func (f *fakeUsersRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	user.ID = uuid.New()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUsersRepo) FindByUniqueID(ctx context.Context, uniqueID string) (*models.User, error) {
	for _, user := range f.users {
		if user.UniqueID == uniqueID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsersRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeUsersRepo) SetFormSubmitted(ctx context.Context, id uuid.UUID, form enums.FormType, submitted bool) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	switch form {
	case enums.FormTypeBiodata:
		user.BioSubmitted = submitted
	case enums.FormTypeGuarantor:
		user.GuarantorSubmitted = submitted
	case enums.FormTypeCommitment:
		user.CommitmentSubmitted = submitted
	}
	return nil
}

func (f *fakeUsersRepo) ResetFormFlags(ctx context.Context, id uuid.UUID) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.BioSubmitted = false
	user.GuarantorSubmitted = false
	user.CommitmentSubmitted = false
	return nil
}

func (f *fakeUsersRepo) SetOverallStatus(ctx context.Context, id uuid.UUID, status enums.OverallVerificationStatus) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.OverallVerificationStatus = status
	return nil
}

func (f *fakeUsersRepo) SetLocked(ctx context.Context, id uuid.UUID, locked bool) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Locked = locked
	return nil
}

func (f *fakeUsersRepo) ListMarketersByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUsersRepo) ListAdminsBySuperAdmin(ctx context.Context, superAdminID uuid.UUID) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUsersRepo) ListByRole(ctx context.Context, role enums.Role) ([]models.User, error) {
	return nil, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type verificationFixture struct {
	svc      Service
	repo     *fakeVerificationRepo
	users    *fakeUsersRepo
	outbox   *stubOutboxPublisher
	marketer *models.User
	admin    *models.User
	super    *models.User
	master   *models.User
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()

	master := &models.User{ID: uuid.New(), UniqueID: "MA-1", Role: enums.RoleMasterAdmin}
	super := &models.User{ID: uuid.New(), UniqueID: "SA-1", Role: enums.RoleSuperAdmin}
	admin := &models.User{ID: uuid.New(), UniqueID: "AD-1", Role: enums.RoleAdmin, SuperAdminID: &super.ID}
	marketer := &models.User{
		ID:                        uuid.New(),
		UniqueID:                  "MK-1",
		Role:                      enums.RoleMarketer,
		AdminID:                   &admin.ID,
		OverallVerificationStatus: enums.OverallStatusPending,
		Locked:                    true,
	}

	repo := newFakeVerificationRepo()
	userRepo := newFakeUsersRepo(master, super, admin, marketer)
	publisher := &stubOutboxPublisher{}

	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Users:  userRepo,
		Tx:     stubTxRunner{},
		Outbox: publisher,
	})
	require.NoError(t, err)

	return &verificationFixture{
		svc:      svc,
		repo:     repo,
		users:    userRepo,
		outbox:   publisher,
		marketer: marketer,
		admin:    admin,
		super:    super,
		master:   master,
	}
}

func (f *verificationFixture) submitAllForms(t *testing.T) *SubmissionResult {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.SubmitBiodata(ctx, validBiodata(f.marketer.ID))
	require.NoError(t, err)
	_, err = f.svc.SubmitGuarantor(ctx, validGuarantor(f.marketer.ID))
	require.NoError(t, err)
	result, err := f.svc.SubmitCommitment(ctx, validCommitment(f.marketer.ID))
	require.NoError(t, err)
	return result
}

func validBiodata(marketerID uuid.UUID) SubmitBiodataInput {
	return SubmitBiodataInput{
		MarketerID:       marketerID,
		Address:          "12 Allen Avenue, Ikeja",
		IDType:           "nin",
		IDDocumentURL:    "https://storage.test/id.jpg",
		PassportPhotoURL: "https://storage.test/passport.jpg",
		NextOfKinName:    "Ade Musa",
		NextOfKinPhone:   "08030000000",
		BankName:         "GTB",
		AccountNumber:    "0123456789",
		AccountName:      "John Doe",
	}
}

func validGuarantor(marketerID uuid.UUID) SubmitGuarantorInput {
	return SubmitGuarantorInput{
		MarketerID:    marketerID,
		GuarantorName: "Chuka Obi",
		Relationship:  "uncle",
		KnownDuration: "5 years",
		Occupation:    "civil servant",
		Address:       "4 Marina Road, Lagos",
		Phone:         "08020000000",
		IDDocumentURL: "https://storage.test/guarantor-id.jpg",
		SignatureURL:  "https://storage.test/guarantor-sign.jpg",
	}
}

func validCommitment(marketerID uuid.UUID) SubmitCommitmentInput {
	return SubmitCommitmentInput{
		MarketerID:          marketerID,
		PromiseAccountable:  true,
		PromiseNoDiversion:  true,
		PromiseRemitPayment: true,
		DirectSalesRepName:  "John Doe",
		SignatureURL:        "https://storage.test/sign.jpg",
		DateSigned:          time.Now(),
	}
}

func TestSubmitFormsAutoAdvance(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	first, err := f.svc.SubmitBiodata(ctx, validBiodata(f.marketer.ID))
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusPendingMarketerForms, first.Status)
	require.True(t, f.marketer.BioSubmitted)
	require.Empty(t, f.outbox.events)

	_, err = f.svc.SubmitGuarantor(ctx, validGuarantor(f.marketer.ID))
	require.NoError(t, err)
	require.Empty(t, f.outbox.events)

	// The third form triggers the strict-table auto-advance to admin review.
	result, err := f.svc.SubmitCommitment(ctx, validCommitment(f.marketer.ID))
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusPendingAdminReview, result.Status)
	require.Equal(t, enums.OverallStatusAwaitingAdminReview, f.marketer.OverallVerificationStatus)

	require.Len(t, f.outbox.events, 1)
	require.Equal(t, enums.EventFormsCompleted, f.outbox.events[0].EventType)
	require.Equal(t, enums.AggregateSubmission, f.outbox.events[0].AggregateType)

	logs, err := f.svc.History(ctx, result.SubmissionID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, enums.SubmissionStatusPendingMarketerForms, logs[0].FromStatus)
	require.Equal(t, enums.SubmissionStatusPendingAdminReview, logs[0].ToStatus)
}

func TestSubmitFormDuplicateRejected(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitBiodata(ctx, validBiodata(f.marketer.ID))
	require.NoError(t, err)

	_, err = f.svc.SubmitBiodata(ctx, validBiodata(f.marketer.ID))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
	require.False(t, f.marketer.GuarantorSubmitted)
}

func TestSubmitFormWithoutAdminFails(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	f.marketer.AdminID = nil

	_, err := f.svc.SubmitBiodata(ctx, validBiodata(f.marketer.ID))
	require.NoError(t, err)
	_, err = f.svc.SubmitGuarantor(ctx, validGuarantor(f.marketer.ID))
	require.NoError(t, err)

	// All three forms are in, but no admin is assigned to review them.
	_, err = f.svc.SubmitCommitment(ctx, validCommitment(f.marketer.ID))
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestVerifyAndSendRequiresEvidence(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)

	_, err := f.svc.VerifyAndSend(ctx, VerifyAndSendInput{
		SubmissionID: result.SubmissionID,
		AdminID:      f.admin.ID,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	err = f.svc.UploadEvidence(ctx, UploadEvidenceInput{
		SubmissionID:     result.SubmissionID,
		AdminID:          f.admin.ID,
		LocationAddress:  "7 Broad Street",
		LandmarkPhotoURL: "https://storage.test/landmark.jpg",
		BuildingPhotoURL: "https://storage.test/building.jpg",
	})
	require.NoError(t, err)

	sent, err := f.svc.VerifyAndSend(ctx, VerifyAndSendInput{
		SubmissionID: result.SubmissionID,
		AdminID:      f.admin.ID,
	})
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusPendingSuperAdminReview, sent.Status)
	require.Equal(t, enums.OverallStatusUnderReview, f.marketer.OverallVerificationStatus)
	require.Equal(t, enums.EventAdminReviewed, f.outbox.events[len(f.outbox.events)-1].EventType)
}

func TestVerifyAndSendWrongAdmin(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)

	_, err := f.svc.VerifyAndSend(ctx, VerifyAndSendInput{
		SubmissionID: result.SubmissionID,
		AdminID:      uuid.New(),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestSuperAdminRejectSkipsMasterAdmin(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)
	f.advanceToSuperAdmin(t, result.SubmissionID)

	_, err := f.svc.SuperAdminVerify(ctx, SuperAdminVerifyInput{
		SubmissionID: result.SubmissionID,
		SuperAdminID: f.super.ID,
		Approved:     false,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	rejected, err := f.svc.SuperAdminVerify(ctx, SuperAdminVerifyInput{
		SubmissionID: result.SubmissionID,
		SuperAdminID: f.super.ID,
		Approved:     false,
		Reason:       "guarantor unreachable",
	})
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusRejected, rejected.Status)
	require.Equal(t, enums.OverallStatusRejected, f.marketer.OverallVerificationStatus)
	require.True(t, f.marketer.Locked)

	last := f.outbox.events[len(f.outbox.events)-1]
	require.Equal(t, enums.EventSubmissionRejected, last.EventType)

	payload, ok := last.Data.(payloads.SubmissionRejectedEvent)
	require.True(t, ok)
	require.Equal(t, f.marketer.ID, payload.MarketerID)
	require.Equal(t, f.admin.ID, payload.AdminID)
	require.Equal(t, enums.RoleSuperAdmin, payload.RejectorRole)
}

func TestMasterAdminApproveUnlocksUser(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)
	f.advanceToMasterAdmin(t, result.SubmissionID)

	approved, err := f.svc.MasterAdminDecision(ctx, MasterAdminDecisionInput{
		SubmissionID:  result.SubmissionID,
		MasterAdminID: f.master.ID,
		Approve:       true,
	})
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusApproved, approved.Status)
	require.Equal(t, enums.OverallStatusApproved, f.marketer.OverallVerificationStatus)
	require.False(t, f.marketer.Locked)
	require.Equal(t, enums.EventSubmissionApproved, f.outbox.events[len(f.outbox.events)-1].EventType)
}

func TestMasterAdminRejectRequiresReasonAndLocks(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)
	f.advanceToMasterAdmin(t, result.SubmissionID)

	_, err := f.svc.MasterAdminDecision(ctx, MasterAdminDecisionInput{
		SubmissionID:  result.SubmissionID,
		MasterAdminID: f.master.ID,
		Approve:       false,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	rejected, err := f.svc.MasterAdminDecision(ctx, MasterAdminDecisionInput{
		SubmissionID:  result.SubmissionID,
		MasterAdminID: f.master.ID,
		Approve:       false,
		Reason:        "identity mismatch",
	})
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusRejected, rejected.Status)
	require.True(t, f.marketer.Locked)
}

func TestMasterAdminDecisionWrongState(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)

	_, err := f.svc.MasterAdminDecision(ctx, MasterAdminDecisionInput{
		SubmissionID:  result.SubmissionID,
		MasterAdminID: f.master.ID,
		Approve:       true,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
	require.Contains(t, appErr.Message(), string(enums.SubmissionStatusPendingAdminReview))
}

func TestAllowRefillReopensSubmission(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)
	f.advanceToSuperAdmin(t, result.SubmissionID)

	_, err := f.svc.SuperAdminVerify(ctx, SuperAdminVerifyInput{
		SubmissionID: result.SubmissionID,
		SuperAdminID: f.super.ID,
		Approved:     false,
		Reason:       "stale documents",
	})
	require.NoError(t, err)

	reopened, err := f.svc.AllowRefill(ctx, AllowRefillInput{
		MarketerID: f.marketer.ID,
		Form:       enums.FormTypeBiodata,
		AllowedBy:  f.master.ID,
		ActorRole:  enums.RoleMasterAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, enums.SubmissionStatusPendingMarketerForms, reopened.Status)
	require.False(t, f.marketer.BioSubmitted)
	require.True(t, f.marketer.GuarantorSubmitted)
	require.Equal(t, enums.OverallStatusPending, f.marketer.OverallVerificationStatus)
	require.False(t, f.repo.biodata[f.marketer.ID])
	require.Equal(t, enums.EventRefillAllowed, f.outbox.events[len(f.outbox.events)-1].EventType)

	// The marketer can resubmit the cleared form.
	_, err = f.svc.SubmitBiodata(ctx, validBiodata(f.marketer.ID))
	require.NoError(t, err)
}

func TestAllowRefillRequiresTerminalState(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()
	result := f.submitAllForms(t)

	_, err := f.svc.AllowRefill(ctx, AllowRefillInput{
		MarketerID: f.marketer.ID,
		Form:       enums.FormTypeBiodata,
		AllowedBy:  f.master.ID,
		ActorRole:  enums.RoleMasterAdmin,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	require.Equal(t, enums.SubmissionStatusPendingAdminReview, f.repo.submissions[result.SubmissionID].Status)
}

func TestStatusView(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	view, err := f.svc.Status(ctx, f.marketer.ID)
	require.NoError(t, err)
	require.Nil(t, view.SubmissionID)
	require.Equal(t, enums.OverallStatusPending, view.OverallVerificationStatus)

	result := f.submitAllForms(t)
	view, err = f.svc.Status(ctx, f.marketer.ID)
	require.NoError(t, err)
	require.NotNil(t, view.SubmissionID)
	require.Equal(t, result.SubmissionID, *view.SubmissionID)
	require.Equal(t, enums.SubmissionStatusPendingAdminReview, *view.Status)
	require.True(t, view.BioSubmitted)
}

func (f *verificationFixture) advanceToSuperAdmin(t *testing.T, submissionID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	err := f.svc.UploadEvidence(ctx, UploadEvidenceInput{
		SubmissionID:     submissionID,
		AdminID:          f.admin.ID,
		LocationAddress:  "7 Broad Street",
		LandmarkPhotoURL: "https://storage.test/landmark.jpg",
		BuildingPhotoURL: "https://storage.test/building.jpg",
	})
	require.NoError(t, err)

	_, err = f.svc.VerifyAndSend(ctx, VerifyAndSendInput{
		SubmissionID: submissionID,
		AdminID:      f.admin.ID,
	})
	require.NoError(t, err)
}

func (f *verificationFixture) advanceToMasterAdmin(t *testing.T, submissionID uuid.UUID) {
	t.Helper()
	f.advanceToSuperAdmin(t, submissionID)

	_, err := f.svc.SuperAdminVerify(context.Background(), SuperAdminVerifyInput{
		SubmissionID: submissionID,
		SuperAdminID: f.super.ID,
		Approved:     true,
	})
	require.NoError(t, err)
}
