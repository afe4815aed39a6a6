package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IgureAndrew/vistapro-backend/internal/users"
	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives the four-stage verification pipeline. Every status write is
// validated against the transition table, performed inside one transaction
// together with the user flags and the audit log, and followed by an outbox
// emit so notification delivery cannot diverge from committed state.
type Service interface {
	SubmitBiodata(ctx context.Context, input SubmitBiodataInput) (*SubmissionResult, error)
	SubmitGuarantor(ctx context.Context, input SubmitGuarantorInput) (*SubmissionResult, error)
	SubmitCommitment(ctx context.Context, input SubmitCommitmentInput) (*SubmissionResult, error)
	UploadEvidence(ctx context.Context, input UploadEvidenceInput) error
	VerifyAndSend(ctx context.Context, input VerifyAndSendInput) (*SubmissionResult, error)
	SuperAdminVerify(ctx context.Context, input SuperAdminVerifyInput) (*SubmissionResult, error)
	MasterAdminDecision(ctx context.Context, input MasterAdminDecisionInput) (*SubmissionResult, error)
	Cancel(ctx context.Context, input CancelInput) (*SubmissionResult, error)
	AllowRefill(ctx context.Context, input AllowRefillInput) (*SubmissionResult, error)
	Status(ctx context.Context, marketerID uuid.UUID) (*StatusView, error)
	History(ctx context.Context, submissionID uuid.UUID) ([]HistoryEntry, error)
}

type service struct {
	repo   Repository
	users  users.Repository
	tx     txRunner
	outbox outboxPublisher
}

// ServiceParams wires the verification service dependencies.
type ServiceParams struct {
	Repo   Repository
	Users  users.Repository
	Tx     txRunner
	Outbox outboxPublisher
}

// NewService validates dependencies and returns the verification service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("verification repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   params.Repo,
		users:  params.Users,
		tx:     params.Tx,
		outbox: params.Outbox,
	}, nil
}

func (s *service) SubmitBiodata(ctx context.Context, input SubmitBiodataInput) (*SubmissionResult, error) {
	if input.Address == "" || input.IDType == "" || input.IDDocumentURL == "" || input.PassportPhotoURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address, id type and document uploads are required")
	}
	if input.BankName == "" || input.AccountNumber == "" || input.AccountName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank details are required")
	}
	return s.submitForm(ctx, input.MarketerID, enums.FormTypeBiodata, func(ctx context.Context, repo Repository) error {
		exists, err := repo.BiodataExists(ctx, input.MarketerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check biodata form")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "biodata form already submitted")
		}
		return repo.CreateBiodata(ctx, &models.MarketerBiodata{
			MarketerID:       input.MarketerID,
			DateOfBirth:      input.DateOfBirth,
			Address:          input.Address,
			MaritalStatus:    input.MaritalStatus,
			SchoolAttended:   input.SchoolAttended,
			IDType:           input.IDType,
			IDDocumentURL:    input.IDDocumentURL,
			PassportPhotoURL: input.PassportPhotoURL,
			NextOfKinName:    input.NextOfKinName,
			NextOfKinPhone:   input.NextOfKinPhone,
			BankName:         input.BankName,
			AccountNumber:    input.AccountNumber,
			AccountName:      input.AccountName,
		})
	})
}

func (s *service) SubmitGuarantor(ctx context.Context, input SubmitGuarantorInput) (*SubmissionResult, error) {
	if input.GuarantorName == "" || input.Phone == "" || input.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guarantor name, phone and address are required")
	}
	if input.IDDocumentURL == "" || input.SignatureURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guarantor id document and signature are required")
	}
	return s.submitForm(ctx, input.MarketerID, enums.FormTypeGuarantor, func(ctx context.Context, repo Repository) error {
		exists, err := repo.GuarantorExists(ctx, input.MarketerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check guarantor form")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "guarantor form already submitted")
		}
		return repo.CreateGuarantor(ctx, &models.GuarantorForm{
			MarketerID:    input.MarketerID,
			GuarantorName: input.GuarantorName,
			Relationship:  input.Relationship,
			KnownDuration: input.KnownDuration,
			Occupation:    input.Occupation,
			Address:       input.Address,
			Phone:         input.Phone,
			IDDocumentURL: input.IDDocumentURL,
			SignatureURL:  input.SignatureURL,
		})
	})
}

func (s *service) SubmitCommitment(ctx context.Context, input SubmitCommitmentInput) (*SubmissionResult, error) {
	if !input.PromiseAccountable || !input.PromiseNoDiversion || !input.PromiseRemitPayment {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "all commitment pledges must be accepted")
	}
	if input.DirectSalesRepName == "" || input.SignatureURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "representative name and signature are required")
	}
	if input.DateSigned.IsZero() {
		input.DateSigned = time.Now()
	}
	return s.submitForm(ctx, input.MarketerID, enums.FormTypeCommitment, func(ctx context.Context, repo Repository) error {
		exists, err := repo.CommitmentExists(ctx, input.MarketerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check commitment form")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "commitment form already submitted")
		}
		return repo.CreateCommitment(ctx, &models.CommitmentForm{
			MarketerID:          input.MarketerID,
			PromiseAccountable:  input.PromiseAccountable,
			PromiseNoDiversion:  input.PromiseNoDiversion,
			PromiseRemitPayment: input.PromiseRemitPayment,
			DirectSalesRepName:  input.DirectSalesRepName,
			SignatureURL:        input.SignatureURL,
			DateSigned:          input.DateSigned,
		})
	})
}

// submitForm runs the shared per-form flow: ensure the submission case
// exists, insert the form row, flip the user flag, and auto-advance to admin
// review once the third form lands.
func (s *service) submitForm(ctx context.Context, marketerID uuid.UUID, form enums.FormType, insert func(ctx context.Context, repo Repository) error) (*SubmissionResult, error) {
	if marketerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result SubmissionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		marketer, err := userRepo.FindByID(ctx, marketerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "marketer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketer")
		}
		if marketer.Role != enums.RoleMarketer {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only marketers submit verification forms")
		}

		submission, err := s.ensureSubmission(ctx, repo, userRepo, marketer)
		if err != nil {
			return err
		}
		if submission.Status != enums.SubmissionStatusPendingMarketerForms {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("submission is %s, forms can no longer be submitted", submission.Status),
			)
		}

		if err := insert(ctx, repo); err != nil {
			return err
		}
		if err := userRepo.SetFormSubmitted(ctx, marketer.ID, form, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update form flag")
		}

		complete, err := s.allFormsPresent(ctx, repo, marketer.ID)
		if err != nil {
			return err
		}
		result = SubmissionResult{
			SubmissionID: submission.ID,
			MarketerID:   marketer.ID,
			Status:       submission.Status,
		}
		if !complete {
			return nil
		}

		if submission.AdminID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "marketer has no assigned admin")
		}

		now := time.Now()
		if err := s.applyTransition(ctx, repo, transitionInput{
			submission: submission,
			to:         enums.SubmissionStatusPendingAdminReview,
			actorID:    marketer.ID,
			actorRole:  enums.RoleMarketer,
			updates:    map[string]any{"forms_completed_at": now},
		}); err != nil {
			return err
		}
		if err := userRepo.SetOverallStatus(ctx, marketer.ID, enums.OverallStatusAwaitingAdminReview); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update overall status")
		}

		result.Status = enums.SubmissionStatusPendingAdminReview
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventFormsCompleted,
			AggregateType: enums.AggregateSubmission,
			AggregateID:   submission.ID,
			Version:       1,
			Actor:         actorRef(marketer.ID, enums.RoleMarketer),
			Data: payloads.FormsCompletedEvent{
				SubmissionID: submission.ID,
				MarketerID:   marketer.ID,
				AdminID:      *submission.AdminID,
				CompletedAt:  now,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ensureSubmission lazily creates the verification case on first form
// submission, denormalizing the assignment chain as it exists right now.
func (s *service) ensureSubmission(ctx context.Context, repo Repository, userRepo users.Repository, marketer *models.User) (*models.VerificationSubmission, error) {
	submission, err := repo.FindSubmissionByMarketerForUpdate(ctx, marketer.ID)
	if err == nil {
		return submission, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}

	var superAdminID *uuid.UUID
	if marketer.AdminID != nil {
		admin, err := userRepo.FindByID(ctx, *marketer.AdminID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "assigned admin not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assigned admin")
		}
		superAdminID = admin.SuperAdminID
	}

	created := &models.VerificationSubmission{
		MarketerID:   marketer.ID,
		AdminID:      marketer.AdminID,
		SuperAdminID: superAdminID,
		Status:       enums.SubmissionStatusPendingMarketerForms,
	}
	if err := repo.CreateSubmission(ctx, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create submission")
	}
	return created, nil
}

func (s *service) allFormsPresent(ctx context.Context, repo Repository, marketerID uuid.UUID) (bool, error) {
	checks := []func(context.Context, uuid.UUID) (bool, error){
		repo.BiodataExists,
		repo.GuarantorExists,
		repo.CommitmentExists,
	}
	for _, check := range checks {
		present, err := check(ctx, marketerID)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check form completion")
		}
		if !present {
			return false, nil
		}
	}
	return true, nil
}

func (s *service) UploadEvidence(ctx context.Context, input UploadEvidenceInput) error {
	if input.SubmissionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if input.AdminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.LocationAddress == "" || input.LandmarkPhotoURL == "" || input.BuildingPhotoURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location address and both photos are required")
	}

	submission, err := s.repo.FindSubmissionByID(ctx, input.SubmissionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	if submission.AdminID == nil || *submission.AdminID != input.AdminID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "submission is not assigned to this admin")
	}
	if submission.Status != enums.SubmissionStatusPendingAdminReview {
		return pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("submission is %s, evidence is only accepted during admin review", submission.Status),
		)
	}

	// Storing evidence never moves the submission by itself.
	if err := s.repo.CreateEvidence(ctx, &models.VerificationEvidence{
		SubmissionID:     submission.ID,
		AdminID:          input.AdminID,
		LocationAddress:  input.LocationAddress,
		LandmarkPhotoURL: input.LandmarkPhotoURL,
		BuildingPhotoURL: input.BuildingPhotoURL,
		Notes:            input.Notes,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store evidence")
	}
	return nil
}

func (s *service) VerifyAndSend(ctx context.Context, input VerifyAndSendInput) (*SubmissionResult, error) {
	if input.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result SubmissionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		submission, err := s.lockSubmission(ctx, repo, input.SubmissionID)
		if err != nil {
			return err
		}
		if submission.AdminID == nil || *submission.AdminID != input.AdminID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "submission is not assigned to this admin")
		}
		if submission.SuperAdminID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no superadmin assigned to this submission")
		}

		hasEvidence, err := repo.EvidenceExists(ctx, submission.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check evidence")
		}
		if !hasEvidence {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "verification evidence must be uploaded before sending")
		}

		now := time.Now()
		if err := s.applyTransition(ctx, repo, transitionInput{
			submission: submission,
			to:         enums.SubmissionStatusPendingSuperAdminReview,
			actorID:    input.AdminID,
			actorRole:  enums.RoleAdmin,
			notes:      input.Notes,
			updates:    map[string]any{"admin_reviewed_at": now},
		}); err != nil {
			return err
		}
		if err := userRepo.SetOverallStatus(ctx, submission.MarketerID, enums.OverallStatusUnderReview); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update overall status")
		}

		result = SubmissionResult{
			SubmissionID: submission.ID,
			MarketerID:   submission.MarketerID,
			Status:       enums.SubmissionStatusPendingSuperAdminReview,
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdminReviewed,
			AggregateType: enums.AggregateSubmission,
			AggregateID:   submission.ID,
			Version:       1,
			Actor:         actorRef(input.AdminID, enums.RoleAdmin),
			Data: payloads.AdminReviewedEvent{
				SubmissionID: submission.ID,
				MarketerID:   submission.MarketerID,
				AdminID:      input.AdminID,
				SuperAdminID: *submission.SuperAdminID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) SuperAdminVerify(ctx context.Context, input SuperAdminVerifyInput) (*SubmissionResult, error) {
	if input.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if input.SuperAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Approved && input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required to reject")
	}

	var result SubmissionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		submission, err := s.lockSubmission(ctx, repo, input.SubmissionID)
		if err != nil {
			return err
		}
		if submission.SuperAdminID == nil || *submission.SuperAdminID != input.SuperAdminID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "submission is not assigned to this superadmin")
		}

		now := time.Now()
		if input.Approved {
			if err := s.applyTransition(ctx, repo, transitionInput{
				submission: submission,
				to:         enums.SubmissionStatusPendingMasterAdminApproval,
				actorID:    input.SuperAdminID,
				actorRole:  enums.RoleSuperAdmin,
				updates:    map[string]any{"superadmin_verified_at": now},
			}); err != nil {
				return err
			}
			result = SubmissionResult{
				SubmissionID: submission.ID,
				MarketerID:   submission.MarketerID,
				Status:       enums.SubmissionStatusPendingMasterAdminApproval,
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventSuperAdminVerified,
				AggregateType: enums.AggregateSubmission,
				AggregateID:   submission.ID,
				Version:       1,
				Actor:         actorRef(input.SuperAdminID, enums.RoleSuperAdmin),
				Data: payloads.SuperAdminVerifiedEvent{
					SubmissionID: submission.ID,
					MarketerID:   submission.MarketerID,
					SuperAdminID: input.SuperAdminID,
				},
			})
		}

		if err := s.rejectSubmission(ctx, tx, repo, userRepo, submission, input.SuperAdminID, enums.RoleSuperAdmin, input.Reason); err != nil {
			return err
		}
		result = SubmissionResult{
			SubmissionID: submission.ID,
			MarketerID:   submission.MarketerID,
			Status:       enums.SubmissionStatusRejected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) MasterAdminDecision(ctx context.Context, input MasterAdminDecisionInput) (*SubmissionResult, error) {
	if input.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if input.MasterAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Approve && input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required to reject")
	}

	var result SubmissionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		submission, err := s.lockSubmission(ctx, repo, input.SubmissionID)
		if err != nil {
			return err
		}
		if submission.Status != enums.SubmissionStatusPendingMasterAdminApproval {
			return pkgerrors.New(
				pkgerrors.CodeStateConflict,
				fmt.Sprintf("submission is %s, not awaiting master admin approval", submission.Status),
			)
		}

		now := time.Now()
		if input.Approve {
			if err := s.applyTransition(ctx, repo, transitionInput{
				submission: submission,
				to:         enums.SubmissionStatusApproved,
				actorID:    input.MasterAdminID,
				actorRole:  enums.RoleMasterAdmin,
				updates:    map[string]any{"masteradmin_decided_at": now},
			}); err != nil {
				return err
			}
			if err := userRepo.SetOverallStatus(ctx, submission.MarketerID, enums.OverallStatusApproved); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update overall status")
			}
			if err := userRepo.SetLocked(ctx, submission.MarketerID, false); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlock user")
			}
			result = SubmissionResult{
				SubmissionID: submission.ID,
				MarketerID:   submission.MarketerID,
				Status:       enums.SubmissionStatusApproved,
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventSubmissionApproved,
				AggregateType: enums.AggregateSubmission,
				AggregateID:   submission.ID,
				Version:       1,
				Actor:         actorRef(input.MasterAdminID, enums.RoleMasterAdmin),
				Data: payloads.SubmissionApprovedEvent{
					SubmissionID:  submission.ID,
					MarketerID:    submission.MarketerID,
					MasterAdminID: input.MasterAdminID,
					ApprovedAt:    now,
				},
			})
		}

		if err := s.rejectSubmission(ctx, tx, repo, userRepo, submission, input.MasterAdminID, enums.RoleMasterAdmin, input.Reason); err != nil {
			return err
		}
		result = SubmissionResult{
			SubmissionID: submission.ID,
			MarketerID:   submission.MarketerID,
			Status:       enums.SubmissionStatusRejected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*SubmissionResult, error) {
	if input.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result SubmissionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		submission, err := s.lockSubmission(ctx, repo, input.SubmissionID)
		if err != nil {
			return err
		}
		if err := s.applyTransition(ctx, repo, transitionInput{
			submission: submission,
			to:         enums.SubmissionStatusCancelled,
			actorID:    input.ActorID,
			actorRole:  input.ActorRole,
			notes:      input.Notes,
		}); err != nil {
			return err
		}
		if err := userRepo.SetOverallStatus(ctx, submission.MarketerID, enums.OverallStatusPending); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update overall status")
		}
		result = SubmissionResult{
			SubmissionID: submission.ID,
			MarketerID:   submission.MarketerID,
			Status:       enums.SubmissionStatusCancelled,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) AllowRefill(ctx context.Context, input AllowRefillInput) (*SubmissionResult, error) {
	if input.MarketerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marketer id required")
	}
	if input.AllowedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Form.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown form type %q", input.Form))
	}

	var result SubmissionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		userRepo := s.users.WithTx(tx)

		submission, err := repo.FindSubmissionByMarketerForUpdate(ctx, input.MarketerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
		}

		// Refill is the only path back into form submission; it re-opens the
		// case from a terminal state and wipes the rejection audit fields.
		if err := s.applyTransition(ctx, repo, transitionInput{
			submission: submission,
			to:         enums.SubmissionStatusPendingMarketerForms,
			actorID:    input.AllowedBy,
			actorRole:  input.ActorRole,
			updates: map[string]any{
				"rejection_reason":       nil,
				"rejected_by":            nil,
				"rejected_at":            nil,
				"forms_completed_at":     nil,
				"admin_reviewed_at":      nil,
				"superadmin_verified_at": nil,
				"masteradmin_decided_at": nil,
			},
		}); err != nil {
			return err
		}

		if err := repo.DeleteForm(ctx, input.MarketerID, input.Form); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete form")
		}
		if err := userRepo.SetFormSubmitted(ctx, input.MarketerID, input.Form, false); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear form flag")
		}
		if err := userRepo.SetOverallStatus(ctx, input.MarketerID, enums.OverallStatusPending); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset overall status")
		}

		result = SubmissionResult{
			SubmissionID: submission.ID,
			MarketerID:   input.MarketerID,
			Status:       enums.SubmissionStatusPendingMarketerForms,
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRefillAllowed,
			AggregateType: enums.AggregateSubmission,
			AggregateID:   submission.ID,
			Version:       1,
			Actor:         actorRef(input.AllowedBy, input.ActorRole),
			Data: payloads.RefillAllowedEvent{
				SubmissionID: submission.ID,
				MarketerID:   input.MarketerID,
				AllowedBy:    input.AllowedBy,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) Status(ctx context.Context, marketerID uuid.UUID) (*StatusView, error) {
	if marketerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	marketer, err := s.users.FindByID(ctx, marketerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketer")
	}

	view := &StatusView{
		OverallVerificationStatus: marketer.OverallVerificationStatus,
		BioSubmitted:              marketer.BioSubmitted,
		GuarantorSubmitted:        marketer.GuarantorSubmitted,
		CommitmentSubmitted:       marketer.CommitmentSubmitted,
		Locked:                    marketer.Locked,
	}

	submission, err := s.repo.FindSubmissionByMarketer(ctx, marketerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return view, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	view.SubmissionID = &submission.ID
	view.Status = &submission.Status
	view.RejectionReason = submission.RejectionReason
	return view, nil
}

func (s *service) History(ctx context.Context, submissionID uuid.UUID) ([]HistoryEntry, error) {
	if submissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id required")
	}

	logs, err := s.repo.ListWorkflowLogs(ctx, submissionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow logs")
	}
	entries := make([]HistoryEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, HistoryEntry{
			ActorID:    log.ActorID,
			ActorRole:  log.ActorRole,
			FromStatus: log.FromStatus,
			ToStatus:   log.ToStatus,
			Notes:      log.Notes,
			OccurredAt: log.CreatedAt,
		})
	}
	return entries, nil
}

type transitionInput struct {
	submission *models.VerificationSubmission
	to         enums.SubmissionStatus
	actorID    uuid.UUID
	actorRole  enums.Role
	notes      *string
	updates    map[string]any
}

// applyTransition validates the move, writes the status plus any stage
// timestamps, and appends the audit row. Callers run it inside a transaction.
func (s *service) applyTransition(ctx context.Context, repo Repository, input transitionInput) error {
	from := input.submission.Status
	if err := ValidateTransition(from, input.to); err != nil {
		return err
	}

	updates := map[string]any{"submission_status": input.to}
	for column, value := range input.updates {
		updates[column] = value
	}
	if err := repo.UpdateSubmission(ctx, input.submission.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update submission status")
	}
	if err := repo.AppendWorkflowLog(ctx, &models.VerificationWorkflowLog{
		SubmissionID: input.submission.ID,
		MarketerID:   input.submission.MarketerID,
		ActorID:      input.actorID,
		ActorRole:    input.actorRole,
		FromStatus:   from,
		ToStatus:     input.to,
		Notes:        input.notes,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append workflow log")
	}

	input.submission.Status = input.to
	return nil
}

func (s *service) rejectSubmission(ctx context.Context, tx *gorm.DB, repo Repository, userRepo users.Repository, submission *models.VerificationSubmission, actorID uuid.UUID, actorRole enums.Role, reason string) error {
	now := time.Now()
	if err := s.applyTransition(ctx, repo, transitionInput{
		submission: submission,
		to:         enums.SubmissionStatusRejected,
		actorID:    actorID,
		actorRole:  actorRole,
		notes:      &reason,
		updates: map[string]any{
			"rejection_reason": reason,
			"rejected_by":      actorID,
			"rejected_at":      now,
		},
	}); err != nil {
		return err
	}
	if err := userRepo.SetOverallStatus(ctx, submission.MarketerID, enums.OverallStatusRejected); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update overall status")
	}
	if err := userRepo.SetLocked(ctx, submission.MarketerID, true); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock user")
	}
	var adminID uuid.UUID
	if submission.AdminID != nil {
		adminID = *submission.AdminID
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventSubmissionRejected,
		AggregateType: enums.AggregateSubmission,
		AggregateID:   submission.ID,
		Version:       1,
		Actor:         actorRef(actorID, actorRole),
		Data: payloads.SubmissionRejectedEvent{
			SubmissionID: submission.ID,
			MarketerID:   submission.MarketerID,
			AdminID:      adminID,
			RejectedBy:   actorID,
			RejectorRole: actorRole,
			Reason:       reason,
		},
	})
}

// lockSubmission loads a submission by id under a row lock.
func (s *service) lockSubmission(ctx context.Context, repo Repository, id uuid.UUID) (*models.VerificationSubmission, error) {
	submission, err := repo.FindSubmissionByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	locked, err := repo.FindSubmissionByMarketerForUpdate(ctx, submission.MarketerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock submission")
	}
	return locked, nil
}

func actorRef(userID uuid.UUID, role enums.Role) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: userID, Role: string(role)}
}
