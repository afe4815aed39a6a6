package controllers

import (
	"net/http"
	"time"

	"github.com/IgureAndrew/vistapro-backend/api/responses"
	"github.com/IgureAndrew/vistapro-backend/api/validators"
	"github.com/IgureAndrew/vistapro-backend/internal/verification"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
)

type biodataBody struct {
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Address          string     `json:"address" validate:"required"`
	MaritalStatus    *string    `json:"marital_status"`
	SchoolAttended   *string    `json:"school_attended"`
	IDType           string     `json:"id_type" validate:"required"`
	IDDocumentURL    string     `json:"id_document_url" validate:"required"`
	PassportPhotoURL string     `json:"passport_photo_url" validate:"required"`
	NextOfKinName    string     `json:"next_of_kin_name" validate:"required"`
	NextOfKinPhone   string     `json:"next_of_kin_phone" validate:"required"`
	BankName         string     `json:"bank_name" validate:"required"`
	AccountNumber    string     `json:"account_number" validate:"required"`
	AccountName      string     `json:"account_name" validate:"required"`
}

// SubmitBiodata records the marketer's first onboarding form.
func SubmitBiodata(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body biodataBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitBiodata(r.Context(), verification.SubmitBiodataInput{
			MarketerID:       actorID,
			DateOfBirth:      body.DateOfBirth,
			Address:          body.Address,
			MaritalStatus:    body.MaritalStatus,
			SchoolAttended:   body.SchoolAttended,
			IDType:           body.IDType,
			IDDocumentURL:    body.IDDocumentURL,
			PassportPhotoURL: body.PassportPhotoURL,
			NextOfKinName:    body.NextOfKinName,
			NextOfKinPhone:   body.NextOfKinPhone,
			BankName:         body.BankName,
			AccountNumber:    body.AccountNumber,
			AccountName:      body.AccountName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type guarantorBody struct {
	GuarantorName string `json:"guarantor_name" validate:"required"`
	Relationship  string `json:"relationship" validate:"required"`
	KnownDuration string `json:"known_duration" validate:"required"`
	Occupation    string `json:"occupation" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	IDDocumentURL string `json:"id_document_url" validate:"required"`
	SignatureURL  string `json:"signature_url" validate:"required"`
}

// SubmitGuarantor records the marketer's guarantor form.
func SubmitGuarantor(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body guarantorBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitGuarantor(r.Context(), verification.SubmitGuarantorInput{
			MarketerID:    actorID,
			GuarantorName: body.GuarantorName,
			Relationship:  body.Relationship,
			KnownDuration: body.KnownDuration,
			Occupation:    body.Occupation,
			Address:       body.Address,
			Phone:         body.Phone,
			IDDocumentURL: body.IDDocumentURL,
			SignatureURL:  body.SignatureURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type commitmentBody struct {
	PromiseAccountable  bool      `json:"promise_accountable"`
	PromiseNoDiversion  bool      `json:"promise_no_diversion"`
	PromiseRemitPayment bool      `json:"promise_remit_payment"`
	DirectSalesRepName  string    `json:"direct_sales_rep_name" validate:"required"`
	SignatureURL        string    `json:"signature_url" validate:"required"`
	DateSigned          time.Time `json:"date_signed" validate:"required"`
}

// SubmitCommitment records the signed direct-sales pledge.
func SubmitCommitment(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body commitmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitCommitment(r.Context(), verification.SubmitCommitmentInput{
			MarketerID:          actorID,
			PromiseAccountable:  body.PromiseAccountable,
			PromiseNoDiversion:  body.PromiseNoDiversion,
			PromiseRemitPayment: body.PromiseRemitPayment,
			DirectSalesRepName:  body.DirectSalesRepName,
			SignatureURL:        body.SignatureURL,
			DateSigned:          body.DateSigned,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type evidenceBody struct {
	LocationAddress  string  `json:"location_address" validate:"required"`
	LandmarkPhotoURL string  `json:"landmark_photo_url" validate:"required"`
	BuildingPhotoURL string  `json:"building_photo_url" validate:"required"`
	Notes            *string `json:"notes"`
}

// UploadEvidence attaches the admin's physical-verification material.
func UploadEvidence(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body evidenceBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UploadEvidence(r.Context(), verification.UploadEvidenceInput{
			SubmissionID:     submissionID,
			AdminID:          actorID,
			LocationAddress:  body.LocationAddress,
			LandmarkPhotoURL: body.LandmarkPhotoURL,
			BuildingPhotoURL: body.BuildingPhotoURL,
			Notes:            body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

type sendBody struct {
	Notes *string `json:"notes"`
}

// VerifyAndSend moves a reviewed case from the admin to the superadmin desk.
func VerifyAndSend(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sendBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.VerifyAndSend(r.Context(), verification.VerifyAndSendInput{
			SubmissionID: submissionID,
			AdminID:      actorID,
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type verdictBody struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// SuperAdminVerify records the superadmin's yes/no verdict.
func SuperAdminVerify(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body verdictBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SuperAdminVerify(r.Context(), verification.SuperAdminVerifyInput{
			SubmissionID: submissionID,
			SuperAdminID: actorID,
			Approved:     body.Approve,
			Reason:       body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MasterAdminDecision records the terminal approve/reject verdict.
func MasterAdminDecision(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body verdictBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.MasterAdminDecision(r.Context(), verification.MasterAdminDecisionInput{
			SubmissionID:  submissionID,
			MasterAdminID: actorID,
			Approve:       body.Approve,
			Reason:        body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CancelSubmission withdraws a case from the pipeline.
func CancelSubmission(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sendBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Cancel(r.Context(), verification.CancelInput{
			SubmissionID: submissionID,
			ActorID:      actorID,
			ActorRole:    role,
			Notes:        body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type refillBody struct {
	Form string `json:"form" validate:"required"`
}

// AllowRefill reopens one onboarding form for a marketer.
func AllowRefill(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		marketerID, err := pathUUID(r, "marketerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body refillBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		form, err := enums.ParseFormType(body.Form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
			return
		}

		result, err := svc.AllowRefill(r.Context(), verification.AllowRefillInput{
			MarketerID: marketerID,
			Form:       form,
			AllowedBy:  actorID,
			ActorRole:  role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// VerificationStatus returns the caller's verification snapshot.
func VerificationStatus(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Status(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// VerificationHistory returns the audit trail for one submission.
func VerificationHistory(svc verification.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.History(r.Context(), submissionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": entries})
	}
}
