package verification

import (
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
)

// SubmitBiodataInput carries the first onboarding form.
type SubmitBiodataInput struct {
	MarketerID       uuid.UUID
	DateOfBirth      *time.Time
	Address          string
	MaritalStatus    *string
	SchoolAttended   *string
	IDType           string
	IDDocumentURL    string
	PassportPhotoURL string
	NextOfKinName    string
	NextOfKinPhone   string
	BankName         string
	AccountNumber    string
	AccountName      string
}

// SubmitGuarantorInput carries the second onboarding form.
type SubmitGuarantorInput struct {
	MarketerID    uuid.UUID
	GuarantorName string
	Relationship  string
	KnownDuration string
	Occupation    string
	Address       string
	Phone         string
	IDDocumentURL string
	SignatureURL  string
}

// SubmitCommitmentInput carries the signed direct-sales pledge.
type SubmitCommitmentInput struct {
	MarketerID          uuid.UUID
	PromiseAccountable  bool
	PromiseNoDiversion  bool
	PromiseRemitPayment bool
	DirectSalesRepName  string
	SignatureURL        string
	DateSigned          time.Time
}

// UploadEvidenceInput carries the physical-verification material an admin
// attaches before sending a case onward.
type UploadEvidenceInput struct {
	SubmissionID     uuid.UUID
	AdminID          uuid.UUID
	LocationAddress  string
	LandmarkPhotoURL string
	BuildingPhotoURL string
	Notes            *string
}

// VerifyAndSendInput moves a reviewed case from admin to superadmin.
type VerifyAndSendInput struct {
	SubmissionID uuid.UUID
	AdminID      uuid.UUID
	Notes        *string
}

// SuperAdminVerifyInput records the superadmin's yes/no verdict.
type SuperAdminVerifyInput struct {
	SubmissionID uuid.UUID
	SuperAdminID uuid.UUID
	Approved     bool
	Reason       string
}

// MasterAdminDecisionInput records the terminal approve/reject verdict.
type MasterAdminDecisionInput struct {
	SubmissionID  uuid.UUID
	MasterAdminID uuid.UUID
	Approve       bool
	Reason        string
}

// CancelInput withdraws a submission from the pipeline.
type CancelInput struct {
	SubmissionID uuid.UUID
	ActorID      uuid.UUID
	ActorRole    enums.Role
	Notes        *string
}

// AllowRefillInput lets a marketer resubmit one onboarding form.
type AllowRefillInput struct {
	MarketerID uuid.UUID
	Form       enums.FormType
	AllowedBy  uuid.UUID
	ActorRole  enums.Role
}

// SubmissionResult is returned by every submit/transition operation.
type SubmissionResult struct {
	SubmissionID uuid.UUID              `json:"submission_id"`
	MarketerID   uuid.UUID              `json:"marketer_id"`
	Status       enums.SubmissionStatus `json:"status"`
}

// StatusView is the marketer-facing snapshot of their verification progress.
type StatusView struct {
	SubmissionID              *uuid.UUID                      `json:"submission_id,omitempty"`
	Status                    *enums.SubmissionStatus         `json:"status,omitempty"`
	OverallVerificationStatus enums.OverallVerificationStatus `json:"overall_verification_status"`
	BioSubmitted              bool                            `json:"bio_submitted"`
	GuarantorSubmitted        bool                            `json:"guarantor_submitted"`
	CommitmentSubmitted       bool                            `json:"commitment_submitted"`
	Locked                    bool                            `json:"locked"`
	RejectionReason           *string                         `json:"rejection_reason,omitempty"`
}

// HistoryEntry is one audit-log row in API shape.
type HistoryEntry struct {
	ActorID    uuid.UUID              `json:"actor_id"`
	ActorRole  enums.Role             `json:"actor_role"`
	FromStatus enums.SubmissionStatus `json:"from_status"`
	ToStatus   enums.SubmissionStatus `json:"to_status"`
	Notes      *string                `json:"notes,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
