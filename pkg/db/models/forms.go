package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketerBiodata is the first onboarding form. Submitted exactly once per
// marketer; the only mutation path is an administrative refill which deletes
// the row.
type MarketerBiodata struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketerID       uuid.UUID  `gorm:"column:marketer_id;type:uuid;not null;uniqueIndex"`
	DateOfBirth      *time.Time `gorm:"column:date_of_birth"`
	Address          string     `gorm:"column:address;not null"`
	MaritalStatus    *string    `gorm:"column:marital_status"`
	SchoolAttended   *string    `gorm:"column:school_attended"`
	IDType           string     `gorm:"column:id_type;not null"`
	IDDocumentURL    string     `gorm:"column:id_document_url;not null"`
	PassportPhotoURL string     `gorm:"column:passport_photo_url;not null"`
	NextOfKinName    string     `gorm:"column:next_of_kin_name;not null"`
	NextOfKinPhone   string     `gorm:"column:next_of_kin_phone;not null"`
	BankName         string     `gorm:"column:bank_name;not null"`
	AccountNumber    string     `gorm:"column:account_number;not null"`
	AccountName      string     `gorm:"column:account_name;not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// GuarantorForm is the second onboarding form.
type GuarantorForm struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketerID    uuid.UUID `gorm:"column:marketer_id;type:uuid;not null;uniqueIndex"`
	GuarantorName string    `gorm:"column:guarantor_name;not null"`
	Relationship  string    `gorm:"column:relationship;not null"`
	KnownDuration string    `gorm:"column:known_duration;not null"`
	Occupation    string    `gorm:"column:occupation;not null"`
	Address       string    `gorm:"column:address;not null"`
	Phone         string    `gorm:"column:phone;not null"`
	IDDocumentURL string    `gorm:"column:id_document_url;not null"`
	SignatureURL  string    `gorm:"column:signature_url;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// CommitmentForm is the third onboarding form, a signed direct-sales pledge.
type CommitmentForm struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketerID          uuid.UUID `gorm:"column:marketer_id;type:uuid;not null;uniqueIndex"`
	PromiseAccountable  bool      `gorm:"column:promise_accountable;not null"`
	PromiseNoDiversion  bool      `gorm:"column:promise_no_diversion;not null"`
	PromiseRemitPayment bool      `gorm:"column:promise_remit_payment;not null"`
	DirectSalesRepName  string    `gorm:"column:direct_sales_rep_name;not null"`
	SignatureURL        string    `gorm:"column:signature_url;not null"`
	DateSigned          time.Time `gorm:"column:date_signed;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

// VerificationEvidence stores the physical-verification photos and notes an
// admin uploads before sending a case onward. Uploading evidence does not by
// itself move the submission.
type VerificationEvidence struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubmissionID     uuid.UUID `gorm:"column:submission_id;type:uuid;not null;index"`
	AdminID          uuid.UUID `gorm:"column:admin_id;type:uuid;not null"`
	LocationAddress  string    `gorm:"column:location_address;not null"`
	LandmarkPhotoURL string    `gorm:"column:landmark_photo_url;not null"`
	BuildingPhotoURL string    `gorm:"column:building_photo_url;not null"`
	Notes            *string   `gorm:"column:notes"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
