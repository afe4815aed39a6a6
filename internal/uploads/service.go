package uploads

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	pkgerrors "github.com/IgureAndrew/vistapro-backend/pkg/errors"
)

const maxUploadBytes = 10 * 1024 * 1024

// Kind identifies what a verification upload is for. It selects the object
// key prefix and the allowed mime types.
type Kind string

const (
	KindPassportPhoto Kind = "passport_photo"
	KindIDDocument    Kind = "id_document"
	KindGuarantorID   Kind = "guarantor_id"
	KindEvidencePhoto Kind = "evidence_photo"
)

var validKinds = []Kind{KindPassportPhoto, KindIDDocument, KindGuarantorID, KindEvidencePhoto}

// IsValid reports whether the value is a known upload kind.
func (k Kind) IsValid() bool {
	for _, candidate := range validKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// evidence photos come from admin accounts; the document kinds from marketers.
var rolesByKind = map[Kind][]enums.Role{
	KindPassportPhoto: {enums.RoleMarketer},
	KindIDDocument:    {enums.RoleMarketer},
	KindGuarantorID:   {enums.RoleMarketer},
	KindEvidencePhoto: {enums.RoleAdmin},
}

var mimeTypesByKind = map[Kind][]string{
	KindPassportPhoto: {"image/png", "image/jpeg", "image/webp"},
	KindIDDocument:    {"image/png", "image/jpeg", "image/webp", "application/pdf"},
	KindGuarantorID:   {"image/png", "image/jpeg", "image/webp", "application/pdf"},
	KindEvidencePhoto: {"image/png", "image/jpeg", "image/webp"},
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
}

// Service signs direct-to-bucket upload URLs for verification documents.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, role enums.Role, input PresignInput) (*PresignOutput, error)
}

type service struct {
	gcs       gcsClient
	bucket    string
	uploadTTL time.Duration
}

// NewService constructs the upload presigner. A nil gcs client degrades to
// deterministic placeholder URLs so local development works without GCS.
func NewService(gcs gcsClient, bucket string, uploadTTL time.Duration) (Service, error) {
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	if gcs != nil && bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	return &service{
		gcs:       gcs,
		bucket:    bucket,
		uploadTTL: uploadTTL,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      Kind
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the signed URL and the object key the client must
// echo back when submitting the form that references the upload.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, role enums.Role, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid upload kind")
	}
	if !roleAllowed(input.Kind, role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("%s uploads are not available to %s accounts", input.Kind, role))
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be ≤ %d bytes", maxUploadBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(input.Kind, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for upload kind")
	}

	objectKey := buildObjectKey(input.Kind, userID, fileName)
	expiresAt := time.Now().Add(s.uploadTTL)

	if s.gcs == nil {
		return &PresignOutput{
			ObjectKey:    objectKey,
			SignedPUTURL: fmt.Sprintf("https://storage.invalid/%s", objectKey),
			ContentType:  mimeType,
			ExpiresAt:    expiresAt,
		}, nil
	}

	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}
	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

func roleAllowed(kind Kind, role enums.Role) bool {
	if role == enums.RoleMasterAdmin {
		return true
	}
	for _, candidate := range rolesByKind[kind] {
		if candidate == role {
			return true
		}
	}
	return false
}

func isAllowedMime(kind Kind, mimeType string) bool {
	for _, candidate := range mimeTypesByKind[kind] {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildObjectKey(kind Kind, userID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = uuid.NewString()
	}
	return fmt.Sprintf("verification/%s/%s/%s", kind, userID.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
