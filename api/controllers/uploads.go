package controllers

import (
	"net/http"

	"github.com/IgureAndrew/vistapro-backend/api/responses"
	"github.com/IgureAndrew/vistapro-backend/api/validators"
	"github.com/IgureAndrew/vistapro-backend/internal/uploads"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
)

type presignBody struct {
	Kind      string `json:"kind" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	FileName  string `json:"file_name" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
}

// PresignUpload hands the client a short-lived signed URL for a document or
// photo upload.
func PresignUpload(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body presignBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PresignUpload(r.Context(), actorID, role, uploads.PresignInput{
			Kind:      uploads.Kind(body.Kind),
			MimeType:  body.MimeType,
			FileName:  body.FileName,
			SizeBytes: body.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
