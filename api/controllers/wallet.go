package controllers

import (
	"context"
	"net/http"

	"github.com/IgureAndrew/vistapro-backend/api/responses"
	"github.com/IgureAndrew/vistapro-backend/api/validators"
	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
)

// WalletBalances returns the caller's balance snapshot.
func WalletBalances(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Balances(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WalletStatement returns the caller's most recent ledger rows.
func WalletStatement(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Statement(r.Context(), actorID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}

type withheldDecisionBody struct {
	Reason string `json:"reason"`
}

// ReleaseWithheld moves a user's withheld balance into available funds.
func ReleaseWithheld(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return withheldDecision(svc, logg, svc.ReleaseWithheld)
}

// RejectWithheld forfeits a user's withheld balance.
func RejectWithheld(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return withheldDecision(svc, logg, svc.RejectWithheld)
}

func withheldDecision(
	svc wallet.Service,
	logg *logger.Logger,
	decide func(ctx context.Context, input wallet.WithheldDecisionInput) (*wallet.WithheldDecisionResult, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body withheldDecisionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := decide(r.Context(), wallet.WithheldDecisionInput{
			UserID:    userID,
			DecidedBy: actorID,
			Reason:    validators.SanitizeString(body.Reason, 255),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
