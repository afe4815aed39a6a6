package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/api/responses"
	"github.com/IgureAndrew/vistapro-backend/api/validators"
	"github.com/IgureAndrew/vistapro-backend/internal/orders"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
)

type createOrderBody struct {
	DealerID   *uuid.UUID `json:"dealer_id"`
	DeviceType string     `json:"device_type" validate:"required"`
	DeviceName string     `json:"device_name" validate:"required"`
	Qty        int        `json:"qty" validate:"required,gt=0"`
	SoldAmount int64      `json:"sold_amount" validate:"required,gt=0"`
}

// CreateOrder records a sale made by the authenticated marketer.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateOrderInput{
			MarketerID: actorID,
			DealerID:   body.DealerID,
			DeviceType: enums.DeviceType(body.DeviceType),
			DeviceName: body.DeviceName,
			Qty:        body.Qty,
			SoldAmount: body.SoldAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListOrders returns the caller's orders, newest first.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListForMarketer(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}

// OrderDetail returns one order.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListPendingReleaseOrders returns orders awaiting release confirmation.
func ListPendingReleaseOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListPendingRelease(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}

// ConfirmOrderRelease confirms a device release and triggers the commission
// split.
func ConfirmOrderRelease(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ConfirmRelease(r.Context(), orders.ConfirmReleaseInput{
			OrderID:     orderID,
			ConfirmedBy: actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
