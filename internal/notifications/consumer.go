package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/idempotency"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/payloads"
)

const consumerName = "notifications-worker"

type consumerRepo interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// realtimePublisher is the slice of the redis client used for live pushes.
type realtimePublisher interface {
	NotifyChannel(userID string) string
	Publish(ctx context.Context, channel string, payload any) error
}

// Consumer translates dispatched outbox events into persisted notifications
// and best-effort realtime pushes. Redis publish failures are logged and
// swallowed; the stored row is the source of truth.
type Consumer struct {
	repo        consumerRepo
	idempotency *idempotency.Manager
	realtime    realtimePublisher
	logg        *logger.Logger
}

// NewConsumer builds the notification fan-out consumer. The realtime
// publisher is optional.
func NewConsumer(repo consumerRepo, manager *idempotency.Manager, realtime realtimePublisher, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:        repo,
		idempotency: manager,
		realtime:    realtime,
		logg:        logg,
	}, nil
}

// HandleEvent processes one outbox event. Unknown event types are skipped
// without error so new producers never wedge the dispatch loop.
func (c *Consumer) HandleEvent(ctx context.Context, event models.OutboxEvent) error {
	processed, err := c.idempotency.CheckAndMarkProcessed(ctx, consumerName, event.ID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if processed {
		logCtx := c.logg.WithField(ctx, "event_id", event.ID.String())
		c.logg.Info(logCtx, "event already processed, skipping")
		return nil
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return fmt.Errorf("decode payload envelope: %w", err)
	}

	rows, err := c.translate(event, envelope.Data)
	if err != nil {
		return err
	}

	for i := range rows {
		if err := c.repo.Create(ctx, &rows[i]); err != nil {
			// Unmark so a retry can redo the whole fan-out.
			if delErr := c.idempotency.Delete(ctx, consumerName, event.ID); delErr != nil {
				c.logg.Error(ctx, "failed to unmark event", delErr)
			}
			return fmt.Errorf("create notification: %w", err)
		}
		c.push(ctx, rows[i])
	}
	return nil
}

func (c *Consumer) translate(event models.OutboxEvent, data json.RawMessage) ([]models.Notification, error) {
	switch event.EventType {
	case enums.EventFormsCompleted:
		var payload payloads.FormsCompletedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.AdminID, enums.NotificationTypeVerificationUpdate,
			"A marketer has submitted all verification forms and is awaiting your review."), nil

	case enums.EventAdminReviewed:
		var payload payloads.AdminReviewedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.SuperAdminID, enums.NotificationTypeVerificationUpdate,
			"A verification case has been reviewed by its admin and is awaiting your verification."), nil

	case enums.EventSuperAdminVerified:
		var payload payloads.SuperAdminVerifiedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.MarketerID, enums.NotificationTypeVerificationUpdate,
			"Your verification has passed superadmin review and is awaiting final approval."), nil

	case enums.EventSubmissionApproved:
		var payload payloads.SubmissionApprovedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.MarketerID, enums.NotificationTypeVerificationUpdate,
			"Your account has been verified and unlocked. You can now place stock orders."), nil

	case enums.EventSubmissionRejected:
		var payload payloads.SubmissionRejectedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		rows := notify(payload.MarketerID, enums.NotificationTypeVerificationUpdate,
			fmt.Sprintf("Your verification was rejected: %s", payload.Reason))
		// Rejections above the admin stage also inform the assigned admin.
		if payload.RejectorRole == enums.RoleSuperAdmin || payload.RejectorRole == enums.RoleMasterAdmin {
			rows = append(rows, notify(payload.AdminID, enums.NotificationTypeVerificationUpdate,
				fmt.Sprintf("A marketer you reviewed was rejected: %s", payload.Reason))...)
		}
		return rows, nil

	case enums.EventRefillAllowed:
		var payload payloads.RefillAllowedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.MarketerID, enums.NotificationTypeVerificationUpdate,
			"You may now resubmit your verification forms."), nil

	case enums.EventCommissionCredited:
		var payload payloads.CommissionCreditedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.UserID, enums.NotificationTypeCommissionCredited,
			fmt.Sprintf("Commission of %s has been credited to your wallet.", naira(payload.AmountKobo))), nil

	case enums.EventWithheldReleased:
		var payload payloads.WithheldDecisionEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.UserID, enums.NotificationTypeWithheldUpdate,
			fmt.Sprintf("%s of withheld commission has been released to your available balance.", naira(payload.AmountKobo))), nil

	case enums.EventWithheldRejected:
		var payload payloads.WithheldDecisionEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.UserID, enums.NotificationTypeWithheldUpdate,
			fmt.Sprintf("%s of withheld commission was rejected: %s", naira(payload.AmountKobo), payload.Reason)), nil

	case enums.EventWithdrawalRequested:
		var payload payloads.WithdrawalRequestedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		return notify(payload.UserID, enums.NotificationTypeWithdrawalUpdate,
			fmt.Sprintf("Your withdrawal request for %s has been received and is pending review.", naira(payload.AmountKobo))), nil

	case enums.EventWithdrawalDecided:
		var payload payloads.WithdrawalDecidedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		message := fmt.Sprintf("Your withdrawal request for %s has been approved.", naira(payload.AmountKobo))
		if payload.Status == enums.WithdrawalStatusRejected {
			message = fmt.Sprintf("Your withdrawal request for %s was rejected: %s", naira(payload.AmountKobo), payload.Reason)
		}
		return notify(payload.UserID, enums.NotificationTypeWithdrawalUpdate, message), nil
	}

	return nil, nil
}

func (c *Consumer) push(ctx context.Context, row models.Notification) {
	if c.realtime == nil {
		return
	}
	channel := c.realtime.NotifyChannel(row.UserID.String())
	body, err := json.Marshal(map[string]any{
		"id":      row.ID.String(),
		"type":    row.Type,
		"message": row.Message,
	})
	if err != nil {
		c.logg.Error(ctx, "failed to encode realtime push", err)
		return
	}
	if err := c.realtime.Publish(ctx, channel, body); err != nil {
		logCtx := c.logg.WithField(ctx, "user_id", row.UserID.String())
		c.logg.Error(logCtx, "realtime push failed", err)
	}
}

func notify(userID uuid.UUID, kind enums.NotificationType, message string) []models.Notification {
	if userID == uuid.Nil {
		return nil
	}
	return []models.Notification{{UserID: userID, Type: kind, Message: message}}
}

// naira renders a kobo amount as a naira string, e.g. 20000 -> "₦200.00".
func naira(kobo int64) string {
	sign := ""
	if kobo < 0 {
		sign = "-"
		kobo = -kobo
	}
	return fmt.Sprintf("%s₦%d.%02d", sign, kobo/100, kobo%100)
}
