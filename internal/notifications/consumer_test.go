package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/idempotency"
	"github.com/IgureAndrew/vistapro-backend/pkg/outbox/payloads"
)

type recordingRepo struct {
	created []models.Notification
	err     error
}

func (r *recordingRepo) Create(ctx context.Context, notification *models.Notification) error {
	if r.err != nil {
		return r.err
	}
	notification.ID = uuid.New()
	r.created = append(r.created, *notification)
	return nil
}

type memoryIdempotencyStore struct {
	keys map[string]bool
}

func (m *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	if m.keys[key] {
		return "1", nil
	}
	return "", nil
}

func (m *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("test:%s:%s", scope, id)
}

func (m *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

type recordingPublisher struct {
	channels []string
	err      error
}

func (r *recordingPublisher) NotifyChannel(userID string) string {
	return "vistapro:notify:" + userID
}

func (r *recordingPublisher) Publish(ctx context.Context, channel string, payload any) error {
	if r.err != nil {
		return r.err
	}
	r.channels = append(r.channels, channel)
	return nil
}

func newConsumerFixture(t *testing.T) (*Consumer, *recordingRepo, *recordingPublisher) {
	t.Helper()
	repo := &recordingRepo{}
	publisher := &recordingPublisher{}
	manager, err := idempotency.NewManager(&memoryIdempotencyStore{keys: map[string]bool{}}, time.Hour)
	require.NoError(t, err)
	consumer, err := NewConsumer(repo, manager, publisher, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return consumer, repo, publisher
}

func outboxEvent(t *testing.T, eventType enums.OutboxEventType, aggregate enums.OutboxAggregateType, data any) models.OutboxEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggregate,
		AggregateID:   uuid.New(),
		Payload:       envelope,
	}
}

func TestHandleEventFormsCompletedNotifiesAdmin(t *testing.T) {
	consumer, repo, publisher := newConsumerFixture(t)
	adminID := uuid.New()

	event := outboxEvent(t, enums.EventFormsCompleted, enums.AggregateSubmission, payloads.FormsCompletedEvent{
		SubmissionID: uuid.New(),
		MarketerID:   uuid.New(),
		AdminID:      adminID,
		CompletedAt:  time.Now(),
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))

	require.Len(t, repo.created, 1)
	require.Equal(t, adminID, repo.created[0].UserID)
	require.Equal(t, enums.NotificationTypeVerificationUpdate, repo.created[0].Type)
	require.Len(t, publisher.channels, 1)
	require.Contains(t, publisher.channels[0], adminID.String())
}

func TestHandleEventCommissionCredited(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)
	userID := uuid.New()

	event := outboxEvent(t, enums.EventCommissionCredited, enums.AggregateOrder, payloads.CommissionCreditedEvent{
		OrderID:         uuid.New(),
		UserID:          userID,
		TransactionType: enums.TransactionMarketerCommission,
		AmountKobo:      20000,
		DeviceType:      enums.DeviceTypeAndroid,
		Qty:             2,
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))

	require.Len(t, repo.created, 1)
	require.Equal(t, enums.NotificationTypeCommissionCredited, repo.created[0].Type)
	require.Contains(t, repo.created[0].Message, "₦200.00")
}

func TestHandleEventDuplicateSkipped(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)

	event := outboxEvent(t, enums.EventSubmissionApproved, enums.AggregateSubmission, payloads.SubmissionApprovedEvent{
		SubmissionID: uuid.New(),
		MarketerID:   uuid.New(),
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))
	require.NoError(t, consumer.HandleEvent(context.Background(), event))
	require.Len(t, repo.created, 1)
}

func TestHandleEventUnknownTypeIgnored(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)

	event := outboxEvent(t, enums.OutboxEventType("future.event"), enums.AggregateWallet, map[string]string{"k": "v"})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))
	require.Empty(t, repo.created)
}

func TestHandleEventSuperAdminRejectionNotifiesMarketerAndAdmin(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)
	marketerID := uuid.New()
	adminID := uuid.New()

	event := outboxEvent(t, enums.EventSubmissionRejected, enums.AggregateSubmission, payloads.SubmissionRejectedEvent{
		SubmissionID: uuid.New(),
		MarketerID:   marketerID,
		AdminID:      adminID,
		RejectedBy:   uuid.New(),
		RejectorRole: enums.RoleSuperAdmin,
		Reason:       "guarantor details unverifiable",
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))

	require.Len(t, repo.created, 2)
	recipients := map[uuid.UUID]bool{}
	for _, row := range repo.created {
		recipients[row.UserID] = true
		require.Equal(t, enums.NotificationTypeVerificationUpdate, row.Type)
	}
	require.True(t, recipients[marketerID])
	require.True(t, recipients[adminID])
}

func TestHandleEventAdminRejectionNotifiesMarketerOnly(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)
	marketerID := uuid.New()
	adminID := uuid.New()

	event := outboxEvent(t, enums.EventSubmissionRejected, enums.AggregateSubmission, payloads.SubmissionRejectedEvent{
		SubmissionID: uuid.New(),
		MarketerID:   marketerID,
		AdminID:      adminID,
		RejectedBy:   adminID,
		RejectorRole: enums.RoleAdmin,
		Reason:       "incomplete biodata",
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))

	require.Len(t, repo.created, 1)
	require.Equal(t, marketerID, repo.created[0].UserID)
}

func TestHandleEventCreateFailureAllowsRetry(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)
	marketerID := uuid.New()

	event := outboxEvent(t, enums.EventSubmissionRejected, enums.AggregateSubmission, payloads.SubmissionRejectedEvent{
		SubmissionID: uuid.New(),
		MarketerID:   marketerID,
		RejectedBy:   uuid.New(),
		RejectorRole: enums.RoleSuperAdmin,
		Reason:       "guarantor details unverifiable",
	})

	repo.err = fmt.Errorf("connection reset")
	require.Error(t, consumer.HandleEvent(context.Background(), event))

	repo.err = nil
	require.NoError(t, consumer.HandleEvent(context.Background(), event))
	require.Len(t, repo.created, 1)
	require.Contains(t, repo.created[0].Message, "guarantor details unverifiable")
}

func TestHandleEventWithdrawalRequestedQuotesAmount(t *testing.T) {
	consumer, repo, _ := newConsumerFixture(t)
	userID := uuid.New()

	event := outboxEvent(t, enums.EventWithdrawalRequested, enums.AggregateWithdrawal, payloads.WithdrawalRequestedEvent{
		WithdrawalID:  uuid.New(),
		UserID:        userID,
		AmountKobo:    50000,
		FeeKobo:       10000,
		NetAmountKobo: 50000,
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))

	require.Len(t, repo.created, 1)
	require.Equal(t, enums.NotificationTypeWithdrawalUpdate, repo.created[0].Type)
	require.Contains(t, repo.created[0].Message, "₦500.00")
}

func TestHandleEventPushFailureSwallowed(t *testing.T) {
	consumer, repo, publisher := newConsumerFixture(t)
	publisher.err = fmt.Errorf("redis down")

	event := outboxEvent(t, enums.EventRefillAllowed, enums.AggregateSubmission, payloads.RefillAllowedEvent{
		SubmissionID: uuid.New(),
		MarketerID:   uuid.New(),
		AllowedBy:    uuid.New(),
	})
	require.NoError(t, consumer.HandleEvent(context.Background(), event))
	require.Len(t, repo.created, 1)
}
