package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/IgureAndrew/vistapro-backend/pkg/db/models"
	"github.com/IgureAndrew/vistapro-backend/pkg/enums"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
)

const withdrawalReminderAgeDays = 3

type staleWithdrawalsRepo interface {
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]models.WithdrawalRequest, error)
}

type reminderUsersRepo interface {
	ListByRole(ctx context.Context, role enums.Role) ([]models.User, error)
}

type reminderNotificationsRepo interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type WithdrawalReminderJobParams struct {
	Logger        *logger.Logger
	Withdrawals   staleWithdrawalsRepo
	Users         reminderUsersRepo
	Notifications reminderNotificationsRepo
	MaxAgeDays    int
}

// NewWithdrawalReminderJob nags master admins about withdrawal requests that
// have sat in pending beyond the age threshold.
func NewWithdrawalReminderJob(params WithdrawalReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Withdrawals == nil {
		return nil, fmt.Errorf("withdrawals repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	maxAge := params.MaxAgeDays
	if maxAge <= 0 {
		maxAge = withdrawalReminderAgeDays
	}
	return &withdrawalReminderJob{
		logg:          params.Logger,
		withdrawals:   params.Withdrawals,
		users:         params.Users,
		notifications: params.Notifications,
		maxAge:        maxAge,
		now:           time.Now,
	}, nil
}

type withdrawalReminderJob struct {
	logg          *logger.Logger
	withdrawals   staleWithdrawalsRepo
	users         reminderUsersRepo
	notifications reminderNotificationsRepo
	maxAge        int
	now           func() time.Time
}

func (j *withdrawalReminderJob) Name() string { return "withdrawal-reminder" }

func (j *withdrawalReminderJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.maxAge) * 24 * time.Hour)
	stale, err := j.withdrawals.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale withdrawals: %w", err)
	}
	if len(stale) == 0 {
		j.logg.Info(ctx, "no stale withdrawal requests")
		return nil
	}

	reviewers, err := j.users.ListByRole(ctx, enums.RoleMasterAdmin)
	if err != nil {
		return fmt.Errorf("list master admins: %w", err)
	}

	message := fmt.Sprintf("%d withdrawal request(s) have been pending for more than %d days.", len(stale), j.maxAge)
	notified := 0
	for _, reviewer := range reviewers {
		err := j.notifications.Create(ctx, &models.Notification{
			UserID:  reviewer.ID,
			Type:    enums.NotificationTypeWithdrawalUpdate,
			Message: message,
		})
		if err != nil {
			j.logg.Error(ctx, "failed to create reminder notification", err)
			continue
		}
		notified++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"stale_requests": len(stale),
		"notified":       notified,
	})
	j.logg.Info(logCtx, "withdrawal reminder complete")
	return nil
}
