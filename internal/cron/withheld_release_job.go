package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IgureAndrew/vistapro-backend/internal/wallet"
	"github.com/IgureAndrew/vistapro-backend/pkg/logger"
)

type withheldReleaser interface {
	ReleaseAllWithheld(ctx context.Context, decidedBy uuid.UUID) (*wallet.BatchReleaseResult, error)
}

type WithheldReleaseJobParams struct {
	Logger *logger.Logger
	Wallet withheldReleaser
	// Actor is recorded as decided_by on every released transaction.
	Actor uuid.UUID
}

// NewWithheldReleaseJob builds the monthly bulk release. The job runs every
// cycle but only acts on the first day of the month.
func NewWithheldReleaseJob(params WithheldReleaseJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Wallet == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	return &withheldReleaseJob{
		logg:   params.Logger,
		wallet: params.Wallet,
		actor:  params.Actor,
		now:    time.Now,
	}, nil
}

type withheldReleaseJob struct {
	logg   *logger.Logger
	wallet withheldReleaser
	actor  uuid.UUID
	now    func() time.Time
}

func (j *withheldReleaseJob) Name() string { return "withheld-release" }

func (j *withheldReleaseJob) Run(ctx context.Context) error {
	if j.now().UTC().Day() != 1 {
		j.logg.Info(ctx, "not the first of the month; skipping withheld release")
		return nil
	}

	result, err := j.wallet.ReleaseAllWithheld(ctx, j.actor)
	if err != nil {
		return fmt.Errorf("withheld release: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"wallets_released": result.Released,
		"wallets_failed":   result.Failed,
		"total_kobo":       result.TotalKobo,
	})
	j.logg.Info(logCtx, "monthly withheld release complete")
	if result.Failed > 0 {
		return fmt.Errorf("withheld release: %d wallets failed", result.Failed)
	}
	return nil
}
