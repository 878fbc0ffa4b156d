package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
)

const AbandonCartsJobName = "abandon-idle-carts"

type idleCartAbandoner interface {
	AbandonIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

// AbandonCartsJobParams configure the idle cart sweep.
type AbandonCartsJobParams struct {
	Logger    *logger.Logger
	Carts     idleCartAbandoner
	Metrics   *metrics.CronJobMetrics
	IdleAfter time.Duration
}

// NewAbandonCartsJob builds the job that moves active carts untouched for
// IdleAfter to abandoned. The owner gets a fresh cart on their next request.
func NewAbandonCartsJob(params AbandonCartsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.IdleAfter <= 0 {
		return nil, fmt.Errorf("idle threshold must be positive")
	}
	return &abandonCartsJob{
		logg:      params.Logger,
		carts:     params.Carts,
		metrics:   params.Metrics,
		idleAfter: params.IdleAfter,
		now:       time.Now,
	}, nil
}

type abandonCartsJob struct {
	logg      *logger.Logger
	carts     idleCartAbandoner
	metrics   *metrics.CronJobMetrics
	idleAfter time.Duration
	now       func() time.Time
}

func (j *abandonCartsJob) Name() string { return AbandonCartsJobName }

func (j *abandonCartsJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.idleAfter)
	n, err := j.carts.AbandonIdle(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("abandon idle carts: %w", err)
	}
	j.metrics.AddAffected(AbandonCartsJobName, n)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":    cutoff,
		"abandoned": n,
	}), "cart.abandoned.sweep")
	return nil
}
