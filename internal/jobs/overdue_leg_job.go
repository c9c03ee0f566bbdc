package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/leg"
	"parcelflow/internal/pkg/errs"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultOverdueLegGrace = 2 * time.Hour

type overdueLegLister interface {
	Handle(ctx context.Context, query queries.ListOverdueLegsQuery) ([]queries.OverdueLegView, error)
}

type legCanceller interface {
	Handle(ctx context.Context, cmd commands.CancelLegCommand) error
}

// OverdueLegJob cancels scheduled legs that were not started within the grace
// period after their scheduled time. Their parcels stay in storage. The engine
// never expires legs by itself; the job runs only when a schedule is given.
type OverdueLegJob struct {
	lister    overdueLegLister
	canceller legCanceller
	spec      string
	grace     time.Duration
	now       func() time.Time
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewOverdueLegJob(
	lister overdueLegLister,
	canceller legCanceller,
	spec string,
	grace time.Duration,
	logger *zap.Logger,
) *OverdueLegJob {
	if grace <= 0 {
		grace = DefaultOverdueLegGrace
	}
	logger = logger.With(zap.String("component", "overdue_leg_job"))

	return &OverdueLegJob{
		lister:    lister,
		canceller: canceller,
		spec:      spec,
		grace:     grace,
		now:       func() time.Time { return time.Now().UTC() },
		cron:      newCron(logger),
		logger:    logger,
	}
}

func (j *OverdueLegJob) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(ctx) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Overdue leg job started", zap.String("spec", j.spec), zap.Duration("grace", j.grace))
	return nil
}

// Run cancels one page of overdue legs and returns how many were cancelled.
// A leg that fails is logged and skipped; the next run picks it up again.
func (j *OverdueLegJob) Run(ctx context.Context) int {
	now := j.now()

	query, err := queries.NewListOverdueLegsQuery(now.Add(-j.grace), queries.DefaultOverdueLegsLimit)
	if err != nil {
		j.logger.Error("Overdue leg job misconfigured", zap.Error(err))
		return 0
	}

	overdue, err := j.lister.Handle(ctx, query)
	if err != nil {
		j.logger.Error("Overdue leg lookup failed", zap.Error(err))
		return 0
	}

	cancelled := 0
	for _, l := range overdue {
		if ctx.Err() != nil {
			break
		}

		reason := fmt.Sprintf("not started within %s of %s", j.grace, l.ScheduledAt.Format(time.RFC3339))
		cmd, cmdErr := commands.NewCancelLegCommand(l.LegID, reason, nil, now)
		if cmdErr != nil {
			j.logger.Error("Overdue leg skipped", zap.Stringer("leg_id", l.LegID), zap.Error(cmdErr))
			continue
		}

		switch err = j.canceller.Handle(ctx, cmd); {
		case err == nil:
			cancelled++
			j.logger.Info("Overdue leg cancelled",
				zap.Stringer("leg_id", l.LegID),
				zap.Time("scheduled_at", l.ScheduledAt),
			)
		case errors.Is(err, leg.ErrInvalidTransition), errors.Is(err, errs.ErrConcurrentModification):
			// started or cancelled by someone else since the listing
			j.logger.Debug("Overdue leg changed concurrently", zap.Stringer("leg_id", l.LegID), zap.Error(err))
		default:
			j.logger.Error("Overdue leg cancellation failed", zap.Stringer("leg_id", l.LegID), zap.Error(err))
		}
	}

	return cancelled
}

func (j *OverdueLegJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Overdue leg job stopped")
}
