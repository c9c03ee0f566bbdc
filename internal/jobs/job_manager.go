package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Schedule holds the cron specs and tuning of the background jobs.
// An empty StorageExpirySpec falls back to the default; an empty
// OverdueLegSpec leaves overdue legs to external callers.
type Schedule struct {
	StorageExpirySpec string
	ExpireBatchSize   int
	OverdueLegSpec    string
	OverdueLegGrace   time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	storageExpiryJob *StorageExpiryJob
	overdueLegJob    *OverdueLegJob
}

func NewJobManager(
	schedule Schedule,
	expireStorageHandler storageExpirer,
	listOverdueLegsHandler overdueLegLister,
	cancelLegHandler legCanceller,
	logger *zap.Logger,
) *JobManager {
	jm := &JobManager{
		storageExpiryJob: NewStorageExpiryJob(
			expireStorageHandler, schedule.StorageExpirySpec, schedule.ExpireBatchSize, logger,
		),
	}
	if schedule.OverdueLegSpec != "" {
		jm.overdueLegJob = NewOverdueLegJob(
			listOverdueLegsHandler, cancelLegHandler, schedule.OverdueLegSpec, schedule.OverdueLegGrace, logger,
		)
	}
	return jm
}

// OverdueLegsEnabled reports whether scheduled legs are cancelled automatically.
func (jm *JobManager) OverdueLegsEnabled() bool {
	return jm.overdueLegJob != nil
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.storageExpiryJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to start storage expiry job: %w", err)
	}

	if jm.overdueLegJob == nil {
		return nil
	}
	if err := jm.overdueLegJob.Start(ctx); err != nil {
		// Stop already started jobs if this one fails
		jm.storageExpiryJob.Stop()
		return fmt.Errorf("failed to start overdue leg job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to return.
func (jm *JobManager) StopAll() {
	if jm.overdueLegJob != nil {
		jm.overdueLegJob.Stop()
	}
	jm.storageExpiryJob.Stop()
}
