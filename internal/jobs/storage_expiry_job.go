package jobs

import (
	"context"
	"time"

	"parcelflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultStorageExpirySpec = "0 */5 * * * *"

type storageExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireStorageCommand) (int, error)
}

// StorageExpiryJob periodically closes storage assignments whose stored-until
// time has passed.
type StorageExpiryJob struct {
	handler   storageExpirer
	spec      string
	batchSize int
	now       func() time.Time
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewStorageExpiryJob(handler storageExpirer, spec string, batchSize int, logger *zap.Logger) *StorageExpiryJob {
	if spec == "" {
		spec = DefaultStorageExpirySpec
	}
	logger = logger.With(zap.String("component", "storage_expiry_job"))

	return &StorageExpiryJob{
		handler:   handler,
		spec:      spec,
		batchSize: batchSize,
		now:       func() time.Time { return time.Now().UTC() },
		cron:      newCron(logger),
		logger:    logger,
	}
}

// Start schedules the sweep. ctx bounds every run.
func (j *StorageExpiryJob) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(ctx) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Storage expiry job started", zap.String("spec", j.spec))
	return nil
}

// Run performs one sweep and returns the number of assignments released.
func (j *StorageExpiryJob) Run(ctx context.Context) int {
	cmd, err := commands.NewExpireStorageCommand(j.now(), j.batchSize)
	if err != nil {
		j.logger.Error("Storage expiry job misconfigured", zap.Error(err))
		return 0
	}

	released, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("Storage expiry job failed", zap.Error(err))
		return 0
	}
	if released > 0 {
		j.logger.Info("Expired storage assignments released", zap.Int("count", released))
	}
	return released
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *StorageExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Storage expiry job stopped")
}

// newCron runs specs with a seconds field and never overlaps two runs of
// the same job.
func newCron(logger *zap.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}
