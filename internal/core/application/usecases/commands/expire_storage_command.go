package commands

import (
	"errors"
	"time"

	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

const DefaultExpireBatchSize = 500

var ErrExpireStorageCommandIsNotConstructed = errors.New(
	"ExpireStorageCommand must be created via NewExpireStorageCommand constructor",
)

// ExpireStorageCommand closes assignments whose stored-until time has passed.
// Lapsed assignments already stop counting against capacity; closing them
// records the release time for reporting.
type ExpireStorageCommand struct { //nolint:recvcheck //using for validation
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireStorageCommand(now time.Time, batchSize int) (ExpireStorageCommand, error) {
	if now.IsZero() {
		return ExpireStorageCommand{}, errs.NewValueIsRequiredError("now")
	}
	if batchSize <= 0 {
		batchSize = DefaultExpireBatchSize
	}

	return ExpireStorageCommand{
		now:       now,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireStorageCommand) Validate() error {
	return c.guard.Validate(ErrExpireStorageCommandIsNotConstructed)
}

func (c ExpireStorageCommand) Now() time.Time { return c.now }
func (c ExpireStorageCommand) BatchSize() int { return c.batchSize }
