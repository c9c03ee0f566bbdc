package commands

import (
	"context"

	"parcelflow/internal/core/ports"
)

// heldLocks collects the entity locks a handler takes so they can be freed as
// soon as the transaction commits. Notifications go out only after free.
type heldLocks struct {
	locker   ports.EntityLocker
	releases []func()
}

func newHeldLocks(locker ports.EntityLocker) *heldLocks {
	return &heldLocks{locker: locker}
}

func (l *heldLocks) acquire(ctx context.Context, keys ...string) error {
	release, err := l.locker.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	l.releases = append(l.releases, release)
	return nil
}

// free releases everything in reverse order. Calling it again is a no-op.
func (l *heldLocks) free() {
	for i := len(l.releases) - 1; i >= 0; i-- {
		l.releases[i]()
	}
	l.releases = nil
}
