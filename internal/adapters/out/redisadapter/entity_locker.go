// Package redisadapter holds the Redis-backed adapters: per-entity locks
// shared by every engine instance and the notification publisher.
package redisadapter

import (
	"context"
	"errors"
	"sort"
	"time"

	"parcelflow/internal/pkg/errs"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

const (
	DefaultLockTTL    = 15 * time.Second
	defaultLockPrefix = "parcelflow:lock:"
	defaultRetryDelay = 50 * time.Millisecond
	defaultRetryCount = 20
	releaseTimeout    = 2 * time.Second
)

// EntityLocker implements ports.EntityLocker with one redislock lock per key.
//
// Keys are deduplicated and obtained in sorted order, so two commands that
// share entities always contend on the same first key and never deadlock.
// Obtaining is retried with a linear backoff and then gives up with
// *errs.ConcurrentModificationError.
//
// Example:
//
//	locker := NewEntityLocker(redislock.New(client), logger)
//	release, err := locker.Acquire(ctx, ports.ParcelLockKey(parcelID), ports.WarehouseLockKey(warehouseID))
//	if err != nil {
//	    return err
//	}
//	defer release()
type EntityLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	prefix string
	logger *zap.Logger
}

type LockerOption func(*EntityLocker)

func WithLockTTL(ttl time.Duration) LockerOption {
	return func(l *EntityLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithRetry sets how often obtaining one key is retried before giving up.
func WithRetry(delay time.Duration, attempts int) LockerOption {
	return func(l *EntityLocker) {
		l.retry = redislock.LimitRetry(redislock.LinearBackoff(delay), attempts)
	}
}

func NewEntityLocker(client *redislock.Client, logger *zap.Logger, opts ...LockerOption) *EntityLocker {
	l := &EntityLocker{
		client: client,
		ttl:    DefaultLockTTL,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(defaultRetryDelay), defaultRetryCount),
		prefix: defaultLockPrefix,
		logger: logger.With(zap.String("component", "entity_locker")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire obtains every key or none. The returned release func is safe to
// call more than once.
func (l *EntityLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = sortedUnique(keys)
	if len(keys) == 0 {
		return func() {}, nil
	}

	held := make([]*redislock.Lock, 0, len(keys))
	for _, key := range keys {
		lock, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
		if err != nil {
			l.release(ctx, held)
			if errors.Is(err, redislock.ErrNotObtained) {
				return nil, errs.NewConcurrentModificationErrorWithCause("lock", key, err)
			}
			return nil, err
		}
		held = append(held, lock)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.release(ctx, held)
	}, nil
}

// release frees locks in reverse order. It runs after the command finished,
// possibly with a cancelled ctx, so it detaches from cancellation.
func (l *EntityLocker) release(ctx context.Context, held []*redislock.Lock) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	for i := len(held) - 1; i >= 0; i-- {
		err := held[i].Release(ctx)
		if err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("lock release failed", zap.String("key", held[i].Key()), zap.Error(err))
		}
	}
}

func sortedUnique(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)
	return unique
}
