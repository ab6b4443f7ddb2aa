package shared

import (
	"context"
	"time"
)

// Locker obtains short-lived exclusive locks shared across processes
type Locker interface {
	// Obtain blocks until the lock for key is held, ctx is done, or the
	// implementation gives up. The lock expires after ttl if never released.
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// Lock is a held lock
type Lock interface {
	Release(ctx context.Context) error
}

// ErrLockNotObtained is returned when a lock stays contended until the retry budget runs out
var ErrLockNotObtained = NewDomainError(CodeConflict, "resource is busy, try again")

// WithLock runs fn while holding the lock for key
func WithLock(ctx context.Context, locker Locker, key string, ttl time.Duration, fn func() error) error {
	if locker == nil {
		return fn()
	}
	lock, err := locker.Obtain(ctx, key, ttl)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()
	return fn()
}
