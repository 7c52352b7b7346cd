// Package locker provides distributed locking so that background passes do
// not run concurrently across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker is the no-self-overlap guard for scheduled passes.
// Implementations must be safe for concurrent use.
//
// The ttl doubles as a cooldown: a lock held until expiry keeps other
// instances from re-running the pass early, while a released lock opens the
// task for an immediate retry.
type DistributedLocker interface {
	// Acquire attempts to take the lock without blocking. Returns true if it
	// was taken, false if another instance holds it. The lock expires on its
	// own after ttl, so a crashed holder cannot deadlock the task.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock identified by key. Calling it for a lock this
	// instance does not own is a no-op, not an error.
	Release(ctx context.Context, key string) error
}
