package lock

import (
	"context"
	"time"
)

// NoOpLocker satisfies Locker without ever blocking anything. Every
// acquire succeeds and nothing is tracked, which suits code paths
// where contention is impossible, such as single-goroutine tests.
type NoOpLocker struct{}

// NewNoOpLocker creates a locker that grants every request.
func NewNoOpLocker() *NoOpLocker {
	return &NoOpLocker{}
}

// Acquire reports the lock as acquired.
func (n *NoOpLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, ctx.Err()
}

// AcquireWithRetry reports the lock as acquired on the first attempt.
func (n *NoOpLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return true, ctx.Err()
}

// Release reports the lock as released.
func (n *NoOpLocker) Release(ctx context.Context, key string) (bool, error) {
	return true, ctx.Err()
}

// Extend reports the lock as extended.
func (n *NoOpLocker) Extend(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, ctx.Err()
}

// IsHeld reports no lock as held; nothing is ever recorded.
func (n *NoOpLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	return false, ctx.Err()
}

var _ Locker = (*NoOpLocker)(nil)
