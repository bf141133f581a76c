package ports

import (
	"context"
	"time"
)

// LockoutState is the failed-login counter for one account.
type LockoutState struct {
	Failures    int
	LockedUntil time.Time
}

// LockoutStore tracks consecutive failed logins per account. Implementations
// should fail open: a cache outage must not lock everyone out of login.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	// RecordFailure bumps the counter and returns the updated state; the
	// caller decides whether the threshold was crossed.
	RecordFailure(ctx context.Context, key string, window, lockFor time.Duration, threshold int) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

// ThrottleStore rate-limits repeatable self-service actions such as
// verification-code resends.
type ThrottleStore interface {
	// Allow reports whether the action may run now and, if so, consumes one
	// slot for the window.
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}
