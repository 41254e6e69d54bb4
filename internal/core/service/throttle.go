package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// LoginThrottle guards login attempts with a retry counter and a time-boxed
// lockout. Once the counter reaches maxRetries the account is blocked for the
// reactive window; attempts inside the window keep incrementing the counter
// but never extend the window.
type LoginThrottle struct {
	users      ports.UserRepository
	maxRetries int
	window     time.Duration
}

// NewLoginThrottle builds a throttle over the given user store.
func NewLoginThrottle(users ports.UserRepository, maxRetries int, window time.Duration) *LoginThrottle {
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if window <= 0 {
		window = 2 * time.Minute
	}
	return &LoginThrottle{users: users, maxRetries: maxRetries, window: window}
}

// Check decides whether user may proceed to the password check. Every
// blocking decision is persisted before it is returned. When an elapsed
// lockout is cleared, the counters on user are updated in place so the caller
// sees the post-reset state.
func (t *LoginThrottle) Check(ctx context.Context, user *domain.User) error {
	if user.LoginRetryLimit < t.maxRetries {
		return nil
	}

	now := time.Now().UTC()

	if user.LoginReactiveTime == nil {
		// First attempt past the limit arms the lockout.
		reactive := now.Add(t.window)
		if err := t.users.ArmLoginLockout(ctx, user.ID, reactive); err != nil {
			return fmt.Errorf("%w: arm lockout: %v", domain.ErrStoreUnavailable, err)
		}
		return &domain.LockedOutError{WaitFor: t.window}
	}

	if user.LoginReactiveTime.After(now) {
		// Still inside the window. The counter keeps climbing, but the wait
		// is always measured against the existing reactive time.
		if _, err := t.users.IncrementLoginRetry(ctx, user.ID); err != nil {
			return fmt.Errorf("%w: increment retry: %v", domain.ErrStoreUnavailable, err)
		}
		return &domain.LockedOutError{WaitFor: user.LoginReactiveTime.Sub(now)}
	}

	// Window elapsed: reset and let the attempt through.
	if err := t.users.ClearLoginLockout(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: clear lockout: %v", domain.ErrStoreUnavailable, err)
	}
	user.LoginRetryLimit = 0
	user.LoginReactiveTime = nil
	return nil
}

// RecordFailure bumps the retry counter after a wrong password. The increment
// is applied server-side by the store.
func (t *LoginThrottle) RecordFailure(ctx context.Context, userID string) error {
	if _, err := t.users.IncrementLoginRetry(ctx, userID); err != nil {
		return fmt.Errorf("%w: increment retry: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
