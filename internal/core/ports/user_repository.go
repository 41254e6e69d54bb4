package ports

import (
	"context"
	"time"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// UserRepository defines persistence for identity records. Lookup methods are
// constrained to active, non-deleted accounts; throttle mutations are applied
// server-side by the store so concurrent logins never lose an update.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	FindActiveByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindActiveByResetCode(ctx context.Context, code string) (*domain.User, error)

	// IncrementLoginRetry atomically adds 1 to the retry counter and returns
	// the new value.
	IncrementLoginRetry(ctx context.Context, id string) (int, error)
	// ArmLoginLockout sets the reactive time and bumps the retry counter in a
	// single conditional update.
	ArmLoginLockout(ctx context.Context, id string, reactiveTime time.Time) error
	// ClearLoginLockout resets the retry counter to zero and unsets the
	// reactive time.
	ClearLoginLockout(ctx context.Context, id string) error

	SetResetPasswordLink(ctx context.Context, id string, link domain.ResetPasswordLink) error
	ClearResetPasswordLink(ctx context.Context, id string) error
	// ResetPassword replaces the password hash, clears the reset link, and
	// zeroes the retry counter in one write.
	ResetPassword(ctx context.Context, id string, passwordHash string) error

	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
}

// ProfilePatch carries the mutable profile fields. Nil fields are untouched.
type ProfilePatch struct {
	Name  *string
	Email *string
	Phone *string
}
