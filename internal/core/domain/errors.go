package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not exists")
	ErrUserExists        = errors.New("user already exists")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrRoleNotAssigned   = errors.New("you have not been assigned any role")
	ErrPlatformForbidden = errors.New("you are unable to access this platform")
	ErrInvalidOTP        = errors.New("invalid otp")
	ErrOTPExpired        = errors.New("otp has expired")
	ErrInvalidResetCode  = errors.New("invalid reset code")
	ErrResetCooldown     = errors.New("a reset code was requested recently, try again later")
	ErrResetCodeExpired  = errors.New("reset code has expired")
	ErrTokenExpired      = errors.New("session token expired")
	ErrInvalidInput      = errors.New("invalid input")

	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrOrderNotFound   = errors.New("order not found")
	ErrForbidden       = errors.New("access forbidden")

	// ErrStoreUnavailable wraps persistence failures. It is the only auth
	// failure surfaced as an internal error rather than a validation one.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// LockedOutError is returned while the login throttle blocks an account.
// WaitFor is the remaining time until the reactive window elapses.
type LockedOutError struct {
	WaitFor time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("you have exceeded the number of login attempts, you can login after %s", formatWait(e.WaitFor))
}

// formatWait renders a duration as "XmYs", the grain users see in the
// lockout message.
func formatWait(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%dm%ds", m, s)
}
