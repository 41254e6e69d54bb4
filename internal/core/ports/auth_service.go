package ports

import (
	"context"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account. Platform entry
// points fix the user type; clients never choose their own role.
type RegisterInput struct {
	Email    string
	Phone    string
	Name     string
	Password string
	UserType domain.UserType
}

// LoginResult is the success payload of a login: the public user view plus the
// freshly signed session token. Failures are reported as errors, never as a
// flag on the result.
type LoginResult struct {
	User  domain.PublicView
	Token string
}

// AuthService implements credential verification, login throttling, and
// session issuance.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login treats a fully numeric identifier as a phone number, anything
	// else as an email address.
	Login(ctx context.Context, identifier, password string, platform domain.Platform) (*LoginResult, error)
	Logout(ctx context.Context, userID, token string) error
}

// TokenValidator resolves a bearer token back to its user. Tokens issued for
// one platform never verify under another platform's secret.
type TokenValidator interface {
	Validate(ctx context.Context, token string, platform domain.Platform) (*domain.User, error)
}

// ResetRequestResult reports the outcome of an OTP request. The code stays
// valid even when the notification could not be delivered.
type ResetRequestResult struct {
	EmailSent bool
}

// PasswordResetService implements the reset-password-via-OTP flow.
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) (*ResetRequestResult, error)
	// ValidateOTP consumes the code on success: a second validation of the
	// same code fails with ErrInvalidOTP.
	ValidateOTP(ctx context.Context, code string) error
	// ResetPassword locates the user by code independently of ValidateOTP
	// and re-checks expiry before replacing the password hash.
	ResetPassword(ctx context.Context, code, newPassword string) error
}
