package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

const otpLength = 6

// ResetRequestLimiter enforces a cooldown between OTP requests for the same
// address (Redis-backed in production).
type ResetRequestLimiter interface {
	InCooldown(ctx context.Context, email string) (bool, error)
	MarkRequested(ctx context.Context, email string) error
}

// PasswordResetService implements the reset-password-via-OTP flow: generate a
// one-time code bound to a user with an expiry, validate it, and replace the
// password.
type PasswordResetService struct {
	users   ports.UserRepository
	mailer  ports.Mailer
	limiter ResetRequestLimiter
	otpTTL  time.Duration
	log     zerolog.Logger
}

func NewPasswordResetService(users ports.UserRepository, mailer ports.Mailer, limiter ResetRequestLimiter, otpTTL time.Duration, log zerolog.Logger) *PasswordResetService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &PasswordResetService{users: users, mailer: mailer, limiter: limiter, otpTTL: otpTTL, log: log}
}

// RequestReset generates an OTP for the account behind email and dispatches
// it through the notifier. The code is persisted before dispatch and stays
// valid even when delivery fails; the result only reports delivery.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if s.limiter != nil {
		cooling, err := s.limiter.InCooldown(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("otp cooldown check failed, proceeding")
		} else if cooling {
			return nil, domain.ErrResetCooldown
		}
	}

	code, err := generateOTP(otpLength)
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	link := domain.ResetPasswordLink{
		Code:       code,
		ExpireTime: time.Now().UTC().Add(s.otpTTL),
	}
	if err := s.users.SetResetPasswordLink(ctx, user.ID, link); err != nil {
		return nil, fmt.Errorf("%w: persist reset link: %v", domain.ErrStoreUnavailable, err)
	}

	result := &ports.ResetRequestResult{}
	if user.Email != "" {
		mail := ports.Mail{
			To:      user.Email,
			Subject: "Reset Password OTP",
			Body:    fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes())),
		}
		if err := s.mailer.SendMail(ctx, mail); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("otp mail dispatch failed")
		} else {
			result.EmailSent = true
		}
	}

	if s.limiter != nil {
		if err := s.limiter.MarkRequested(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to mark otp cooldown")
		}
	}

	s.log.Info().Str("user_id", user.ID).Bool("email_sent", result.EmailSent).Msg("reset otp issued")
	return result, nil
}

// ValidateOTP checks the code and consumes it: a second validation of the
// same code fails with ErrInvalidOTP.
func (s *PasswordResetService) ValidateOTP(ctx context.Context, code string) error {
	user, err := s.users.FindActiveByResetCode(ctx, code)
	if err != nil {
		return domain.ErrInvalidOTP
	}
	if user.ResetPasswordLink.ExpireTime.IsZero() {
		return domain.ErrInvalidOTP
	}
	if time.Now().UTC().After(user.ResetPasswordLink.ExpireTime) {
		return domain.ErrOTPExpired
	}
	if err := s.users.ClearResetPasswordLink(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: consume otp: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// ResetPassword locates the account by its unconsumed code, re-checks expiry,
// and replaces the password hash. The reset link is cleared and the login
// retry counter zeroed in the same write.
func (s *PasswordResetService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.users.FindActiveByResetCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetCode
		}
		return err
	}
	if user.ResetPasswordLink.ExpireTime.IsZero() {
		return domain.ErrInvalidResetCode
	}
	if time.Now().UTC().After(user.ResetPasswordLink.ExpireTime) {
		return domain.ErrResetCodeExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("%w: reset password: %v", domain.ErrStoreUnavailable, err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// generateOTP returns a numeric one-time code of n digits.
func generateOTP(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
