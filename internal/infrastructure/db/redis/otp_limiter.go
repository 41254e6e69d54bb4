package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPLimiter enforces a cooldown between password-reset OTP requests for the
// same address, backed by Redis TTL keys.
// Key format: otp_cooldown:<email>
type OTPLimiter struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewOTPLimiter creates an OTPLimiter wrapping the given Redis client.
func NewOTPLimiter(client *redis.Client, cooldown time.Duration) *OTPLimiter {
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &OTPLimiter{client: client, cooldown: cooldown}
}

// InCooldown reports whether an OTP was recently requested for email.
func (l *OTPLimiter) InCooldown(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("otp cooldown check: %w", err)
	}
	return n > 0, nil
}

// MarkRequested records an OTP request (expires after the cooldown).
func (l *OTPLimiter) MarkRequested(ctx context.Context, email string) error {
	return l.client.Set(ctx, l.key(email), "1", l.cooldown).Err()
}

func (l *OTPLimiter) key(email string) string {
	return "otp_cooldown:" + email
}
