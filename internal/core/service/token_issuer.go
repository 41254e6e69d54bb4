package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// TokenIssuer mints and verifies platform-scoped session tokens. Each
// platform signs with its own secret, so a token issued for one platform
// never verifies under another.
type TokenIssuer struct {
	tokens  ports.TokenRepository
	users   ports.UserRepository
	secrets map[domain.Platform]string
	ttl     time.Duration
}

// NewTokenIssuer builds an issuer. secrets must hold one entry per platform.
func NewTokenIssuer(tokens ports.TokenRepository, users ports.UserRepository, secrets map[domain.Platform]string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{tokens: tokens, users: users, secrets: secrets, ttl: ttl}
}

// Issue signs a token for user on the given platform and records the session.
func (i *TokenIssuer) Issue(ctx context.Context, user *domain.User, platform domain.Platform) (string, error) {
	if user.UserType == 0 {
		return "", domain.ErrRoleNotAssigned
	}
	if !user.UserType.CanAccess(platform) {
		return "", domain.ErrPlatformForbidden
	}
	secret, ok := i.secrets[platform]
	if !ok {
		return "", domain.ErrPlatformForbidden
	}

	now := time.Now().UTC()
	expire := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"id":  user.ID,
		"iat": now.Unix(),
		"exp": expire.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	record := &domain.SessionToken{
		UserID:           user.ID,
		Token:            signed,
		Platform:         platform,
		IssuedAt:         now,
		TokenExpiredTime: expire,
	}
	if _, err := i.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("%w: persist token: %v", domain.ErrStoreUnavailable, err)
	}

	return signed, nil
}

// Validate verifies token against the platform's secret, checks the session
// record is still usable, and resolves the owning user.
func (i *TokenIssuer) Validate(ctx context.Context, token string, platform domain.Platform) (*domain.User, error) {
	secret, ok := i.secrets[platform]
	if !ok {
		return nil, domain.ErrPlatformForbidden
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenExpired
	}

	record, err := i.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrTokenExpired
	}
	if !record.IsUsable(time.Now().UTC()) {
		return nil, domain.ErrTokenExpired
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return nil, domain.ErrTokenExpired
	}

	user, err := i.users.FindActiveByID(ctx, id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
