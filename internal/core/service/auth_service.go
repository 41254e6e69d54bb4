package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// AuthService orchestrates registration, login, and logout. Login composes
// the throttle policy, the credential check, and the token issuer.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenRepository
	throttle *LoginThrottle
	issuer   *TokenIssuer
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, throttle *LoginThrottle, issuer *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, throttle: throttle, issuer: issuer, log: log}
}

// Register creates an account. The caller fixes the user type per platform
// entry point; clients never choose their own role.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" && in.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UserType != domain.UserTypeUser && in.UserType != domain.UserTypeAdmin {
		return nil, domain.ErrInvalidInput
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	if email != "" {
		if _, err := s.users.FindActiveByEmail(ctx, email); err == nil {
			return nil, domain.ErrUserExists
		}
	}
	if in.Phone != "" {
		if _, err := s.users.FindActiveByPhone(ctx, in.Phone); err == nil {
			return nil, domain.ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Phone:        in.Phone,
		Name:         in.Name,
		PasswordHash: string(hash),
		UserType:     in.UserType,
		IsActive:     true,
		IsDeleted:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Int("user_type", int(created.UserType)).Msg("user registered")
	return created, nil
}

// Login authenticates identifier/password for the given platform. A fully
// numeric identifier is looked up as a phone number, anything else as a
// lower-cased email. Failures are domain errors; the result carries the
// public user view plus the session token.
func (s *AuthService) Login(ctx context.Context, identifier, password string, platform domain.Platform) (*ports.LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	var (
		user *domain.User
		err  error
	)
	if isNumeric(identifier) {
		user, err = s.users.FindActiveByPhone(ctx, identifier)
	} else {
		user, err = s.users.FindActiveByEmail(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.throttle.Check(ctx, user); err != nil {
		var locked *domain.LockedOutError
		if errors.As(err, &locked) {
			s.log.Warn().Str("user_id", user.ID).Dur("wait", locked.WaitFor).Msg("login blocked by throttle")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if err := s.throttle.RecordFailure(ctx, user.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrIncorrectPassword
	}

	token, err := s.issuer.Issue(ctx, user, platform)
	if err != nil {
		// Role and platform failures do not touch the retry counter.
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("platform", platform.String()).Msg("login successful")
	return &ports.LoginResult{User: user.Public(), Token: token}, nil
}

// Logout marks the session token record expired. The record is kept for the
// audit trail.
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return domain.ErrTokenExpired
	}
	if record.UserID != userID {
		return domain.ErrForbidden
	}
	if err := s.tokens.MarkExpired(ctx, record.ID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("logged out")
	return nil
}

// isNumeric reports whether s consists solely of digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
