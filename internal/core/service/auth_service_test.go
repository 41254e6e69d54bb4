package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

func newAuthStack(t *testing.T) (*fakeUserRepo, *fakeTokenRepo, *AuthService, *TokenIssuer) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	secrets := map[domain.Platform]string{
		domain.PlatformUserApp: "userapp-secret",
		domain.PlatformAdmin:   "admin-secret",
	}
	throttle := NewLoginThrottle(users, 5, 2*time.Minute)
	issuer := NewTokenIssuer(tokens, users, secrets, time.Hour)
	svc := NewAuthService(users, tokens, throttle, issuer, zerolog.Nop())
	return users, tokens, svc, issuer
}

func seedUser(t *testing.T, users *fakeUserRepo, email, phone, password string, userType domain.UserType) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return users.add(&domain.User{
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		UserType:     userType,
		IsActive:     true,
	})
}

func TestLogin_SuccessByEmail(t *testing.T) {
	users, _, svc, issuer := newAuthStack(t)
	seeded := seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	result, err := svc.Login(context.Background(), "Alice@Example.com", "s3cret", domain.PlatformUserApp)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a session token")
	}
	if result.User.ID != seeded.ID {
		t.Fatalf("unexpected user in result: %s", result.User.ID)
	}

	resolved, err := issuer.Validate(context.Background(), result.Token, domain.PlatformUserApp)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if resolved.ID != seeded.ID {
		t.Fatalf("token resolved to wrong user: %s", resolved.ID)
	}
}

func TestLogin_SuccessByPhone(t *testing.T) {
	users, _, svc, _ := newAuthStack(t)
	seeded := seedUser(t, users, "", "5215512345678", "s3cret", domain.UserTypeUser)

	result, err := svc.Login(context.Background(), "5215512345678", "s3cret", domain.PlatformUserApp)
	if err != nil {
		t.Fatalf("login by phone: %v", err)
	}
	if result.User.ID != seeded.ID {
		t.Fatalf("unexpected user: %s", result.User.ID)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	_, _, svc, _ := newAuthStack(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "pw", domain.PlatformUserApp)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLogin_WrongPasswordIncrementsRetry(t *testing.T) {
	users, _, svc, _ := newAuthStack(t)
	seeded := seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong", domain.PlatformUserApp)
	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if got := users.get(seeded.ID).LoginRetryLimit; got != 1 {
		t.Fatalf("expected retry counter 1, got %d", got)
	}
}

func TestLogin_FiveFailuresLockTheAccount(t *testing.T) {
	users, _, svc, _ := newAuthStack(t)
	seeded := seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(context.Background(), "alice@example.com", "wrong", domain.PlatformUserApp); !errors.Is(err, domain.ErrIncorrectPassword) {
			t.Fatalf("attempt %d: expected ErrIncorrectPassword, got %v", i, err)
		}
	}

	// Sixth attempt is blocked before the password check, even with the
	// correct password.
	_, err := svc.Login(context.Background(), "alice@example.com", "s3cret", domain.PlatformUserApp)
	var locked *domain.LockedOutError
	if !errors.As(err, &locked) {
		t.Fatalf("expected LockedOutError, got %v", err)
	}
	if users.get(seeded.ID).LoginReactiveTime == nil {
		t.Fatalf("lockout not persisted")
	}
}

func TestLogin_PlatformForbiddenLeavesCounterAlone(t *testing.T) {
	users, _, svc, _ := newAuthStack(t)
	seeded := seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	_, err := svc.Login(context.Background(), "alice@example.com", "s3cret", domain.PlatformAdmin)
	if !errors.Is(err, domain.ErrPlatformForbidden) {
		t.Fatalf("expected ErrPlatformForbidden, got %v", err)
	}
	if got := users.get(seeded.ID).LoginRetryLimit; got != 0 {
		t.Fatalf("platform denial must not touch the retry counter, got %d", got)
	}
}

func TestValidate_CrossPlatformTokenRejected(t *testing.T) {
	users, _, svc, issuer := newAuthStack(t)
	seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret", domain.PlatformUserApp)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := issuer.Validate(context.Background(), result.Token, domain.PlatformAdmin); err == nil {
		t.Fatalf("token signed for userapp must not verify on admin")
	}
}

func TestLogout_InvalidatesToken(t *testing.T) {
	users, _, svc, issuer := newAuthStack(t)
	seeded := seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret", domain.PlatformUserApp)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), seeded.ID, result.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := issuer.Validate(context.Background(), result.Token, domain.PlatformUserApp); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after logout, got %v", err)
	}
}

func TestLogout_WrongOwnerForbidden(t *testing.T) {
	users, _, svc, _ := newAuthStack(t)
	seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret", domain.PlatformUserApp)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), "someone-else", result.Token); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users, _, svc, _ := newAuthStack(t)
	seedUser(t, users, "alice@example.com", "", "s3cret", domain.UserTypeUser)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "Alice@Example.com",
		Password: "another",
		UserType: domain.UserTypeUser,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_RequiresIdentifier(t *testing.T) {
	_, _, svc, _ := newAuthStack(t)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Password: "pw",
		UserType: domain.UserTypeUser,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIssue_NoRoleAssigned(t *testing.T) {
	users := newFakeUserRepo()
	issuer := NewTokenIssuer(newFakeTokenRepo(), users, map[domain.Platform]string{
		domain.PlatformUserApp: "s",
	}, time.Hour)

	user := users.add(&domain.User{Email: "x@example.com", IsActive: true})
	if _, err := issuer.Issue(context.Background(), user, domain.PlatformUserApp); !errors.Is(err, domain.ErrRoleNotAssigned) {
		t.Fatalf("expected ErrRoleNotAssigned, got %v", err)
	}
}
