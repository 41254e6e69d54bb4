package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// fakeUserRepo is an in-memory UserRepository. It mirrors the store's
// server-side mutation semantics so the throttle tests exercise the same
// contract the Mongo implementation honours.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int

	incrementCalls int
	armCalls       int
	clearCalls     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) add(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	cp := *u
	r.users[u.ID] = &cp
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.add(user), nil
}

func (r *fakeUserRepo) findActive(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.IsActive && !u.IsDeleted && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindActiveByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findActive(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findActive(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindActiveByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findActive(func(u *domain.User) bool { return u.Phone == phone })
}

func (r *fakeUserRepo) FindActiveByResetCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findActive(func(u *domain.User) bool {
		return code != "" && u.ResetPasswordLink.Code == code
	})
}

func (r *fakeUserRepo) IncrementLoginRetry(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	r.incrementCalls++
	u.LoginRetryLimit++
	return u.LoginRetryLimit, nil
}

func (r *fakeUserRepo) ArmLoginLockout(ctx context.Context, id string, reactiveTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.armCalls++
	t := reactiveTime
	u.LoginReactiveTime = &t
	u.LoginRetryLimit++
	return nil
}

func (r *fakeUserRepo) ClearLoginLockout(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.clearCalls++
	u.LoginRetryLimit = 0
	u.LoginReactiveTime = nil
	return nil
}

func (r *fakeUserRepo) SetResetPasswordLink(ctx context.Context, id string, link domain.ResetPasswordLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordLink = link
	return nil
}

func (r *fakeUserRepo) ClearResetPasswordLink(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetPasswordLink = domain.ResetPasswordLink{}
	return nil
}

func (r *fakeUserRepo) ResetPassword(ctx context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordLink = domain.ResetPasswordLink{}
	u.LoginRetryLimit = 0
	u.LoginReactiveTime = nil
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SoftDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsDeleted = true
	u.IsActive = false
	return nil
}

// get returns the stored record, not a copy, for state assertions.
func (r *fakeUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

// fakeTokenRepo is an in-memory TokenRepository.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.SessionToken
	seq    int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*domain.SessionToken)}
}

func (r *fakeTokenRepo) Create(ctx context.Context, token *domain.SessionToken) (*domain.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = fmt.Sprintf("token-%d", r.seq)
	cp := *token
	r.tokens[token.ID] = &cp
	return token, nil
}

func (r *fakeTokenRepo) FindByToken(ctx context.Context, token string) (*domain.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTokenExpired
}

func (r *fakeTokenRepo) MarkExpired(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return domain.ErrTokenExpired
	}
	t.IsTokenExpired = true
	return nil
}

// stubMailer records dispatched mail and optionally fails.
type stubMailer struct {
	mu   sync.Mutex
	sent []ports.Mail
	err  error
}

func (m *stubMailer) SendMail(ctx context.Context, mail ports.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

// stubLimiter is an in-memory ResetRequestLimiter.
type stubLimiter struct {
	cooling map[string]bool
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{cooling: make(map[string]bool)}
}

func (l *stubLimiter) InCooldown(ctx context.Context, email string) (bool, error) {
	return l.cooling[email], nil
}

func (l *stubLimiter) MarkRequested(ctx context.Context, email string) error {
	l.cooling[email] = true
	return nil
}
