package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/api/middleware"
	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, identifier, password string, platform domain.Platform) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, userID, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string, platform domain.Platform) (*ports.LoginResult, error) {
	return s.loginFn(ctx, identifier, password, platform)
}

func (s *stubAuthService) Logout(ctx context.Context, userID, token string) error {
	return s.logoutFn(ctx, userID, token)
}

type stubResetService struct {
	requestFn  func(ctx context.Context, email string) (*ports.ResetRequestResult, error)
	validateFn func(ctx context.Context, code string) error
	resetFn    func(ctx context.Context, code, newPassword string) error
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	return s.requestFn(ctx, email)
}

func (s *stubResetService) ValidateOTP(ctx context.Context, code string) error {
	return s.validateFn(ctx, code)
}

func (s *stubResetService) ResetPassword(ctx context.Context, code, newPassword string) error {
	return s.resetFn(ctx, code, newPassword)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func doJSON(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestRegister_Success(t *testing.T) {
	e := newTestEcho()
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "alice@example.com" {
				t.Fatalf("unexpected email %q", in.Email)
			}
			if in.UserType != domain.UserTypeUser {
				t.Fatalf("userapp registration must fix the user type, got %v", in.UserType)
			}
			return &domain.User{ID: "user-1", Email: in.Email, UserType: in.UserType, CreatedAt: time.Now()}, nil
		},
	}
	h := NewAuthHandler(auth, nil, domain.PlatformUserApp)

	rec, c := doJSON(e, http.MethodPost, "/auth/register", `{"email":"alice@example.com","password":"s3cret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.ID != "user-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestRegister_AdminPlatformFixesType(t *testing.T) {
	e := newTestEcho()
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.UserType != domain.UserTypeAdmin {
				t.Fatalf("admin registration must fix the admin type, got %v", in.UserType)
			}
			return &domain.User{ID: "admin-1", UserType: in.UserType}, nil
		},
	}
	h := NewAuthHandler(auth, nil, domain.PlatformAdmin)

	_, c := doJSON(e, http.MethodPost, "/auth/register", `{"email":"ops@example.com","password":"s3cret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRegister_MissingIdentifier(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, nil, domain.PlatformUserApp)

	_, c := doJSON(e, http.MethodPost, "/auth/register", `{"password":"s3cret1"}`)
	err := h.Register(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	e := newTestEcho()
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, password string, platform domain.Platform) (*ports.LoginResult, error) {
			if identifier != "alice@example.com" || password != "s3cret" {
				t.Fatalf("unexpected credentials %q/%q", identifier, password)
			}
			if platform != domain.PlatformUserApp {
				t.Fatalf("unexpected platform %v", platform)
			}
			return &ports.LoginResult{
				User:  domain.PublicView{ID: "user-1", Email: identifier},
				Token: "signed-token",
			}, nil
		},
	}
	h := NewAuthHandler(auth, nil, domain.PlatformUserApp)

	rec, c := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice@example.com","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Data.Token != "signed-token" || resp.Data.User.ID != "user-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestLogin_LockedOutPassesThrough(t *testing.T) {
	e := newTestEcho()
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, identifier, password string, platform domain.Platform) (*ports.LoginResult, error) {
			return nil, &domain.LockedOutError{WaitFor: 90 * time.Second}
		},
	}
	h := NewAuthHandler(auth, nil, domain.PlatformUserApp)

	_, c := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice@example.com","password":"s3cret"}`)
	err := h.Login(c)
	var locked *domain.LockedOutError
	if !errors.As(err, &locked) {
		t.Fatalf("lockout must reach the error handler untouched, got %v", err)
	}
	if !strings.Contains(err.Error(), "1m30s") {
		t.Fatalf("lockout message must carry the wait: %v", err)
	}
}

func TestLogin_ServiceErrorsPassThrough(t *testing.T) {
	e := newTestEcho()
	for _, want := range []error{domain.ErrUserNotFound, domain.ErrIncorrectPassword, domain.ErrPlatformForbidden} {
		auth := &stubAuthService{
			loginFn: func(ctx context.Context, identifier, password string, platform domain.Platform) (*ports.LoginResult, error) {
				return nil, want
			},
		}
		h := NewAuthHandler(auth, nil, domain.PlatformUserApp)

		_, c := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice@example.com","password":"pw"}`)
		if err := h.Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestLogout_UsesSessionContext(t *testing.T) {
	e := newTestEcho()
	auth := &stubAuthService{
		logoutFn: func(ctx context.Context, userID, token string) error {
			if userID != "user-1" || token != "signed-token" {
				t.Fatalf("unexpected args %q/%q", userID, token)
			}
			return nil
		},
	}
	h := NewAuthHandler(auth, nil, domain.PlatformUserApp)

	rec, c := doJSON(e, http.MethodPost, "/auth/logout", "")
	c.Set(middleware.CtxUserID, "user-1")
	c.Set(middleware.CtxToken, "signed-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestResetOTP_ReportsDelivery(t *testing.T) {
	e := newTestEcho()
	reset := &stubResetService{
		requestFn: func(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
			return &ports.ResetRequestResult{EmailSent: false}, nil
		},
	}
	h := NewAuthHandler(nil, reset, domain.PlatformUserApp)

	rec, c := doJSON(e, http.MethodPost, "/auth/reset-password-otp", `{"email":"alice@example.com"}`)
	if err := h.RequestResetOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp resetPasswordOTPResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.EmailSent {
		t.Fatalf("delivery failure must be reported")
	}
}

func TestRequestResetOTP_CooldownPassesThrough(t *testing.T) {
	e := newTestEcho()
	reset := &stubResetService{
		requestFn: func(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
			return nil, domain.ErrResetCooldown
		},
	}
	h := NewAuthHandler(nil, reset, domain.PlatformUserApp)

	_, c := doJSON(e, http.MethodPost, "/auth/reset-password-otp", `{"email":"alice@example.com"}`)
	if err := h.RequestResetOTP(c); !errors.Is(err, domain.ErrResetCooldown) {
		t.Fatalf("expected ErrResetCooldown, got %v", err)
	}
}

func TestValidateOTP_BadCodeShapeRejected(t *testing.T) {
	e := newTestEcho()
	reset := &stubResetService{
		validateFn: func(ctx context.Context, code string) error {
			t.Fatalf("service must not be reached with a malformed code")
			return nil
		},
	}
	h := NewAuthHandler(nil, reset, domain.PlatformUserApp)

	_, c := doJSON(e, http.MethodPost, "/auth/validate-otp", `{"otp":"12ab"}`)
	err := h.ValidateOTP(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestValidateOTP_ExpiredPassesThrough(t *testing.T) {
	e := newTestEcho()
	reset := &stubResetService{
		validateFn: func(ctx context.Context, code string) error {
			return domain.ErrOTPExpired
		},
	}
	h := NewAuthHandler(nil, reset, domain.PlatformUserApp)

	_, c := doJSON(e, http.MethodPost, "/auth/validate-otp", `{"otp":"123456"}`)
	if err := h.ValidateOTP(c); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestResetPassword_Success(t *testing.T) {
	e := newTestEcho()
	reset := &stubResetService{
		resetFn: func(ctx context.Context, code, newPassword string) error {
			if code != "123456" || newPassword != "n3wpass" {
				t.Fatalf("unexpected args %q/%q", code, newPassword)
			}
			return nil
		},
	}
	h := NewAuthHandler(nil, reset, domain.PlatformUserApp)

	rec, c := doJSON(e, http.MethodPut, "/auth/reset-password", `{"code":"123456","new_password":"n3wpass"}`)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
