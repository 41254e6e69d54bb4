package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

func handleErr(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"incorrect password", domain.ErrIncorrectPassword, http.StatusUnauthorized},
		{"role not assigned", domain.ErrRoleNotAssigned, http.StatusForbidden},
		{"platform forbidden", domain.ErrPlatformForbidden, http.StatusForbidden},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"invalid otp", domain.ErrInvalidOTP, http.StatusBadRequest},
		{"otp expired", domain.ErrOTPExpired, http.StatusGone},
		{"reset code expired", domain.ErrResetCodeExpired, http.StatusGone},
		{"reset cooldown", domain.ErrResetCooldown, http.StatusTooManyRequests},
		{"product not found", domain.ErrProductNotFound, http.StatusNotFound},
		{"cart empty", domain.ErrCartEmpty, http.StatusUnprocessableEntity},
		{"invalid transition", domain.ErrInvalidOrderTransition, http.StatusUnprocessableEntity},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"store unavailable", domain.ErrStoreUnavailable, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := handleErr(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if body.Error == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("find user by email"), domain.ErrUserNotFound)
	rec, body := handleErr(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped error, got %d", rec.Code)
	}
	if body.Error != "User not exists" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestErrorHandler_Lockout(t *testing.T) {
	rec, body := handleErr(t, &domain.LockedOutError{WaitFor: 2 * time.Minute})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	want := "you have exceeded the number of login attempts, you can login after 2m0s"
	if body.Error != want {
		t.Fatalf("got %q, want %q", body.Error, want)
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := handleErr(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body.Error != "invalid payload" {
		t.Fatalf("unexpected message %q", body.Error)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	rec, body := handleErr(t, errors.New("mongo: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}
