package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/api/metrics"
	"github.com/shopstack/ecommerce-api/internal/api/middleware"
	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// AuthHandler exposes registration, login, logout, and the password reset
// flow for a single platform. The router mounts one instance per platform so
// the user type and signing secret are fixed by the entry point.
type AuthHandler struct {
	auth     ports.AuthService
	reset    ports.PasswordResetService
	platform domain.Platform
}

func NewAuthHandler(auth ports.AuthService, reset ports.PasswordResetService, platform domain.Platform) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset, platform: platform}
}

// userTypeFor fixes the registered role per platform entry point.
func (h *AuthHandler) userTypeFor() domain.UserType {
	if h.platform == domain.PlatformAdmin {
		return domain.UserTypeAdmin
	}
	return domain.UserTypeUser
}

// Register creates a new account on this platform.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details (email or phone required)"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" && req.Phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email or phone is required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Name:     req.Name,
		Password: req.Password,
		UserType: h.userTypeFor(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Data:    user.Public(),
		Message: "register successfully",
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.auth.Login(c.Request().Context(), req.Username, req.Password, h.platform)
	metrics.LoginAttemptsTotal.WithLabelValues(h.platform.String(), loginOutcome(err)).Inc()
	if err != nil {
		var locked *domain.LockedOutError
		if errors.As(err, &locked) {
			metrics.LockoutsTotal.WithLabelValues(h.platform.String()).Inc()
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Data:    loginData{User: result.User, Token: result.Token},
		Message: "Login Successful",
	})
}

// Logout marks the current session token expired.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	token, _ := c.Get(middleware.CtxToken).(string)

	if err := h.auth.Logout(c.Request().Context(), userID, token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged Out Successfully"})
}

// RequestResetOTP issues a password reset code and mails it.
//
// @Summary      Request a password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordOTPRequest  true  "Account email"
// @Success      200   {object}  resetPasswordOTPResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/reset-password-otp [post]
func (h *AuthHandler) RequestResetOTP(c echo.Context) error {
	var req resetPasswordOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.reset.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	metrics.OTPIssuedTotal.WithLabelValues(boolLabel(result.EmailSent)).Inc()

	return c.JSON(http.StatusOK, resetPasswordOTPResponse{
		Message:   "reset otp sent",
		EmailSent: result.EmailSent,
	})
}

// ValidateOTP checks a reset code. The code is consumed on success.
//
// @Summary      Validate a password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validateOTPRequest  true  "One-time code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      410   {object}  errorResponse
// @Router       /auth/validate-otp [post]
func (h *AuthHandler) ValidateOTP(c echo.Context) error {
	var req validateOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err := h.reset.ValidateOTP(c.Request().Context(), req.OTP)
	metrics.OTPValidationsTotal.WithLabelValues(otpOutcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "otp verified"})
}

// ResetPassword replaces the password for the account behind the reset code.
//
// @Summary      Reset password with an OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Code and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      410   {object}  errorResponse
// @Router       /auth/reset-password [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.reset.ResetPassword(c.Request().Context(), req.Code, req.NewPassword); err != nil {
		return err
	}
	metrics.PasswordResetsTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

// loginOutcome maps a login error to its metric label.
func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrIncorrectPassword):
		return "incorrect_password"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrRoleNotAssigned), errors.Is(err, domain.ErrPlatformForbidden):
		return "forbidden"
	default:
		var locked *domain.LockedOutError
		if errors.As(err, &locked) {
			return "locked_out"
		}
		return "error"
	}
}

func otpOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrOTPExpired):
		return "expired"
	default:
		return "invalid"
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
