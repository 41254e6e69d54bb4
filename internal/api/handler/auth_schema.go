package handler

import "github.com/shopstack/ecommerce-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type registerRequest struct {
	Email    string `json:"email,omitempty"    validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"    validate:"omitempty,numeric"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"           validate:"required,min=6"`
}

type registerResponse struct {
	Data    domain.PublicView `json:"data"`
	Message string            `json:"message"`
}

// loginRequest carries the identifier ("username") and password. A fully
// numeric username is treated as a phone number, anything else as an email.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Data    loginData `json:"data"`
	Message string    `json:"message"`
}

type loginData struct {
	User  domain.PublicView `json:"user"`
	Token string            `json:"token"`
}

type resetPasswordOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordOTPResponse struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}

type validateOTPRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

type resetPasswordRequest struct {
	Code        string `json:"code"         validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,numeric"`
}

type userResponse struct {
	Data domain.PublicView `json:"data"`
}
