package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into Echo's Validator hook.
// Messages name fields by their json tag, so a rejected login or OTP payload
// reads in the caller's own vocabulary ("otp must be 6 digits", not "OTP").
type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator assigned to echo.Echo.Validator.
func NewValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate reports every failed rule in one message so a client can fix the
// whole payload in a single round trip.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	var b strings.Builder
	for i, fe := range ve {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ruleMessage(fe))
	}
	return errors.New(b.String())
}

// ruleMessage renders one failed rule. The cases cover the tags the request
// schemas actually use; anything new falls through to a generic line.
func ruleMessage(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "len":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s characters", field, param)
		}
		return fmt.Sprintf("%s must have length %s", field, param)
	case "numeric":
		return field + " must contain only digits"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, param)
	}
	return fmt.Sprintf("%s is invalid (%s)", field, tag)
}
