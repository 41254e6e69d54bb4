package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
	"github.com/shopstack/ecommerce-api/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUser     = "user"
	CtxUserID   = "user_id"
	CtxUserType = "user_type"
	CtxToken    = "token"
)

// Auth validates the bearer token against the given platform's secret and
// injects the resolved user into the request context. A token issued for a
// different platform never passes here.
func Auth(validator ports.TokenValidator, platform domain.Platform) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := validator.Validate(c.Request().Context(), parts[1], platform)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUser, user)
			c.Set(CtxUserID, user.ID)
			c.Set(CtxUserType, user.UserType)
			c.Set(CtxToken, parts[1])

			return next(c)
		}
	}
}
