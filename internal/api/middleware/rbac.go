package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/ecommerce-api/internal/core/domain"
)

// RBAC enforces user-type based access control on top of Auth.
func RBAC(allowedTypes ...domain.UserType) echo.MiddlewareFunc {
	allowed := make(map[domain.UserType]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userType, ok := c.Get(CtxUserType).(domain.UserType)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if _, ok := allowed[userType]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
